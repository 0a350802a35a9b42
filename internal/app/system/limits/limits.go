// internal/app/system/limits/limits.go
package limits

// Request body size limits for various features.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxAttachmentSize is the largest file accepted on a doubt or reply.
	MaxAttachmentSize = 10 << 20 // 10 MB

	// MaxPostFormSize bounds a doubt or reply submission including its
	// attachment and multipart overhead.
	MaxPostFormSize = MaxAttachmentSize + 1<<20

	// MaxTitleLength and MaxBodyLength bound the text fields, counted in runes.
	MaxTitleLength = 200
	MaxBodyLength  = 20000
)
