// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"time"

	"github.com/dalemusser/doubtspanel/internal/app/system/timeouts"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, log level); everything specific to
// the doubts panel lives here. The struct is built once and passed to every
// lifecycle hook, which hands the pieces each component needs to its
// constructor.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: doubtspanel-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Public URLs
	BaseURL     string   // where this service is reachable; the OAuth callback is derived from it
	FrontendURL string   // where browsers are sent after sign-in and sign-out
	CORSOrigins []string // origins allowed to call the JSON API

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string

	// Access gate
	AllowedEmailSuffix string // e.g. "@srmist.edu.in"

	// Attachments
	AttachmentsBackend string // "cloudinary" or "s3"

	CloudinaryEndpoint     string // upload API base (defaults to the public Cloudinary API)
	CloudinaryCloudName    string
	CloudinaryUploadPreset string

	S3Endpoint  string // host[:port], no scheme
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool
	S3PublicURL string // base URL objects are served from (blank derives it from endpoint and bucket)

	// Search
	SearchDebounce time.Duration // quiet period before a keystroke fetches

	// Timeouts applied by handlers; zero fields fall back to the defaults.
	Timeouts timeouts.Timeouts
}
