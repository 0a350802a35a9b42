// internal/domain/models/solved.go
package models

// SolvedDoubt pairs a doubt with the acting account's own replies to it.
// Replies is never empty for an entry returned by the aggregator.
type SolvedDoubt struct {
	Doubt   Doubt   `json:"doubt"`
	Replies []Reply `json:"replies"`
}
