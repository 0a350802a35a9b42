// Package search backs the navigation-bar doubt search.
//
// Filter is the pure title match. Dropdown holds the per-session state
// behind the live dropdown: every keystroke is debounced, stamped with a
// monotonically increasing sequence number, and its result is applied
// only while it is still the newest one issued.
package search

import (
	"strings"

	"github.com/dalemusser/doubtspanel/internal/domain/models"
)

// Filter returns the doubts whose title contains query, ignoring case
// only. The query is matched as typed: surrounding spaces and accents
// count. A blank query matches nothing.
func Filter(doubts []models.Doubt, query string) []models.Doubt {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	q := strings.ToLower(query)

	var out []models.Doubt
	for _, d := range doubts {
		if strings.Contains(strings.ToLower(d.Title), q) {
			out = append(out, d)
		}
	}
	return out
}
