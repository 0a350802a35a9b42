// Package allowlist decides whether an email belongs to the institution.
package allowlist

import "strings"

// DefaultSuffix is the institutional email suffix used when none is configured.
const DefaultSuffix = "@srmist.edu.in"

// Allowlist holds a single institutional suffix. The zero value admits
// nobody.
type Allowlist struct {
	suffix string
}

// New returns an Allowlist for suffix. The suffix is compared
// case-insensitively.
func New(suffix string) Allowlist {
	return Allowlist{suffix: strings.ToLower(strings.TrimSpace(suffix))}
}

// Suffix returns the normalized suffix.
func (a Allowlist) Suffix() string { return a.suffix }

// Admits reports whether email ends with the institutional suffix.
func (a Allowlist) Admits(email string) bool {
	if a.suffix == "" {
		return false
	}
	e := strings.ToLower(strings.TrimSpace(email))
	// "@srmist.edu.in" on its own is not an address.
	if len(e) <= len(a.suffix) {
		return false
	}
	return strings.HasSuffix(e, a.suffix)
}

// RejectionMessage is the user-visible text shown when Admits is false.
func (a Allowlist) RejectionMessage() string {
	return "Only institutional emails (" + a.suffix + ") are allowed."
}
