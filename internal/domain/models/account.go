// internal/domain/models/account.go
package models

import "strings"

// Account is the signed-in identity as returned by the provider. It is
// written only by the identity gateway and read by everything else.
type Account struct {
	ID          string `json:"id"`                    // provider-stable identifier
	Email       string `json:"email"`                 // institutional address, owner key for content
	DisplayName string `json:"displayName,omitempty"` // may be empty
}

// Username is the portion of the email before '@', used as the short
// label in the navigation bar.
func (a Account) Username() string {
	if i := strings.IndexByte(a.Email, '@'); i >= 0 {
		return a.Email[:i]
	}
	return a.Email
}
