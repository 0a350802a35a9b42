// internal/app/policy/ownerpolicy/ownerpolicy.go
package ownerpolicy

import "github.com/dalemusser/doubtspanel/internal/domain/models"

// Owned is any record whose owner is identified by an email string.
type Owned interface {
	Owner() string
}

// CanModify reports whether account may edit or delete rec. Ownership is
// exact email equality against the record's owner field; a nil account or
// a record with no owner can never be modified.
func CanModify(account *models.Account, rec Owned) bool {
	if account == nil || account.Email == "" {
		return false
	}
	owner := rec.Owner()
	return owner != "" && owner == account.Email
}
