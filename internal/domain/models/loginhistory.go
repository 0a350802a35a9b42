// internal/domain/models/loginhistory.go
package models

import "time"

// LoginRecord captures a single admitted sign-in.
// CreatedAt is indexed for recent-activity queries.
type LoginRecord struct {
	AccountID string    `bson:"account_id"`
	Email     string    `bson:"email"`
	CreatedAt time.Time `bson:"created_at"`
	IP        string    `bson:"ip"`
	Provider  string    `bson:"provider"`
}
