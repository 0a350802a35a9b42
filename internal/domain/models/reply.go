// internal/domain/models/reply.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reply is an answer attached to a Doubt. The parent reference is not
// enforced; a reply can outlive its doubt.
type Reply struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DoubtID   primitive.ObjectID `bson:"doubt_id" json:"doubtId"`
	Text      string             `bson:"text" json:"text"`
	User      string             `bson:"user" json:"user"` // author email
	FileURL   string             `bson:"file_url,omitempty" json:"fileURL"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// Owner returns the owning email for authorization checks.
func (r Reply) Owner() string { return r.User }
