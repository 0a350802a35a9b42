// internal/domain/models/doubt.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Doubt is a question posted to the board.
//
// PostedBy is the email of the author and is stamped from the acting
// account at creation; it never changes afterwards. CreatedAt is assigned
// by the database on insert.
type Doubt struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"-"` // lowercase, diacritics-stripped
	Description string             `bson:"description" json:"description"`
	FileURL     string             `bson:"file_url,omitempty" json:"fileURL"`
	PostedBy    string             `bson:"posted_by" json:"postedBy"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

// Owner returns the owning email for authorization checks.
func (d Doubt) Owner() string { return d.PostedBy }
