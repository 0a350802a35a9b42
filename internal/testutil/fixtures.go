package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/doubtspanel/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures inserts test data directly, bypassing the stores.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// CreateDoubt inserts a doubt with an explicit creation time.
func (f *Fixtures) CreateDoubt(ctx context.Context, title, postedBy string, createdAt time.Time) models.Doubt {
	f.t.Helper()

	d := models.Doubt{
		ID:          primitive.NewObjectID(),
		Title:       title,
		TitleCI:     text.Fold(title),
		Description: "description of " + title,
		PostedBy:    postedBy,
		CreatedAt:   createdAt.UTC().Truncate(time.Millisecond),
	}
	if _, err := f.db.Collection("doubts").InsertOne(ctx, d); err != nil {
		f.t.Fatalf("failed to create test doubt: %v", err)
	}
	return d
}

// CreateReply inserts a reply under doubtID.
func (f *Fixtures) CreateReply(ctx context.Context, doubtID primitive.ObjectID, user, body string, ts time.Time) models.Reply {
	f.t.Helper()

	r := models.Reply{
		ID:        primitive.NewObjectID(),
		DoubtID:   doubtID,
		Text:      body,
		User:      user,
		Timestamp: ts.UTC().Truncate(time.Millisecond),
	}
	if _, err := f.db.Collection("replies").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("failed to create test reply: %v", err)
	}
	return r
}
