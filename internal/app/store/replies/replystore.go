// internal/app/store/replies/replystore.go
package replystore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/doubtspanel/internal/app/system/apperr"
	"github.com/dalemusser/doubtspanel/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const msgNotFound = "Reply not found."

// Fields are the caller-supplied parts of a new Reply.
type Fields struct {
	Text    string
	FileURL string
}

// Store keeps replies in a single collection keyed by doubt_id.
type Store struct {
	c   *mongo.Collection
	now func() time.Time
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("replies"), now: time.Now}
}

// ListByDoubt returns the replies under doubtID, newest first.
// A malformed doubt id yields an empty list.
func (s *Store) ListByDoubt(ctx context.Context, doubtID string) ([]models.Reply, error) {
	did, err := primitive.ObjectIDFromHex(strings.TrimSpace(doubtID))
	if err != nil {
		return []models.Reply{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"doubt_id": did}, opts)
	if err != nil {
		return nil, apperr.Transport("list replies", err)
	}
	defer cur.Close(ctx)

	out := make([]models.Reply, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.Transport("list replies", err)
	}
	return out, nil
}

// Get returns one reply under doubtID.
func (s *Store) Get(ctx context.Context, doubtID, replyID string) (models.Reply, error) {
	filter, ok := scoped(doubtID, replyID)
	if !ok {
		return models.Reply{}, apperr.NotFound(msgNotFound)
	}

	var r models.Reply
	err := s.c.FindOne(ctx, filter).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Reply{}, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return models.Reply{}, apperr.Transport("get reply", err)
	}
	return r, nil
}

// Create stores a reply authored by user and returns it exactly as a
// later ListByDoubt would. The timestamp is truncated to the millisecond
// precision the database keeps.
func (s *Store) Create(ctx context.Context, doubtID, user string, f Fields) (models.Reply, error) {
	did, err := primitive.ObjectIDFromHex(strings.TrimSpace(doubtID))
	if err != nil {
		return models.Reply{}, apperr.NotFound("Doubt not found.")
	}

	r := models.Reply{
		ID:        primitive.NewObjectID(),
		DoubtID:   did,
		Text:      f.Text,
		User:      user,
		FileURL:   f.FileURL,
		Timestamp: s.now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Reply{}, apperr.Transport("create reply", err)
	}
	return r, nil
}

// Update replaces the reply text. user and timestamp are unchanged.
func (s *Store) Update(ctx context.Context, doubtID, replyID, text string) error {
	filter, ok := scoped(doubtID, replyID)
	if !ok {
		return apperr.NotFound(msgNotFound)
	}
	res, err := s.c.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"text": text}})
	if err != nil {
		return apperr.Transport("update reply", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound(msgNotFound)
	}
	return nil
}

// Delete removes one reply.
func (s *Store) Delete(ctx context.Context, doubtID, replyID string) error {
	filter, ok := scoped(doubtID, replyID)
	if !ok {
		return apperr.NotFound(msgNotFound)
	}
	res, err := s.c.DeleteOne(ctx, filter)
	if err != nil {
		return apperr.Transport("delete reply", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound(msgNotFound)
	}
	return nil
}

// DeleteByDoubt removes every reply under doubtID and returns how many
// were removed.
func (s *Store) DeleteByDoubt(ctx context.Context, doubtID string) (int64, error) {
	did, err := primitive.ObjectIDFromHex(strings.TrimSpace(doubtID))
	if err != nil {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"doubt_id": did})
	if err != nil {
		return 0, apperr.Transport("delete replies", err)
	}
	return res.DeletedCount, nil
}

func scoped(doubtID, replyID string) (bson.M, bool) {
	did, err := primitive.ObjectIDFromHex(strings.TrimSpace(doubtID))
	if err != nil {
		return nil, false
	}
	rid, err := primitive.ObjectIDFromHex(strings.TrimSpace(replyID))
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": rid, "doubt_id": did}, true
}
