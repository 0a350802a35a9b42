// internal/app/store/doubts/doubtstore.go
package doubtstore

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/doubtspanel/internal/app/system/apperr"
	"github.com/dalemusser/doubtspanel/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const msgNotFound = "Doubt not found."

// Fields are the user-editable parts of a Doubt.
type Fields struct {
	Title       string
	Description string
	FileURL     string
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("doubts")}
}

// ListAll returns every doubt, newest first. _id breaks ties between
// doubts created within the same millisecond.
func (s *Store) ListAll(ctx context.Context) ([]models.Doubt, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	return s.find(ctx, bson.M{}, opts, "list doubts")
}

// ListByOwner returns the doubts posted by email, in storage order.
func (s *Store) ListByOwner(ctx context.Context, email string) ([]models.Doubt, error) {
	return s.find(ctx, bson.M{"posted_by": email}, options.Find(), "list doubts by owner")
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions, op string) ([]models.Doubt, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Transport(op, err)
	}
	defer cur.Close(ctx)

	out := make([]models.Doubt, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.Transport(op, err)
	}
	return out, nil
}

// Get returns one doubt. A malformed id is reported as not found.
func (s *Store) Get(ctx context.Context, id string) (models.Doubt, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return models.Doubt{}, apperr.NotFound(msgNotFound)
	}

	var d models.Doubt
	err = s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Doubt{}, apperr.NotFound(msgNotFound)
	}
	if err != nil {
		return models.Doubt{}, apperr.Transport("get doubt", err)
	}
	return d, nil
}

// Create inserts a doubt owned by postedBy and returns its id.
//
// The write is an upsert on a fresh id so that created_at can be assigned
// by the server with $currentDate.
func (s *Store) Create(ctx context.Context, postedBy string, f Fields) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	update := bson.M{
		"$setOnInsert": bson.M{
			"title":       f.Title,
			"title_ci":    text.Fold(f.Title),
			"description": f.Description,
			"file_url":    f.FileURL,
			"posted_by":   postedBy,
		},
		"$currentDate": bson.M{"created_at": true},
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true))
	if err != nil {
		return primitive.NilObjectID, apperr.Transport("create doubt", err)
	}
	return id, nil
}

// Update replaces title, description and file URL. posted_by and
// created_at are never touched.
func (s *Store) Update(ctx context.Context, id string, f Fields) error {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return apperr.NotFound(msgNotFound)
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"title":       f.Title,
		"title_ci":    text.Fold(f.Title),
		"description": f.Description,
		"file_url":    f.FileURL,
	}})
	if err != nil {
		return apperr.Transport("update doubt", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound(msgNotFound)
	}
	return nil
}

// Delete removes the doubt. Replies are not touched here.
func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return apperr.NotFound(msgNotFound)
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return apperr.Transport("delete doubt", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound(msgNotFound)
	}
	return nil
}
