// internal/app/store/logins/loginstore.go
package loginstore

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/doubtspanel/internal/app/system/ratelimit"
	"github.com/dalemusser/doubtspanel/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("login_records")}
}

// Record inserts a LoginRecord for an admitted sign-in, taking the client
// IP from the request (X-Forwarded-For, then X-Real-IP, then RemoteAddr).
func (s *Store) Record(ctx context.Context, r *http.Request, acct models.Account, provider string) error {
	rec := models.LoginRecord{
		AccountID: acct.ID,
		Email:     acct.Email,
		CreatedAt: time.Now().UTC(),
		IP:        ratelimit.ClientIP(r),
		Provider:  provider,
	}
	_, err := s.c.InsertOne(ctx, rec)
	return err
}

// Recent returns up to limit sign-ins for email, latest first.
func (s *Store) Recent(ctx context.Context, email string, limit int64) ([]models.LoginRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"email": email}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.LoginRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
