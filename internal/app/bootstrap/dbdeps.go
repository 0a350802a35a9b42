// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/doubtspanel/internal/app/system/ratelimit"
	"github.com/dalemusser/doubtspanel/internal/app/system/search"
	"github.com/dalemusser/doubtspanel/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
//
// Search, SignIns and Workers are process-wide in-memory state built next
// to the database handle; they are pointers so every hook sees the same
// instance.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Search  *search.Registry
	SignIns *ratelimit.Limiter
	Workers []*workers.Prune
}
