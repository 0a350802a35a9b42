// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

const (
	pruneInterval   = time.Minute
	searchIdleAfter = 30 * time.Minute

	// sign-in starts allowed per client IP per window
	signInLimit  = 10
	signInWindow = time.Minute
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It starts
// the background prune workers.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	for _, w := range deps.Workers {
		w.Start()
	}
	return nil
}
