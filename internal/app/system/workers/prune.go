// internal/app/system/workers/prune.go
package workers

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pruner drops in-memory state that has been idle for too long.
type Pruner interface {
	Prune(idle time.Duration) int
}

// Prune is a background worker that periodically prunes one Pruner, such
// as the search registry or the sign-in limiter.
type Prune struct {
	name     string
	target   Pruner
	log      *zap.Logger
	interval time.Duration
	idle     time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewPrune creates a prune worker.
//
// Parameters:
//   - name: label used in log lines (e.g., "search")
//   - target: the state to prune
//   - logger: zap logger for logging
//   - interval: how often to prune (e.g., 1 minute)
//   - idle: how long an entry must be unused before it is dropped (e.g., 30 minutes)
func NewPrune(name string, target Pruner, logger *zap.Logger, interval, idle time.Duration) *Prune {
	return &Prune{
		name:     name,
		target:   target,
		log:      logger.With(zap.String("worker", name+"_prune")),
		interval: interval,
		idle:     idle,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background prune loop.
func (w *Prune) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("prune worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("idle", w.idle))
}

// Stop signals the worker to stop and waits for it to finish. It is safe
// to call more than once.
func (w *Prune) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
	w.log.Info("prune worker stopped")
}

func (w *Prune) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			if n := w.target.Prune(w.idle); n > 0 {
				w.log.Debug("pruned idle entries", zap.Int("count", n))
			}
		}
	}
}
