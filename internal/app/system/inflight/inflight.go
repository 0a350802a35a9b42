// Package inflight rejects a second submission of the same action while
// the first is still running, so a double-clicked submit cannot create
// two records.
package inflight

import (
	"net/http"
	"sync"

	"github.com/dalemusser/doubtspanel/internal/app/system/auth"
)

// MsgBusy is shown to a submission rejected because an identical one is
// still running.
const MsgBusy = "Operation already in progress."

// Guard tracks busy keys.
type Guard struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

func New() *Guard {
	return &Guard{busy: map[string]struct{}{}}
}

// Acquire marks key busy. It returns a release func and true, or false
// when key is already busy.
func (g *Guard) Acquire(key string) (func(), bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.busy[key]; ok {
		return nil, false
	}
	g.busy[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.busy, key)
			g.mu.Unlock()
		})
	}, true
}

// Middleware guards a handler. keyFn derives the action key from the
// request; an empty key is not guarded. onBusy writes the rejection.
func (g *Guard) Middleware(keyFn func(*http.Request) string, onBusy http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFn(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			release, ok := g.Acquire(key)
			if !ok {
				onBusy(w, r)
				return
			}
			defer release()
			next.ServeHTTP(w, r)
		})
	}
}

// AccountAction keys a request by the acting account and the action it
// targets. Anonymous requests are not guarded.
func AccountAction(r *http.Request) string {
	acct, ok := auth.CurrentAccount(r)
	if !ok {
		return ""
	}
	return acct.Email + " " + r.Method + " " + r.URL.Path
}
