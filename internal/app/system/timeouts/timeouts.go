// Package timeouts provides the timeout budget for handler operations.
//
// A Timeouts value is built once from configuration and handed to each
// handler; there is no package-level state.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks and connectivity verification
//   - Short: single-document reads, lookups, and writes
//   - Medium: full-collection listings and search fetches
//   - Long: fan-out reads (solved doubts) and deletes with cleanup
//   - Upload: attachment transfer to the media host
package timeouts

import (
	"context"
	"time"
)

// Default timeout values.
const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
	DefaultUpload = 60 * time.Second
)

// Timeouts is the set of per-operation budgets.
type Timeouts struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
	Upload time.Duration
}

// Defaults returns the built-in budgets.
func Defaults() Timeouts {
	return Timeouts{
		Ping:   DefaultPing,
		Short:  DefaultShort,
		Medium: DefaultMedium,
		Long:   DefaultLong,
		Upload: DefaultUpload,
	}
}

// Merge returns t with every non-zero field of o applied on top.
func (t Timeouts) Merge(o Timeouts) Timeouts {
	if o.Ping > 0 {
		t.Ping = o.Ping
	}
	if o.Short > 0 {
		t.Short = o.Short
	}
	if o.Medium > 0 {
		t.Medium = o.Medium
	}
	if o.Long > 0 {
		t.Long = o.Long
	}
	if o.Upload > 0 {
		t.Upload = o.Upload
	}
	return t
}

// orDefault keeps a zero Timeouts usable in tests.
func orDefault(d, def time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return def
}

func (t Timeouts) WithPing(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, orDefault(t.Ping, DefaultPing))
}

func (t Timeouts) WithShort(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, orDefault(t.Short, DefaultShort))
}

func (t Timeouts) WithMedium(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, orDefault(t.Medium, DefaultMedium))
}

func (t Timeouts) WithLong(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, orDefault(t.Long, DefaultLong))
}

func (t Timeouts) WithUpload(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, orDefault(t.Upload, DefaultUpload))
}
