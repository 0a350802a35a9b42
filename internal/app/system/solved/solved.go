// Package solved derives the doubts an account has helped answer.
//
// There is no stored "solved" flag: a doubt counts as solved by an
// account when at least one reply under it has user equal to that
// account's email. The aggregation runs at read time.
package solved

import (
	"context"

	"github.com/dalemusser/doubtspanel/internal/domain/models"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the per-doubt reply fetches in flight.
const DefaultConcurrency = 8

// DoubtLister lists every doubt in board order.
type DoubtLister interface {
	ListAll(ctx context.Context) ([]models.Doubt, error)
}

// ReplyLister lists the replies under one doubt.
type ReplyLister interface {
	ListByDoubt(ctx context.Context, doubtID string) ([]models.Reply, error)
}

type Aggregator struct {
	doubts      DoubtLister
	replies     ReplyLister
	concurrency int
}

// New returns an Aggregator. concurrency <= 0 selects DefaultConcurrency.
func New(doubts DoubtLister, replies ReplyLister, concurrency int) *Aggregator {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Aggregator{doubts: doubts, replies: replies, concurrency: concurrency}
}

// ForAccount returns every doubt with at least one reply by email, each
// paired with only that account's replies. Result order follows ListAll.
// Replies whose doubt no longer exists are never visited.
func (a *Aggregator) ForAccount(ctx context.Context, email string) ([]models.SolvedDoubt, error) {
	doubts, err := a.doubts.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	mine := make([][]models.Reply, len(doubts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i := range doubts {
		g.Go(func() error {
			replies, err := a.replies.ListByDoubt(gctx, doubts[i].ID.Hex())
			if err != nil {
				return err
			}
			mine[i] = ByUser(replies, email)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]models.SolvedDoubt, 0)
	for i, d := range doubts {
		if len(mine[i]) == 0 {
			continue
		}
		out = append(out, models.SolvedDoubt{Doubt: d, Replies: mine[i]})
	}
	return out, nil
}

// ByUser keeps the replies authored by email, preserving order.
func ByUser(replies []models.Reply, email string) []models.Reply {
	var out []models.Reply
	for _, r := range replies {
		if r.User == email {
			out = append(out, r)
		}
	}
	return out
}
