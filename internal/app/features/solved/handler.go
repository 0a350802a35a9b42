// internal/app/features/solved/handler.go
package solved

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/doubtspanel/internal/app/features/errors"
	"github.com/dalemusser/doubtspanel/internal/app/system/auth"
	"github.com/dalemusser/doubtspanel/internal/app/system/timeouts"
	"github.com/dalemusser/doubtspanel/internal/domain/models"
	"go.uber.org/zap"
)

const msgLoadFailed = "Failed to load solved doubts."

// Aggregator computes the doubts an account has replied to.
type Aggregator interface {
	ForAccount(ctx context.Context, email string) ([]models.SolvedDoubt, error)
}

type Handler struct {
	Solved   Aggregator
	ErrLog   *uierrors.ErrorLogger
	Timeouts timeouts.Timeouts
	Log      *zap.Logger
}

func NewHandler(agg Aggregator, errLog *uierrors.ErrorLogger, t timeouts.Timeouts, logger *zap.Logger) *Handler {
	return &Handler{Solved: agg, ErrLog: errLog, Timeouts: t, Log: logger}
}

// ServeSolved handles GET /solved-doubts.
func (h *Handler) ServeSolved(w http.ResponseWriter, r *http.Request) {
	acct, _ := auth.CurrentAccount(r)

	// One reply fetch per doubt; give it the long budget.
	ctx, cancel := h.Timeouts.WithLong(r.Context())
	defer cancel()

	out, err := h.Solved.ForAccount(ctx, acct.Email)
	if err != nil {
		h.ErrLog.Respond(w, r, "solved doubts aggregation failed", err, msgLoadFailed)
		return
	}
	h.Log.Debug("solved doubts", zap.String("email", acct.Email), zap.Int("count", len(out)))
	uierrors.WriteJSON(w, http.StatusOK, out)
}
