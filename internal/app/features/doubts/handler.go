// internal/app/features/doubts/handler.go
package doubts

import (
	"context"

	uierrors "github.com/dalemusser/doubtspanel/internal/app/features/errors"
	doubtstore "github.com/dalemusser/doubtspanel/internal/app/store/doubts"
	"github.com/dalemusser/doubtspanel/internal/app/system/attachments"
	"github.com/dalemusser/doubtspanel/internal/app/system/timeouts"
	"github.com/dalemusser/doubtspanel/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Messages shown to the user.
const (
	msgEmptyFields  = "Title and description cannot be empty."
	msgTitleTooLong = "Title is too long."
	msgBodyTooLong  = "Description is too long."
	msgUnauthorized = "Unauthorized access."
	msgCreateFailed = "An error occurred while posting your doubt. Please try again."
	msgUpdateFailed = "Failed to update doubt."
	msgDeleteFailed = "Failed to delete doubt."
	msgLoadFailed   = "Failed to load doubts."
	msgDetailFailed = "Failed to load doubt or replies."
)

// DoubtStore is the doubt persistence the handlers need.
type DoubtStore interface {
	ListAll(ctx context.Context) ([]models.Doubt, error)
	ListByOwner(ctx context.Context, email string) ([]models.Doubt, error)
	Get(ctx context.Context, id string) (models.Doubt, error)
	Create(ctx context.Context, postedBy string, f doubtstore.Fields) (primitive.ObjectID, error)
	Update(ctx context.Context, id string, f doubtstore.Fields) error
	Delete(ctx context.Context, id string) error
}

// ReplyStore is the reply access needed to show a doubt and to cascade
// its deletion.
type ReplyStore interface {
	ListByDoubt(ctx context.Context, doubtID string) ([]models.Reply, error)
	DeleteByDoubt(ctx context.Context, doubtID string) (int64, error)
}

// Handler serves the doubt board.
type Handler struct {
	Doubts   DoubtStore
	Replies  ReplyStore
	Uploader attachments.Uploader
	ErrLog   *uierrors.ErrorLogger
	Timeouts timeouts.Timeouts
	Log      *zap.Logger
}

// NewHandler creates a doubts handler.
func NewHandler(doubts DoubtStore, replies ReplyStore, uploader attachments.Uploader, errLog *uierrors.ErrorLogger, t timeouts.Timeouts, logger *zap.Logger) *Handler {
	return &Handler{
		Doubts:   doubts,
		Replies:  replies,
		Uploader: uploader,
		ErrLog:   errLog,
		Timeouts: t,
		Log:      logger,
	}
}
