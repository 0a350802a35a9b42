// internal/app/features/replies/handler.go
package replies

import (
	"context"

	uierrors "github.com/dalemusser/doubtspanel/internal/app/features/errors"
	replystore "github.com/dalemusser/doubtspanel/internal/app/store/replies"
	"github.com/dalemusser/doubtspanel/internal/app/system/attachments"
	"github.com/dalemusser/doubtspanel/internal/app/system/timeouts"
	"github.com/dalemusser/doubtspanel/internal/domain/models"
	"go.uber.org/zap"
)

const (
	msgEmptyReply   = "Reply cannot be empty."
	msgReplyTooLong = "Reply is too long."
	msgPostFailed   = "Failed to post reply."
	msgUpdateFailed = "Failed to update reply."
	msgDeleteFailed = "Failed to delete reply."
	msgLoadFailed   = "Failed to load doubt or replies."
	msgUnauthorized = "Unauthorized access."
)

// ReplyStore is the reply persistence the handlers need.
type ReplyStore interface {
	ListByDoubt(ctx context.Context, doubtID string) ([]models.Reply, error)
	Get(ctx context.Context, doubtID, replyID string) (models.Reply, error)
	Create(ctx context.Context, doubtID, user string, f replystore.Fields) (models.Reply, error)
	Update(ctx context.Context, doubtID, replyID, text string) error
	Delete(ctx context.Context, doubtID, replyID string) error
}

// DoubtGetter confirms the parent doubt exists before a reply is posted.
type DoubtGetter interface {
	Get(ctx context.Context, id string) (models.Doubt, error)
}

type Handler struct {
	Replies  ReplyStore
	Doubts   DoubtGetter
	Uploader attachments.Uploader
	ErrLog   *uierrors.ErrorLogger
	Timeouts timeouts.Timeouts
	Log      *zap.Logger
}

func NewHandler(replies ReplyStore, doubts DoubtGetter, uploader attachments.Uploader, errLog *uierrors.ErrorLogger, t timeouts.Timeouts, logger *zap.Logger) *Handler {
	return &Handler{
		Replies:  replies,
		Doubts:   doubts,
		Uploader: uploader,
		ErrLog:   errLog,
		Timeouts: t,
		Log:      logger,
	}
}

// replyRow is a reply annotated with whether the viewer may change it.
// Create returns the same shape so a client can insert it into a list it
// already holds.
type replyRow struct {
	models.Reply
	CanModify bool `json:"canModify"`
}
