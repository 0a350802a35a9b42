package doubts

import (
	"github.com/dalemusser/doubtspanel/internal/app/policy/ownerpolicy"
	"github.com/dalemusser/doubtspanel/internal/domain/models"
)

// doubtRow is a doubt as listed, annotated with whether the viewer may
// edit or delete it.
type doubtRow struct {
	models.Doubt
	CanModify bool `json:"canModify"`
}

type replyRow struct {
	models.Reply
	CanModify bool `json:"canModify"`
}

type detailView struct {
	Doubt   doubtRow   `json:"doubt"`
	Replies []replyRow `json:"replies"`
}

func rowFor(acct *models.Account, d models.Doubt) doubtRow {
	return doubtRow{Doubt: d, CanModify: ownerpolicy.CanModify(acct, d)}
}

func doubtRows(acct *models.Account, ds []models.Doubt) []doubtRow {
	rows := make([]doubtRow, 0, len(ds))
	for _, d := range ds {
		rows = append(rows, rowFor(acct, d))
	}
	return rows
}

func replyRows(acct *models.Account, rs []models.Reply) []replyRow {
	rows := make([]replyRow, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, replyRow{Reply: r, CanModify: ownerpolicy.CanModify(acct, r)})
	}
	return rows
}
