package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	doubtstore "github.com/dalemusser/doubtspanel/internal/app/store/doubts"
	replystore "github.com/dalemusser/doubtspanel/internal/app/store/replies"
	"github.com/dalemusser/doubtspanel/internal/app/system/apperr"
	"github.com/dalemusser/doubtspanel/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FakeDoubts is an in-memory doubt store with the same ordering and
// not-found behavior as the Mongo store. Set Fail[method] to make that
// method return the error.
type FakeDoubts struct {
	mu    sync.Mutex
	byID  map[primitive.ObjectID]models.Doubt
	clock time.Time
	Fail  map[string]error
	Calls map[string]int
}

func NewFakeDoubts() *FakeDoubts {
	return &FakeDoubts{
		byID:  map[primitive.ObjectID]models.Doubt{},
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Fail:  map[string]error{},
		Calls: map[string]int{},
	}
}

func (f *FakeDoubts) enter(method string) error {
	f.Calls[method]++
	return f.Fail[method]
}

func (f *FakeDoubts) ListAll(ctx context.Context) ([]models.Doubt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListAll"); err != nil {
		return nil, err
	}
	return f.sorted(func(models.Doubt) bool { return true }), nil
}

func (f *FakeDoubts) ListByOwner(ctx context.Context, email string) ([]models.Doubt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListByOwner"); err != nil {
		return nil, err
	}
	return f.sorted(func(d models.Doubt) bool { return d.PostedBy == email }), nil
}

func (f *FakeDoubts) sorted(keep func(models.Doubt) bool) []models.Doubt {
	out := []models.Doubt{}
	for _, d := range f.byID {
		if keep(d) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
	return out
}

func (f *FakeDoubts) Get(ctx context.Context, id string) (models.Doubt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("Get"); err != nil {
		return models.Doubt{}, err
	}
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return models.Doubt{}, apperr.NotFound("Doubt not found.")
	}
	d, ok := f.byID[oid]
	if !ok {
		return models.Doubt{}, apperr.NotFound("Doubt not found.")
	}
	return d, nil
}

func (f *FakeDoubts) Create(ctx context.Context, postedBy string, fl doubtstore.Fields) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("Create"); err != nil {
		return primitive.NilObjectID, err
	}
	f.clock = f.clock.Add(time.Second)
	d := models.Doubt{
		ID:          primitive.NewObjectID(),
		Title:       fl.Title,
		TitleCI:     text.Fold(fl.Title),
		Description: fl.Description,
		FileURL:     fl.FileURL,
		PostedBy:    postedBy,
		CreatedAt:   f.clock,
	}
	f.byID[d.ID] = d
	return d.ID, nil
}

func (f *FakeDoubts) Update(ctx context.Context, id string, fl doubtstore.Fields) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("Update"); err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.NotFound("Doubt not found.")
	}
	d, ok := f.byID[oid]
	if !ok {
		return apperr.NotFound("Doubt not found.")
	}
	d.Title, d.TitleCI, d.Description, d.FileURL = fl.Title, text.Fold(fl.Title), fl.Description, fl.FileURL
	f.byID[oid] = d
	return nil
}

func (f *FakeDoubts) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("Delete"); err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.NotFound("Doubt not found.")
	}
	if _, ok := f.byID[oid]; !ok {
		return apperr.NotFound("Doubt not found.")
	}
	delete(f.byID, oid)
	return nil
}

// Len is the number of stored doubts.
func (f *FakeDoubts) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

// FakeReplies is an in-memory reply store.
type FakeReplies struct {
	mu    sync.Mutex
	byID  map[primitive.ObjectID]models.Reply
	clock time.Time
	Fail  map[string]error
	Calls map[string]int
}

func NewFakeReplies() *FakeReplies {
	return &FakeReplies{
		byID:  map[primitive.ObjectID]models.Reply{},
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Fail:  map[string]error{},
		Calls: map[string]int{},
	}
}

func (f *FakeReplies) enter(method string) error {
	f.Calls[method]++
	return f.Fail[method]
}

func (f *FakeReplies) ListByDoubt(ctx context.Context, doubtID string) ([]models.Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListByDoubt"); err != nil {
		return nil, err
	}
	out := []models.Reply{}
	did, err := primitive.ObjectIDFromHex(doubtID)
	if err != nil {
		return out, nil
	}
	for _, r := range f.byID {
		if r.DoubtID == did {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
	return out, nil
}

func (f *FakeReplies) lookup(doubtID, replyID string) (models.Reply, error) {
	did, err1 := primitive.ObjectIDFromHex(doubtID)
	rid, err2 := primitive.ObjectIDFromHex(replyID)
	if err1 != nil || err2 != nil {
		return models.Reply{}, apperr.NotFound("Reply not found.")
	}
	r, ok := f.byID[rid]
	if !ok || r.DoubtID != did {
		return models.Reply{}, apperr.NotFound("Reply not found.")
	}
	return r, nil
}

func (f *FakeReplies) Get(ctx context.Context, doubtID, replyID string) (models.Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("Get"); err != nil {
		return models.Reply{}, err
	}
	return f.lookup(doubtID, replyID)
}

func (f *FakeReplies) Create(ctx context.Context, doubtID, user string, fl replystore.Fields) (models.Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("Create"); err != nil {
		return models.Reply{}, err
	}
	did, err := primitive.ObjectIDFromHex(doubtID)
	if err != nil {
		return models.Reply{}, apperr.NotFound("Doubt not found.")
	}
	f.clock = f.clock.Add(time.Second)
	r := models.Reply{
		ID:        primitive.NewObjectID(),
		DoubtID:   did,
		Text:      fl.Text,
		User:      user,
		FileURL:   fl.FileURL,
		Timestamp: f.clock,
	}
	f.byID[r.ID] = r
	return r, nil
}

func (f *FakeReplies) Update(ctx context.Context, doubtID, replyID, textValue string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("Update"); err != nil {
		return err
	}
	r, err := f.lookup(doubtID, replyID)
	if err != nil {
		return err
	}
	r.Text = textValue
	f.byID[r.ID] = r
	return nil
}

func (f *FakeReplies) Delete(ctx context.Context, doubtID, replyID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("Delete"); err != nil {
		return err
	}
	r, err := f.lookup(doubtID, replyID)
	if err != nil {
		return err
	}
	delete(f.byID, r.ID)
	return nil
}

func (f *FakeReplies) DeleteByDoubt(ctx context.Context, doubtID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeleteByDoubt"); err != nil {
		return 0, err
	}
	did, err := primitive.ObjectIDFromHex(doubtID)
	if err != nil {
		return 0, nil
	}
	var n int64
	for id, r := range f.byID {
		if r.DoubtID == did {
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}

// Len is the number of stored replies.
func (f *FakeReplies) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}
