package doubtstore_test

import (
	"errors"
	"testing"
	"time"

	doubtstore "github.com/dalemusser/doubtspanel/internal/app/store/doubts"
	"github.com/dalemusser/doubtspanel/internal/app/system/apperr"
	"github.com/dalemusser/doubtspanel/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateThenGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := doubtstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id, err := store.Create(ctx, "student@srmist.edu.in", doubtstore.Fields{Title: "T", Description: "D"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.Get(ctx, id.Hex())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != "T" || got.Description != "D" || got.FileURL != "" {
		t.Errorf("unexpected fields: %+v", got)
	}
	if got.PostedBy != "student@srmist.edu.in" {
		t.Errorf("PostedBy: got %q", got.PostedBy)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected server-assigned CreatedAt")
	}
}

func TestStore_ListAll_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := doubtstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateDoubt(ctx, "older", "a@srmist.edu.in", time.Now().Add(-time.Hour))
	fx.CreateDoubt(ctx, "newer", "a@srmist.edu.in", time.Now().Add(-time.Minute))

	id, err := store.Create(ctx, "b@srmist.edu.in", doubtstore.Fields{Title: "newest", Description: "x"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	list, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 doubts, got %d", len(list))
	}
	if list[0].ID != id {
		t.Errorf("expected freshly created doubt first, got %q", list[0].Title)
	}
	if list[1].Title != "newer" || list[2].Title != "older" {
		t.Errorf("unexpected order: %q, %q", list[1].Title, list[2].Title)
	}
}

func TestStore_ListByOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := doubtstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateDoubt(ctx, "mine", "me@srmist.edu.in", time.Now())
	fx.CreateDoubt(ctx, "theirs", "them@srmist.edu.in", time.Now())

	list, err := store.ListByOwner(ctx, "me@srmist.edu.in")
	if err != nil {
		t.Fatalf("ListByOwner failed: %v", err)
	}
	if len(list) != 1 || list[0].Title != "mine" {
		t.Errorf("unexpected result: %+v", list)
	}
}

func TestStore_Get_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := doubtstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, id := range []string{primitive.NewObjectID().Hex(), "not-an-id"} {
		_, err := store.Get(ctx, id)
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Get(%q): expected not found, got %v", id, err)
		}
	}
}

func TestStore_Update_KeepsOwnerAndCreatedAt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := doubtstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	d := fx.CreateDoubt(ctx, "before", "owner@srmist.edu.in", time.Now().Add(-time.Hour))

	err := store.Update(ctx, d.ID.Hex(), doubtstore.Fields{Title: "after", Description: "new", FileURL: "https://cdn/x.png"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.Get(ctx, d.ID.Hex())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != "after" || got.Description != "new" || got.FileURL != "https://cdn/x.png" {
		t.Errorf("fields not updated: %+v", got)
	}
	if got.PostedBy != "owner@srmist.edu.in" {
		t.Errorf("PostedBy changed to %q", got.PostedBy)
	}
	if !got.CreatedAt.Equal(d.CreatedAt) {
		t.Errorf("CreatedAt changed: got %v, want %v", got.CreatedAt, d.CreatedAt)
	}
}

func TestStore_Update_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := doubtstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.Update(ctx, primitive.NewObjectID().Hex(), doubtstore.Fields{Title: "x", Description: "y"})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := doubtstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	d := fx.CreateDoubt(ctx, "gone", "owner@srmist.edu.in", time.Now())

	if err := store.Delete(ctx, d.ID.Hex()); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	list, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty list after delete, got %d", len(list))
	}

	if err := store.Delete(ctx, d.ID.Hex()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete: expected not found, got %v", err)
	}
}
