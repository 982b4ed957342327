package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"stickynotes/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "notes.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_LoadMissingPage(t *testing.T) {
	store := openTestStore(t)

	notes, err := store.Load(context.Background(), "stickyNotes:https://nowhere")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if notes == nil || len(notes) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", notes)
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	page := domain.PageKey("https://example.com/report")

	notes := []domain.Note{
		{ID: "b", X: 10.5, Y: 20, Width: 220, Height: 160, Text: "second in id order, first in list", Minimized: true,
			Anchor: &domain.AnchorRecord{Quote: "annual report", Prefix: "the ", Suffix: " for Q3"}},
		{ID: "a", X: 50, Y: 50, Width: 220, Height: 160, Text: ""},
	}
	if err := store.Save(ctx, page, notes); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load(ctx, page)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(got))
	}
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("order not preserved: %s, %s", got[0].ID, got[1].ID)
	}
	if !got[0].Minimized || got[0].X != 10.5 || got[0].Text != notes[0].Text {
		t.Errorf("fields not preserved: %+v", got[0])
	}
	if got[0].Anchor == nil || *got[0].Anchor != *notes[0].Anchor {
		t.Errorf("anchor not preserved: %+v", got[0].Anchor)
	}
	if got[1].Anchor != nil {
		t.Errorf("expected absent anchor to stay nil, got %+v", got[1].Anchor)
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	page := domain.PageKey("https://example.com/")

	if err := store.Save(ctx, page, []domain.Note{{ID: "a"}, {ID: "b"}, {ID: "c"}}); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, page, []domain.Note{{ID: "c"}}); err != nil {
		t.Fatal(err)
	}

	got, err := store.Load(ctx, page)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "c" {
		t.Errorf("expected only note c, got %+v", got)
	}

	if err := store.Save(ctx, page, nil); err != nil {
		t.Fatal(err)
	}
	pages, err := store.Pages(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 0 {
		t.Errorf("expected no pages after clearing, got %v", pages)
	}
}

func TestStore_PagesAreIsolated(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	p1 := domain.PageKey("https://a.example/")
	p2 := domain.PageKey("https://b.example/")

	if err := store.Save(ctx, p1, []domain.Note{{ID: "1"}}); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, p2, []domain.Note{{ID: "2"}, {ID: "3"}}); err != nil {
		t.Fatal(err)
	}

	pages, err := store.Pages(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 2 || pages[0] != p1 || pages[1] != p2 {
		t.Errorf("unexpected pages: %v", pages)
	}

	got, _ := store.Load(ctx, p1)
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("page 1 polluted: %+v", got)
	}
}

func TestStore_InMemory(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Save(ctx, "k", []domain.Note{{ID: "x"}}); err != nil {
		t.Fatal(err)
	}
	got, err := store.Load(ctx, "k")
	if err != nil || len(got) != 1 {
		t.Fatalf("expected one note, got %v (%v)", got, err)
	}
}
