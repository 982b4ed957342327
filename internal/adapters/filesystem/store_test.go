package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"stickynotes/internal/domain"
)

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(filepath.Join(t.TempDir(), "notes"))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	key := domain.PageKey("https://example.com/a/b?q=1#frag")

	notes := []domain.Note{
		{ID: "n1", X: 10, Y: 20, Width: 220, Height: 160, Text: "hello"},
		{ID: "n2", X: 1, Y: 2, Width: 3, Height: 4, Minimized: true,
			Anchor: &domain.AnchorRecord{Quote: "annual report", Prefix: "the ", Suffix: " for"}},
	}
	if err := s.Save(ctx, key, notes); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := s.Load(ctx, key)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Load() returned %d notes, want 2", len(got))
	}
	if got[0].Anchor != nil {
		t.Errorf("first note anchor = %+v, want nil", got[0].Anchor)
	}
	if got[1].Anchor == nil || got[1].Anchor.Quote != "annual report" {
		t.Errorf("second note anchor = %+v", got[1].Anchor)
	}
	if !got[1].Minimized || got[0].Text != "hello" {
		t.Errorf("fields not preserved: %+v", got)
	}

	pages, err := s.Pages(ctx)
	if err != nil {
		t.Fatalf("Pages() error = %v", err)
	}
	if len(pages) != 1 || pages[0] != key {
		t.Errorf("Pages() = %v, want [%s]", pages, key)
	}
}

func TestStore_MissingPageIsEmpty(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	got, err := s.Load(context.Background(), "stickyNotes:https://nowhere")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Load() = %v, want empty", got)
	}
}

func TestStore_SaveEmptyRemovesPage(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	key := "stickyNotes:https://example.com/"
	if err := s.Save(ctx, key, []domain.Note{{ID: "n1"}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Save(ctx, key, nil); err != nil {
		t.Fatalf("Save(nil) error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("directory still holds %d entries", len(entries))
	}
	pages, _ := s.Pages(ctx)
	if len(pages) != 0 {
		t.Errorf("Pages() = %v, want none", pages)
	}
}

func TestStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	key := "stickyNotes:https://example.com/"
	if err := os.WriteFile(s.path(key), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(context.Background(), key); err == nil {
		t.Error("Load() of a corrupt file should fail")
	}
}
