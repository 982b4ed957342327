package memory

import (
	"context"
	"errors"
	"testing"

	"stickynotes/internal/domain"
)

func TestStore_LoadReturnsCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	notes := []domain.Note{{ID: "a", Anchor: &domain.AnchorRecord{Quote: "q"}}}
	if err := s.Save(ctx, "k", notes); err != nil {
		t.Fatal(err)
	}
	notes[0].Anchor.Quote = "changed"

	got, err := s.Load(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Anchor.Quote != "q" {
		t.Errorf("expected stored copy to be isolated, got %q", got[0].Anchor.Quote)
	}
	got[0].Text = "mutated"
	again, _ := s.Load(ctx, "k")
	if again[0].Text != "" {
		t.Errorf("expected loaded copy to be isolated, got %q", again[0].Text)
	}
}

func TestStore_FailWith(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	boom := errors.New("quota exceeded")

	s.FailWith(boom)
	if err := s.Save(ctx, "k", []domain.Note{{ID: "a"}}); !errors.Is(err, boom) {
		t.Errorf("expected injected error, got %v", err)
	}
	if s.Saves() != 0 {
		t.Errorf("expected no successful saves, got %d", s.Saves())
	}

	s.FailWith(nil)
	if err := s.Save(ctx, "k", []domain.Note{{ID: "a"}}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	pages, _ := s.Pages(ctx)
	if len(pages) != 1 || pages[0] != "k" {
		t.Errorf("unexpected pages: %v", pages)
	}
}
