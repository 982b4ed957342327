package memory

import (
	"context"
	"sort"
	"sync"

	"stickynotes/internal/domain"
	"stickynotes/internal/ports"
)

// Store is an in-process NoteStore. It backs tests and throwaway sessions.
type Store struct {
	mu      sync.Mutex
	pages   map[string][]domain.Note
	failErr error
	saves   int
}

var _ ports.NoteStore = (*Store)(nil)

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{pages: make(map[string][]domain.Note)}
}

// FailWith makes every following call return err until cleared with nil
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

// Saves returns the number of successful Save calls
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *Store) Load(ctx context.Context, pageKey string) ([]domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return nil, s.failErr
	}
	return domain.CloneNotes(s.pages[pageKey]), nil
}

func (s *Store) Save(ctx context.Context, pageKey string, notes []domain.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	if len(notes) == 0 {
		delete(s.pages, pageKey)
	} else {
		s.pages[pageKey] = domain.CloneNotes(notes)
	}
	s.saves++
	return nil
}

func (s *Store) Pages(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return nil, s.failErr
	}
	keys := make([]string, 0, len(s.pages))
	for k := range s.pages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
