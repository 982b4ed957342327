package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"stickynotes/internal/anchor"
	"stickynotes/internal/dom"
	"stickynotes/internal/domain"
	"stickynotes/internal/ports"
	"stickynotes/internal/reanchor"
)

// DefaultSaveDebounce is the quiet period before edited text is written
const DefaultSaveDebounce = 400 * time.Millisecond

// Options tunes a Session. Zero values take their defaults.
type Options struct {
	Matcher      anchor.Params
	Policy       reanchor.Policy
	SaveDebounce time.Duration
	Logger       *logrus.Logger
}

// AttachResult reports the outcome of anchoring a note to a selection
type AttachResult struct {
	Anchor  domain.AnchorRecord
	Wrapped bool
}

// Session owns the note list of one page together with its document. Every
// change to the list is followed by a write to the store; text edits are
// debounced, everything else is written at once. A failed write leaves the
// in-memory list authoritative and marks the session dirty until the next
// successful one.
type Session struct {
	pageKey  string
	store    ports.NoteStore
	doc      *dom.Document
	log      *logrus.Logger
	matcher  *anchor.Matcher
	capturer *anchor.Capturer
	policy   reanchor.Policy
	saver    *Debouncer

	mu    sync.Mutex
	notes []domain.Note
	dirty bool

	saveMu sync.Mutex

	watchMu   sync.Mutex
	stopWatch context.CancelFunc
}

// NewSession creates a session for pageURL. doc may be nil when no document
// is open; anchoring operations then report ErrInvalidOperation.
func NewSession(pageURL string, store ports.NoteStore, doc *dom.Document, opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	debounce := opts.SaveDebounce
	if debounce <= 0 {
		debounce = DefaultSaveDebounce
	}
	s := &Session{
		pageKey:  domain.PageKey(pageURL),
		store:    store,
		doc:      doc,
		log:      log,
		matcher:  anchor.NewMatcher(opts.Matcher),
		capturer: anchor.NewCapturer(opts.Matcher),
		policy:   opts.Policy.WithDefaults(),
		notes:    []domain.Note{},
	}
	s.saver = NewDebouncer(debounce, func() {
		s.persist(context.Background())
	})
	return s
}

// PageKey returns the storage key of the session's page
func (s *Session) PageKey() string {
	return s.pageKey
}

// Document returns the session's document, which may be nil
func (s *Session) Document() *dom.Document {
	return s.doc
}

// Load replaces the in-memory list with the stored one. On failure the
// session keeps an empty list and stays usable.
func (s *Session) Load(ctx context.Context) error {
	notes, err := s.store.Load(ctx, s.pageKey)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"page":  s.pageKey,
			"error": err,
		}).Warn("failed to load notes")
		return fmt.Errorf("failed to load notes: %w", err)
	}
	if notes == nil {
		notes = []domain.Note{}
	}
	s.mu.Lock()
	s.notes = notes
	s.mu.Unlock()
	s.log.WithFields(logrus.Fields{
		"page":  s.pageKey,
		"notes": len(notes),
	}).Debug("notes loaded")
	return nil
}

// Notes returns a copy of the current note list
func (s *Session) Notes() []domain.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneNotes(s.notes)
}

// Note returns a copy of one note
func (s *Session) Note(id string) (domain.Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.notes[i].Clone(), true
	}
	return domain.Note{}, false
}

// Dirty reports whether the last write to the store failed
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// HandleMessage reacts to a host signal
func (s *Session) HandleMessage(ctx context.Context, msg Message) (*domain.Note, error) {
	switch msg.Type {
	case MessageCreateNote:
		n := s.CreateNote(ctx)
		return &n, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
}

// CreateNote appends an empty note at the default position
func (s *Session) CreateNote(ctx context.Context) domain.Note {
	n, _ := s.AddNote(ctx, domain.NewNote())
	return n
}

// AddNote appends n, filling in a missing id and geometry
func (s *Session) AddNote(ctx context.Context, n domain.Note) (domain.Note, error) {
	if n.ID == "" {
		n.ID = domain.NewNoteID()
	}
	if n.Width <= 0 {
		n.Width = domain.DefaultWidth
	}
	if n.Height <= 0 {
		n.Height = domain.DefaultHeight
	}

	s.mu.Lock()
	if s.indexOf(n.ID) >= 0 {
		s.mu.Unlock()
		return domain.Note{}, &NoteError{ID: n.ID, Op: "create", Err: ErrInvalidOperation}
	}
	s.notes = append(s.notes, n.Clone())
	s.mu.Unlock()

	s.log.WithField("note", n.ID).Debug("note created")
	s.saveNow(ctx)
	return n, nil
}

// DeleteNote removes a note, unwrapping its marker first so the page text
// is restored unmarked.
func (s *Session) DeleteNote(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return notFound("delete", id)
	}
	s.removeMarker(id)
	s.notes = append(s.notes[:i], s.notes[i+1:]...)
	s.mu.Unlock()

	s.log.WithField("note", id).Debug("note deleted")
	s.saveNow(ctx)
	return nil
}

// EditText replaces a note's text and schedules a debounced write
func (s *Session) EditText(id, text string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return notFound("edit", id)
	}
	s.notes[i].Text = text
	s.mu.Unlock()

	s.saver.Trigger()
	return nil
}

// Move stores the final position of a drag
func (s *Session) Move(ctx context.Context, id string, x, y float64) error {
	return s.update(ctx, "move", id, func(n *domain.Note) error {
		n.X, n.Y = x, y
		return nil
	})
}

// Resize stores new card dimensions
func (s *Session) Resize(ctx context.Context, id string, width, height float64) error {
	if err := ValidateSize("width", width); err != nil {
		return err
	}
	if err := ValidateSize("height", height); err != nil {
		return err
	}
	return s.update(ctx, "resize", id, func(n *domain.Note) error {
		n.Width, n.Height = width, height
		return nil
	})
}

// ToggleMinimized flips a note between minimized and open and returns the
// new state.
func (s *Session) ToggleMinimized(ctx context.Context, id string) (bool, error) {
	var minimized bool
	err := s.update(ctx, "toggle", id, func(n *domain.Note) error {
		n.Minimized = !n.Minimized
		minimized = n.Minimized
		return nil
	})
	return minimized, err
}

// AttachToSelection captures sel as the note's anchor and marks it in the
// document, replacing any earlier anchor. A selection that cannot be
// captured changes nothing. A capture that cannot be wrapped is still
// stored for later passes.
func (s *Session) AttachToSelection(ctx context.Context, id string, sel *dom.Range) (*AttachResult, error) {
	if s.doc == nil {
		return nil, &NoteError{ID: id, Op: "attach", Err: ErrInvalidOperation}
	}

	var rec *domain.AnchorRecord
	var err error
	s.doc.Read(func(root *html.Node) {
		rec, err = s.capturer.Capture(sel)
	})
	if err != nil {
		return nil, &NoteError{ID: id, Op: "attach", Err: err}
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return nil, notFound("attach", id)
	}

	var wrapped bool
	s.doc.Update(func(root *html.Node) {
		if old := anchor.FindMarker(root, id); old != nil {
			// Unwrapping merges text nodes, so the selection may now point at
			// detached nodes; relocate the fresh record instead.
			anchor.Unwrap(old)
			if m := s.matcher.Locate(*rec, root); m != nil {
				wrapped = anchor.Wrap(root, m.Range(), id)
			}
			return
		}
		wrapped = anchor.Wrap(root, sel, id)
	})
	s.notes[i].Anchor = rec
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"note":    id,
		"quote":   rec.Quote,
		"wrapped": wrapped,
	}).Debug("note attached")
	s.saveNow(ctx)
	return &AttachResult{Anchor: *rec, Wrapped: wrapped}, nil
}

// DetachAnchor drops a note's anchor and its marker
func (s *Session) DetachAnchor(ctx context.Context, id string) error {
	return s.update(ctx, "detach", id, func(n *domain.Note) error {
		if n.Anchor == nil {
			return ErrInvalidOperation
		}
		s.removeMarker(id)
		n.Anchor = nil
		return nil
	})
}

// ReanchorAll relocates every anchored note that has no marker yet and
// returns how many markers it placed. Notes that cannot be matched or
// wrapped are skipped until the next pass.
func (s *Session) ReanchorAll() int {
	if s.doc == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	placed := 0
	s.doc.Update(func(root *html.Node) {
		for _, n := range s.notes {
			if !n.HasAnchor() || anchor.FindMarker(root, n.ID) != nil {
				continue
			}
			m := s.matcher.Locate(*n.Anchor, root)
			if m == nil {
				s.log.WithField("note", n.ID).Debug("anchor not found")
				continue
			}
			if anchor.Wrap(root, m.Range(), n.ID) {
				placed++
			} else {
				s.log.WithField("note", n.ID).Debug("anchor could not be wrapped")
			}
		}
	})
	return placed
}

// Anchored reports which notes currently have a marker in the document
func (s *Session) Anchored() map[string]bool {
	out := make(map[string]bool)
	if s.doc == nil {
		return out
	}
	s.doc.Read(func(root *html.Node) {
		for _, m := range anchor.Markers(root) {
			if id, ok := anchor.MarkerNoteID(m); ok {
				out[id] = true
			}
		}
	})
	return out
}

// Watch runs the reanchoring scheduler against the document until it
// settles, ctx ends or Close is called.
func (s *Session) Watch(ctx context.Context) error {
	if s.doc == nil {
		return ErrInvalidOperation
	}
	ctx, cancel := context.WithCancel(ctx)
	s.watchMu.Lock()
	if s.stopWatch != nil {
		s.watchMu.Unlock()
		cancel()
		return fmt.Errorf("%w: already watching", ErrInvalidOperation)
	}
	s.stopWatch = cancel
	s.watchMu.Unlock()

	defer func() {
		s.watchMu.Lock()
		s.stopWatch = nil
		s.watchMu.Unlock()
		cancel()
	}()

	sched := reanchor.New(s.policy, s.ReanchorAll, s.log)
	err := sched.Run(ctx, s.doc.Observe(0))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// HandleClick toggles the note whose marker contains target. It reports
// whether the click was consumed; consumed clicks must not reach the page.
func (s *Session) HandleClick(ctx context.Context, target *html.Node) bool {
	if s.doc == nil || target == nil {
		return false
	}
	var id string
	s.doc.Read(func(root *html.Node) {
		if m := anchor.EnclosingMarker(target); m != nil {
			id, _ = anchor.MarkerNoteID(m)
		}
	})
	if id == "" {
		return false
	}
	if _, err := s.ToggleMinimized(ctx, id); err != nil {
		s.log.WithFields(logrus.Fields{
			"note":  id,
			"error": err,
		}).Debug("marker click for unknown note")
	}
	return true
}

// Flush writes any pending debounced edit and retries a failed write
func (s *Session) Flush(ctx context.Context) error {
	s.saver.Cancel()
	return s.persist(ctx)
}

// Close stops watching and writes outstanding changes
func (s *Session) Close(ctx context.Context) error {
	s.watchMu.Lock()
	if s.stopWatch != nil {
		s.stopWatch()
	}
	s.watchMu.Unlock()

	if s.saver.Pending() || s.Dirty() {
		return s.Flush(ctx)
	}
	return nil
}

func (s *Session) update(ctx context.Context, op, id string, fn func(n *domain.Note) error) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return notFound(op, id)
	}
	if err := fn(&s.notes[i]); err != nil {
		s.mu.Unlock()
		return &NoteError{ID: id, Op: op, Err: err}
	}
	s.mu.Unlock()

	s.saveNow(ctx)
	return nil
}

// saveNow supersedes any pending debounced write with an immediate one
func (s *Session) saveNow(ctx context.Context) {
	s.saver.Cancel()
	s.persist(ctx)
}

func (s *Session) persist(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	snapshot := domain.CloneNotes(s.notes)
	s.mu.Unlock()

	err := s.store.Save(ctx, s.pageKey, snapshot)

	s.mu.Lock()
	s.dirty = err != nil
	s.mu.Unlock()

	if err != nil {
		s.log.WithFields(logrus.Fields{
			"page":  s.pageKey,
			"notes": len(snapshot),
			"error": err,
		}).Warn("failed to save notes, keeping them in memory")
		return fmt.Errorf("failed to save notes: %w", err)
	}
	return nil
}

// removeMarker must be called with s.mu held
func (s *Session) removeMarker(id string) {
	if s.doc == nil {
		return
	}
	s.doc.Update(func(root *html.Node) {
		if m := anchor.FindMarker(root, id); m != nil {
			anchor.Unwrap(m)
		}
	})
}

// indexOf must be called with s.mu held
func (s *Session) indexOf(id string) int {
	for i := range s.notes {
		if s.notes[i].ID == id {
			return i
		}
	}
	return -1
}
