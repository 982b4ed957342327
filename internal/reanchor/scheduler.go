// Package reanchor decides when stored anchors are matched again after a
// page loads: once immediately, once after a delay for pages that render
// late, then on document mutations until a reaction budget or a deadline
// runs out.
package reanchor

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"stickynotes/internal/dom"
)

// State is a step of the per-page reanchoring lifecycle.
type State int

const (
	Idle State = iota
	InitialPass
	DelayedPass
	ObservingMutations
	Settled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InitialPass:
		return "initial-pass"
	case DelayedPass:
		return "delayed-pass"
	case ObservingMutations:
		return "observing-mutations"
	case Settled:
		return "settled"
	default:
		return "unknown"
	}
}

// Policy bounds the work done for one page.
type Policy struct {
	Delay          time.Duration `yaml:"delay"`
	MaxReactions   int           `yaml:"max_reactions"`
	ObserveTimeout time.Duration `yaml:"observe_timeout"`
}

// DefaultPolicy returns the stock bounds.
func DefaultPolicy() Policy {
	return Policy{
		Delay:          1500 * time.Millisecond,
		MaxReactions:   10,
		ObserveTimeout: 10 * time.Second,
	}
}

// WithDefaults fills zero fields from DefaultPolicy.
func (p Policy) WithDefaults() Policy {
	d := DefaultPolicy()
	if p.Delay <= 0 {
		p.Delay = d.Delay
	}
	if p.MaxReactions <= 0 {
		p.MaxReactions = d.MaxReactions
	}
	if p.ObserveTimeout <= 0 {
		p.ObserveTimeout = d.ObserveTimeout
	}
	return p
}

// Attempter tries to anchor every unanchored note and returns how many
// markers it placed.
type Attempter func() int

// Scheduler is the reanchoring state machine for one page lifetime.
type Scheduler struct {
	mu        sync.Mutex
	policy    Policy
	attempt   Attempter
	log       *logrus.Logger
	now       func() time.Time
	state     State
	attempts  int
	reactions int
	deadline  time.Time
}

// New creates an idle scheduler. A nil logger discards output.
func New(policy Policy, attempt Attempter, log *logrus.Logger) *Scheduler {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Scheduler{
		policy:  policy.WithDefaults(),
		attempt: attempt,
		log:     log,
		now:     time.Now,
	}
}

// State returns the current state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Attempts returns how many anchoring passes have run.
func (s *Scheduler) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

// Reactions returns how many mutations triggered a pass.
func (s *Scheduler) Reactions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reactions
}

// Policy returns the effective bounds.
func (s *Scheduler) Policy() Policy {
	return s.policy
}

// Begin runs the initial pass and moves on to waiting for the delayed one.
func (s *Scheduler) Begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Idle {
		return false
	}
	s.transition(InitialPass)
	s.run("initial")
	s.transition(DelayedPass)
	return true
}

// DelayElapsed runs the delayed pass and starts observing mutations.
func (s *Scheduler) DelayElapsed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != DelayedPass {
		return false
	}
	s.run("delayed")
	s.deadline = s.now().Add(s.policy.ObserveTimeout)
	s.transition(ObservingMutations)
	return true
}

// Mutated reacts to a document change. It reports whether a pass ran.
func (s *Scheduler) Mutated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != ObservingMutations {
		return false
	}
	if !s.now().Before(s.deadline) {
		s.transition(Settled)
		return false
	}
	s.reactions++
	s.run("mutation")
	if s.reactions >= s.policy.MaxReactions {
		s.transition(Settled)
	}
	return true
}

// Expire ends observation because the deadline passed.
func (s *Scheduler) Expire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == ObservingMutations {
		s.transition(Settled)
	}
}

// Stop settles the scheduler from any state.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Settled {
		s.transition(Settled)
	}
}

// Run drives the state machine from real timers and the given mutation
// subscription until it settles or ctx is done. The subscription is
// cancelled on return. A nil subscription skips straight from the delayed
// pass to the observation deadline.
func (s *Scheduler) Run(ctx context.Context, sub *dom.Subscription) error {
	var mutations <-chan dom.Mutation
	var cancelled <-chan struct{}
	if sub != nil {
		defer sub.Cancel()
		mutations = sub.C
		cancelled = sub.Done()
	}

	s.Begin()
	delay := time.NewTimer(s.policy.Delay)
	defer delay.Stop()
	var timeout *time.Timer
	defer func() {
		if timeout != nil {
			timeout.Stop()
		}
	}()
	var deadline <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return ctx.Err()

		case <-cancelled:
			s.Stop()
			return nil

		case <-delay.C:
			s.DelayElapsed()
			timeout = time.NewTimer(s.policy.ObserveTimeout)
			deadline = timeout.C

		case <-deadline:
			s.Expire()
			return nil

		case <-mutations:
			// Changes before observation starts are covered by the delayed pass.
			if s.State() != ObservingMutations {
				continue
			}
			s.Mutated()
			if s.State() == Settled {
				return nil
			}
		}
	}
}

// run must be called with s.mu held.
func (s *Scheduler) run(reason string) {
	s.attempts++
	placed := 0
	if s.attempt != nil {
		placed = s.attempt()
	}
	s.log.WithFields(logrus.Fields{
		"pass":    reason,
		"attempt": s.attempts,
		"placed":  placed,
	}).Debug("reanchor pass")
}

// transition must be called with s.mu held.
func (s *Scheduler) transition(to State) {
	s.log.WithFields(logrus.Fields{
		"from": s.state.String(),
		"to":   to.String(),
	}).Debug("reanchor state")
	s.state = to
}
