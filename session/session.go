// Package session runs games between humans and engines. A session owns one
// coordinator goroutine that exchanges boards with the interface over a Link.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"abalone-local/engine"
	"abalone-local/types"
)

// Outcome tells how a session finished.
type Outcome int

const (
	OutcomeRunning Outcome = iota
	OutcomeEnded
	OutcomeFailed
	// OutcomeAborted: the context given to Start was cancelled before the
	// game ended and without Stop.
	OutcomeAborted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEnded:
		return "ended"
	case OutcomeFailed:
		return "failed"
	case OutcomeAborted:
		return "aborted"
	}
	return "running"
}

type StartOptions struct {
	Board    types.Board
	Black    engine.Slot
	White    engine.Slot
	Observer Observer
	Logger   *zerolog.Logger // defaults to the global logger
}

// Session is the interface side's handle on a running game.
type Session struct {
	id     string
	link   *Link
	cancel context.CancelFunc
	done   chan struct{}

	stopOnce sync.Once

	mu      sync.Mutex
	state    State
	outcome  Outcome
	err      error
	joined   bool
	stopping bool
}

// Start launches the coordinator for a new game.
func Start(ctx context.Context, opts StartOptions) (*Session, error) {
	if opts.Board.IsEmpty() {
		return nil, errors.New("session: start board is empty")
	}
	if opts.Board.ToMove == types.NoColor {
		return nil, errors.New("session: start board has no side to move")
	}

	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	id := uuid.NewString()
	shutdown, cancel := context.WithCancel(ctx)
	s := &Session{
		id:     id,
		link:   NewLink(),
		cancel: cancel,
		done:   make(chan struct{}),
		state: State{
			Board:  opts.Board,
			ToMove: opts.Board.ToMove,
			Phase:  PhaseWaitingForActiveMove,
		},
	}

	c := &coordinator{
		id:       id,
		link:     s.link,
		state:    s.state,
		shutdown: shutdown,
		observer: opts.Observer,
		publish:  s.publish,
		logger:   logger.With().Str("session", id).Logger(),
	}
	c.slots[types.Black] = opts.Black
	c.slots[types.White] = opts.White

	go func() {
		defer close(s.done)
		err := c.run()
		s.finish(err, ctx.Err() != nil)
	}()
	return s, nil
}

func (s *Session) ID() string { return s.id }

// NextMove waits for the next board chosen by an engine. It returns
// ErrChannelDisconnected once the coordinator has terminated.
func (s *Session) NextMove(ctx context.Context) (types.Board, error) {
	return s.link.Outbound.Recv(ctx)
}

// Commit reports a played turn to the coordinator.
func (s *Session) Commit(b types.Board, ended bool) error {
	return s.link.Inbound.Send(Commit{Board: b, Ended: ended})
}

// Done is closed when the coordinator goroutine has returned.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the coordinator has returned and marks the session as
// joined.
func (s *Session) Wait() error {
	<-s.done
	s.mu.Lock()
	defer s.mu.Unlock()
	s.joined = true
	return s.err
}

// Stop tears the session down: it sends the sentinel commit, raises the
// shutdown signal and joins the coordinator. Calling it again only waits.
func (s *Session) Stop() error {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.stopping = true
		s.mu.Unlock()
		// fails harmlessly when the coordinator already left
		_ = s.Commit(types.EmptyBoard, true)
		s.cancel()
	})
	return s.Wait()
}

// Err returns the failure of a finished session, or nil.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// State returns the latest coordinator state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Joined() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.joined
}

func (s *Session) publish(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Session) finish(err error, parentDone bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	switch {
	case err != nil:
		s.outcome = OutcomeFailed
	case parentDone && !s.state.Ended && !s.stopping:
		s.outcome = OutcomeAborted
	default:
		s.outcome = OutcomeEnded
	}
	// release the context in every case
	s.cancel()
}
