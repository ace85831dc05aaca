package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/panics"

	"abalone-local/engine"
	"abalone-local/types"
)

// Phase is a state of the move-exchange coordinator.
type Phase int

const (
	PhaseWaitingForActiveMove Phase = iota
	PhaseAwaitingCommit
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseWaitingForActiveMove:
		return "waiting-for-active-move"
	case PhaseAwaitingCommit:
		return "awaiting-commit"
	case PhaseTerminated:
		return "terminated"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// State is the coordinator's view of the game.
type State struct {
	Board  types.Board
	ToMove types.Color
	Ended  bool
	Phase  Phase
}

// Transition describes one state change of a coordinator.
type Transition struct {
	SessionID string
	From      Phase
	To        State
}

// Observer receives every transition, synchronously on the coordinator
// goroutine.
type Observer interface {
	OnTransition(t Transition)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(t Transition)

func (f ObserverFunc) OnTransition(t Transition) { f(t) }

// errStopped marks a shutdown requested through the context.
var errStopped = errors.New("session stopped")

type chooseResult struct {
	board types.Board
	err   error
}

// coordinator runs the turn state machine of one session. All of its fields
// are owned by the goroutine executing run.
type coordinator struct {
	id       string
	link     *Link
	slots    [3]engine.Slot // indexed by types.Color
	state    State
	shutdown context.Context
	observer Observer
	publish  func(State)
	logger   zerolog.Logger
}

func (c *coordinator) run() error {
	c.logger.Info().
		Stringer("black", c.slots[types.Black]).
		Stringer("white", c.slots[types.White]).
		Stringer("to_move", c.state.ToMove).
		Msg("coordinator started")

	var err error
	for c.state.Phase != PhaseTerminated {
		switch c.state.Phase {
		case PhaseWaitingForActiveMove:
			err = c.waitForActiveMove()
		case PhaseAwaitingCommit:
			err = c.awaitCommit()
		}
		if err != nil {
			break
		}
	}

	c.cancelEngines()
	c.link.Outbound.Close()
	c.link.Inbound.Detach()

	if errors.Is(err, errStopped) {
		err = nil
	}
	if c.state.Phase != PhaseTerminated {
		c.transition(PhaseTerminated)
	}
	if err != nil {
		c.logger.Error().Err(err).Msg("coordinator failed")
		return err
	}
	c.logger.Info().Uint16("ply", c.state.Board.Ply).Msg("coordinator terminated")
	return nil
}

func (c *coordinator) waitForActiveMove() error {
	if c.shutdown.Err() != nil {
		return errStopped
	}

	e, ok := c.slots[c.state.ToMove].Engine()
	if !ok {
		c.transition(PhaseAwaitingCommit)
		return nil
	}

	b, err := c.choose(e)
	if err != nil {
		return err
	}
	if err := c.link.Outbound.Send(b); err != nil {
		return fmt.Errorf("send chosen board: %w", err)
	}
	c.logger.Debug().Stringer("color", c.state.ToMove).Uint16("ply", b.Ply).Msg("engine move sent")
	c.transition(PhaseAwaitingCommit)
	return nil
}

// choose runs ChooseMove on a helper goroutine so that a shutdown can
// cancel the search. It always waits for ChooseMove to return.
func (c *coordinator) choose(e engine.Engine) (types.Board, error) {
	resc := make(chan chooseResult, 1)
	go func() {
		var r chooseResult
		r.err = guard(func() (err error) {
			r.board, err = e.ChooseMove()
			return err
		})
		resc <- r
	}()

	select {
	case r := <-resc:
		if r.err != nil {
			return types.EmptyBoard, engine.Fail("choose", r.err)
		}
		if r.board.IsEmpty() {
			return types.EmptyBoard, engine.Fail("choose", errors.New("engine returned the empty board"))
		}
		return r.board, nil
	case <-c.shutdown.Done():
		c.logger.Debug().Stringer("color", c.state.ToMove).Msg("cancelling search")
		c.cancel(e)
		<-resc
		return types.EmptyBoard, errStopped
	}
}

func (c *coordinator) awaitCommit() error {
	msg, err := c.link.Inbound.Recv(c.shutdown)
	if err != nil {
		if c.shutdown.Err() != nil {
			return errStopped
		}
		return fmt.Errorf("receive commit: %w", err)
	}
	c.logger.Debug().Stringer("msg", msg).Msg("commit received")

	mover := c.state.ToMove
	// the sentinel carries no position to follow
	if !msg.Board.IsEmpty() {
		if e, ok := c.slots[mover.Opponent()].Engine(); ok {
			wasHuman := c.slots[mover].IsHuman()
			if err := guard(func() error { return e.ObserveMove(msg.Board, wasHuman) }); err != nil {
				return engine.Fail("observe", err)
			}
		}
		c.state.Board = msg.Board
	}

	if msg.Ended {
		c.cancelEngines()
		c.state.Ended = true
		c.transition(PhaseTerminated)
		return nil
	}

	c.state.ToMove = mover.Opponent()
	c.transition(PhaseWaitingForActiveMove)
	return nil
}

func (c *coordinator) cancelEngines() {
	for _, color := range []types.Color{types.Black, types.White} {
		if e, ok := c.slots[color].Engine(); ok {
			c.cancel(e)
		}
	}
}

func (c *coordinator) cancel(e engine.Engine) {
	err := guard(func() error {
		e.Cancel()
		return nil
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("engine cancel failed")
	}
}

// guard runs f and turns a panic inside it into an error.
func guard(f func() error) (err error) {
	var pc panics.Catcher
	pc.Try(func() { err = f() })
	if r := pc.Recovered(); r != nil {
		return fmt.Errorf("panic: %v", r.Value)
	}
	return err
}

func (c *coordinator) transition(to Phase) {
	from := c.state.Phase
	c.state.Phase = to
	c.logger.Debug().Stringer("from", from).Stringer("to", to).Stringer("to_move", c.state.ToMove).Msg("transition")
	if c.publish != nil {
		c.publish(c.state)
	}
	if c.observer != nil {
		c.observer.OnTransition(Transition{SessionID: c.id, From: from, To: c.state})
	}
}
