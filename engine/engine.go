// Package engine defines the contract between the session layer and AI players.
package engine

import (
	"fmt"

	"abalone-local/types"
)

// Engine is an AI player that keeps its own copy of the game position.
//
// Engines are driven by a single coordinator goroutine. The only method that
// may be called concurrently with another is Cancel.
type Engine interface {
	// ChooseMove searches the engine's current position and returns the
	// board after its chosen move. The engine's position advances to that
	// board. It blocks until the search finishes or Cancel is called.
	ChooseMove() (types.Board, error)

	// ObserveMove tells the engine about a board it did not choose.
	// wasHuman reports whether the move came from a human player.
	ObserveMove(b types.Board, wasHuman bool) error

	// Cancel stops an in-flight ChooseMove as soon as possible. It is
	// idempotent and safe to call when no search is running.
	Cancel()
}

// Failure wraps any error reported by an engine.
type Failure struct {
	Op  string
	Err error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("engine %s: %v", f.Op, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Fail wraps err as a Failure for operation op. A nil err stays nil and an
// existing Failure is returned unchanged.
func Fail(op string, err error) error {
	if err == nil {
		return nil
	}
	if f, ok := err.(*Failure); ok {
		return f
	}
	return &Failure{Op: op, Err: err}
}

// Slot is the player seat of one color: either a human (no engine) or an
// engine. A slot does not change during a session.
type Slot struct {
	engine Engine
}

// Absent returns the slot of a human player.
func Absent() Slot {
	return Slot{}
}

// Present returns a slot occupied by e.
func Present(e Engine) Slot {
	if e == nil {
		panic("engine: Present called with nil engine")
	}
	return Slot{engine: e}
}

// IsHuman reports whether the slot has no engine.
func (s Slot) IsHuman() bool {
	return s.engine == nil
}

// Engine returns the engine in the slot and whether there is one.
func (s Slot) Engine() (Engine, bool) {
	return s.engine, s.engine != nil
}

func (s Slot) String() string {
	if s.IsHuman() {
		return "human"
	}
	return "ai"
}
