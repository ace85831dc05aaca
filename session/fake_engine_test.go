package session

import (
	"errors"
	"sync"

	"abalone-local/game"
	"abalone-local/types"
)

type observation struct {
	board    types.Board
	wasHuman bool
}

// fakeEngine plays the first legal move and records every call.
type fakeEngine struct {
	mu          sync.Mutex
	board       types.Board
	chooseCalls int
	cancelCalls int
	observed    []observation

	block      bool // ChooseMove waits for Cancel
	chooseErr    error
	observeErr   error
	choosePanic  string
	observePanic string

	started    chan struct{}
	cancelled  chan struct{}
	cancelOnce sync.Once
}

func newFakeEngine(b types.Board) *fakeEngine {
	return &fakeEngine{
		board:     b,
		started:   make(chan struct{}, 1),
		cancelled: make(chan struct{}),
	}
}

func (f *fakeEngine) ChooseMove() (types.Board, error) {
	f.mu.Lock()
	f.chooseCalls++
	if f.choosePanic != "" {
		f.mu.Unlock()
		panic(f.choosePanic)
	}
	if f.chooseErr != nil {
		f.mu.Unlock()
		return types.EmptyBoard, f.chooseErr
	}
	if f.block {
		f.mu.Unlock()
		select {
		case f.started <- struct{}{}:
		default:
		}
		<-f.cancelled
		return types.EmptyBoard, errors.New("cancelled")
	}
	defer f.mu.Unlock()

	next := game.Successors(f.board)
	if len(next) == 0 {
		return types.EmptyBoard, errors.New("no legal move")
	}
	f.board = next[0]
	return f.board, nil
}

func (f *fakeEngine) ObserveMove(b types.Board, wasHuman bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observed = append(f.observed, observation{board: b, wasHuman: wasHuman})
	if f.observePanic != "" {
		panic(f.observePanic)
	}
	if f.observeErr != nil {
		return f.observeErr
	}
	f.board = b
	return nil
}

func (f *fakeEngine) Cancel() {
	f.mu.Lock()
	f.cancelCalls++
	f.mu.Unlock()
	f.cancelOnce.Do(func() { close(f.cancelled) })
}

func (f *fakeEngine) calls() (choose, cancel int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chooseCalls, f.cancelCalls
}

func (f *fakeEngine) observations() []observation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]observation(nil), f.observed...)
}

// recorder collects coordinator transitions.
type recorder struct {
	mu          sync.Mutex
	transitions []Transition
}

func (r *recorder) OnTransition(t Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, t)
}

func (r *recorder) all() []Transition {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Transition(nil), r.transitions...)
}
