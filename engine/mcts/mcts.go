// Package mcts implements an Abalone player based on root-parallel Monte
// Carlo tree search.
package mcts

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"abalone-local/engine"
	"abalone-local/game"
	"abalone-local/types"
)

var (
	// ErrCancelled is returned by ChooseMove after Cancel.
	ErrCancelled = errors.New("search cancelled")

	// ErrGameOver is returned by ChooseMove on a finished position.
	ErrGameOver = errors.New("no move in a finished game")

	errEmptyBoard = errors.New("empty board")
)

// Engine is a Monte Carlo tree search player. It implements engine.Engine.
type Engine struct {
	mu     sync.Mutex // serializes ChooseMove and ObserveMove
	root   *node
	limits Limits
	logger zerolog.Logger

	cancelMu  sync.Mutex
	cancelled bool
	stop      context.CancelFunc
}

// New creates an engine whose position starts at board.
func New(board types.Board, color types.Color, params engine.SearchParams) (*Engine, error) {
	if board.IsEmpty() {
		return nil, errEmptyBoard
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	limits := LimitsFrom(params)
	return &Engine{
		root:   newNode(nil, board),
		limits: limits,
		logger: log.With().Str("engine", "mcts").Stringer("color", color).Logger(),
	}, nil
}

// Factory adapts New to engine.Factory.
func Factory(board types.Board, color types.Color, params engine.SearchParams) (engine.Engine, error) {
	return New(board, color, params)
}

// Board returns the engine's current position.
func (e *Engine) Board() types.Board {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.root.board
}

// Cancel interrupts a running search. A cancelled engine refuses further
// searches but still follows observed moves.
func (e *Engine) Cancel() {
	e.cancelMu.Lock()
	defer e.cancelMu.Unlock()
	if e.cancelled {
		return
	}
	e.cancelled = true
	if e.stop != nil {
		e.stop()
	}
	e.logger.Debug().Msg("cancelled")
}

// startSearch registers the search context so Cancel can reach it.
func (e *Engine) startSearch() (context.Context, bool) {
	e.cancelMu.Lock()
	defer e.cancelMu.Unlock()
	if e.cancelled {
		return nil, false
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.stop = cancel
	return ctx, true
}

func (e *Engine) endSearch() {
	e.cancelMu.Lock()
	defer e.cancelMu.Unlock()
	if e.stop != nil {
		e.stop()
		e.stop = nil
	}
}

// ObserveMove moves the engine to b, keeping the matching subtree if the
// engine already explored it.
func (e *Engine) ObserveMove(b types.Board, wasHuman bool) error {
	if b.IsEmpty() {
		return engine.Fail("observe", errEmptyBoard)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	reused := false
	if c := e.root.child(b); c != nil {
		e.root = c.detach()
		reused = true
	} else {
		e.root = newNode(nil, b)
	}
	e.logger.Debug().
		Bool("human", wasHuman).
		Bool("reused", reused).
		Int("visits", e.root.visits).
		Uint16("ply", b.Ply).
		Msg("observed move")
	return nil
}

// ChooseMove runs a search from the current position and plays the best move.
func (e *Engine) ChooseMove() (types.Board, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if game.Ended(e.root.board) {
		return types.EmptyBoard, engine.Fail("choose", ErrGameOver)
	}
	ctx, ok := e.startSearch()
	if !ok {
		return types.EmptyBoard, engine.Fail("choose", ErrCancelled)
	}
	defer e.endSearch()

	lim := newLimiter(ctx, e.limits)
	roots := make([]*node, e.limits.Threads)
	roots[0] = e.root
	for i := 1; i < len(roots); i++ {
		roots[i] = newNode(nil, e.root.board)
	}

	g := errgroup.Group{}
	for t := range roots {
		root := roots[t]
		g.Go(func() error {
			search(root, lim)
			return nil
		})
	}
	_ = g.Wait()

	reason := lim.StopReason()
	if reason == StopInterrupt {
		e.logger.Info().Dur("elapsed", lim.Elapsed()).Msg("search interrupted")
		return types.EmptyBoard, engine.Fail("choose", ErrCancelled)
	}

	best, visits := bestChild(roots, e.limits.MinVisits)
	if best.IsEmpty() {
		// no playout finished in time
		next := game.Successors(e.root.board)
		best = next[frand.Intn(len(next))]
	}

	if c := e.root.child(best); c != nil {
		e.root = c.detach()
	} else {
		e.root = newNode(nil, best)
	}

	e.logger.Info().
		Int("threads", len(roots)).
		Int("visits", visits).
		Int("root-visits", totalVisits(roots)).
		Str("stop", reason.String()).
		Stringer("limits", e.limits).
		Dur("elapsed", lim.Elapsed()).
		Uint16("ply", best.Ply).
		Msg("search finished")
	return best, nil
}

func search(root *node, lim *limiter) {
	depth := lim.limits.RolloutDepth()
	for n := 0; lim.Ok(n); n++ {
		leaf := root.selectLeaf()
		leaf.backpropagate(rollout(leaf.board, depth))
	}
}

// bestChild merges the root children of all worker trees and picks the
// most visited board among those with at least minVisits visits, falling
// back to the most visited one.
func bestChild(roots []*node, minVisits int) (types.Board, int) {
	type stats struct {
		visits int
		wins   float64
	}
	merged := make(map[types.Board]*stats)
	order := make([]types.Board, 0)
	for _, r := range roots {
		for _, c := range r.children {
			s, ok := merged[c.board]
			if !ok {
				s = &stats{}
				merged[c.board] = s
				order = append(order, c.board)
			}
			s.visits += c.visits
			s.wins += c.wins
		}
	}

	better := func(a, b *stats) bool {
		if a.visits != b.visits {
			return a.visits > b.visits
		}
		return a.wins > b.wins
	}

	var best, fallback types.Board
	var bestStats, fallbackStats *stats
	for _, b := range order {
		s := merged[b]
		if s.visits == 0 {
			continue
		}
		if fallbackStats == nil || better(s, fallbackStats) {
			fallback, fallbackStats = b, s
		}
		if s.visits >= minVisits && (bestStats == nil || better(s, bestStats)) {
			best, bestStats = b, s
		}
	}
	if bestStats != nil {
		return best, bestStats.visits
	}
	if fallbackStats != nil {
		return fallback, fallbackStats.visits
	}
	return types.EmptyBoard, 0
}

func totalVisits(roots []*node) int {
	n := 0
	for _, r := range roots {
		n += r.visits
	}
	return n
}
