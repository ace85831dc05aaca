package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"abalone-local/engine"
	"abalone-local/game"
	"abalone-local/session"
	"abalone-local/types"
)

// Contestant is one of the two configurations being compared.
type Contestant struct {
	Name   string
	Params engine.SearchParams
}

type MatchOptions struct {
	Games    int
	Workers  int
	Position types.StartingPosition
	A, B     Contestant
	Factory  engine.Factory
	Logger   zerolog.Logger
}

// GameResult is the record of one finished game.
type GameResult struct {
	Index    int
	Black    string // contestant name
	White    string
	Outcome  game.Outcome
	Plies    int
	Lost     [3]uint8
	Duration time.Duration
}

// Winner returns the name of the winning contestant, or "" for a draw.
func (r GameResult) Winner() string {
	switch r.Outcome {
	case game.BlackWins:
		return r.Black
	case game.WhiteWins:
		return r.White
	}
	return ""
}

// Summary tallies a match.
type Summary struct {
	Wins  map[string]int
	Draws int
	Plies int
}

func Summarize(results []GameResult) Summary {
	s := Summary{Wins: map[string]int{}}
	for _, r := range results {
		if w := r.Winner(); w != "" {
			s.Wins[w]++
		} else {
			s.Draws++
		}
	}
	s.Plies = lo.SumBy(results, func(r GameResult) int { return r.Plies })
	return s
}

// RunMatch plays opts.Games games, swapping colors every game, on
// opts.Workers goroutines. It stops at the first failed game.
func RunMatch(ctx context.Context, opts MatchOptions) ([]GameResult, error) {
	if opts.Games < 1 {
		return nil, fmt.Errorf("need at least one game, got %d", opts.Games)
	}
	for _, c := range []Contestant{opts.A, opts.B} {
		if err := c.Params.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", c.Name, err)
		}
	}

	var (
		mu      sync.Mutex
		results = make([]GameResult, 0, opts.Games)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Workers, 1))
	for i := 0; i < opts.Games; i++ {
		i := i
		g.Go(func() error {
			r, err := playGame(gctx, opts, i)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return sortByIndex(results), nil
}

func sortByIndex(results []GameResult) []GameResult {
	ordered := make([]GameResult, len(results))
	for _, r := range results {
		ordered[r.Index] = r
	}
	return ordered
}

// playGame runs one session with no human seat: every chosen board is
// checked and committed straight back.
func playGame(ctx context.Context, opts MatchOptions, index int) (GameResult, error) {
	black, white := opts.A, opts.B
	if index%2 == 1 {
		black, white = white, black
	}
	result := GameResult{Index: index, Black: black.Name, White: white.Name}
	start := time.Now()

	board := opts.Position.Board
	var slots [3]engine.Slot
	for color, c := range map[types.Color]Contestant{types.Black: black, types.White: white} {
		slot, err := engine.NewSlot(engine.PlayerSetting{Kind: engine.AI, Params: c.Params}, board, color, opts.Factory)
		if err != nil {
			return result, err
		}
		slots[color] = slot
	}

	logger := opts.Logger.With().Int("game", index+1).Logger()
	sess, err := session.Start(ctx, session.StartOptions{
		Board:  board,
		Black:  slots[types.Black],
		White:  slots[types.White],
		Logger: &logger,
	})
	if err != nil {
		return result, err
	}
	defer sess.Stop()

	for !game.Ended(board) {
		next, err := sess.NextMove(ctx)
		if err != nil {
			if werr := sess.Wait(); werr != nil {
				return result, werr
			}
			return result, err
		}
		if !game.IsSuccessor(board, next) {
			return result, fmt.Errorf("%s played an illegal move at ply %d", board.ToMove, board.Ply)
		}
		board = next
		if err := sess.Commit(board, game.Ended(board)); err != nil {
			return result, err
		}
	}
	if err := sess.Wait(); err != nil {
		return result, err
	}
	if sess.Outcome() == session.OutcomeAborted {
		return result, ctx.Err()
	}

	result.Outcome = game.Result(board)
	result.Plies = int(board.Ply)
	result.Lost = board.Lost
	result.Duration = time.Since(start)
	logger.Info().
		Stringer("outcome", result.Outcome).
		Int("plies", result.Plies).
		Dur("took", result.Duration).
		Msg("game finished")
	return result, nil
}
