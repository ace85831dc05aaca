package mcts

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abalone-local/engine"
	"abalone-local/game"
	"abalone-local/types"
)

func quickParams() engine.SearchParams {
	return engine.SearchParams{Iterations: 2, Parallel: 2, MinVisits: 1, Depth: 4}
}

func TestChooseMoveIsLegal(t *testing.T) {
	e, err := New(types.BelgianDaisy, types.Black, quickParams())
	require.NoError(t, err)

	next, err := e.ChooseMove()
	require.NoError(t, err)
	assert.True(t, game.IsSuccessor(types.BelgianDaisy, next))
	assert.Equal(t, next, e.Board())
	assert.Equal(t, types.White, next.ToMove)
}

func TestObserveThenChoose(t *testing.T) {
	e, err := New(types.Standard, types.White, quickParams())
	require.NoError(t, err)

	opening := game.Successors(types.Standard)[0]
	require.NoError(t, e.ObserveMove(opening, true))
	assert.Equal(t, opening, e.Board())

	reply, err := e.ChooseMove()
	require.NoError(t, err)
	assert.True(t, game.IsSuccessor(opening, reply))

	// the next observed move is usually already in the tree
	again := game.Successors(reply)[0]
	require.NoError(t, e.ObserveMove(again, false))
	assert.Equal(t, again, e.Board())
}

func TestObserveRejectsEmptyBoard(t *testing.T) {
	e, err := New(types.Standard, types.White, quickParams())
	require.NoError(t, err)

	err = e.ObserveMove(types.EmptyBoard, false)
	var failure *engine.Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "observe", failure.Op)
}

func TestCancelInterruptsSearch(t *testing.T) {
	params := engine.SearchParams{Iterations: 100000, Parallel: 2}
	e, err := New(types.Standard, types.Black, params)
	require.NoError(t, err)

	errc := make(chan error, 1)
	go func() {
		_, err := e.ChooseMove()
		errc <- err
	}()

	time.Sleep(50 * time.Millisecond)
	e.Cancel()

	select {
	case err := <-errc:
		assert.True(t, errors.Is(err, ErrCancelled))
		var failure *engine.Failure
		assert.ErrorAs(t, err, &failure)
	case <-time.After(5 * time.Second):
		t.Fatal("ChooseMove did not return after Cancel")
	}
	assert.Equal(t, types.Standard, e.Board())
}

func TestCancelIsIdempotentAndSticky(t *testing.T) {
	e, err := New(types.Standard, types.Black, quickParams())
	require.NoError(t, err)

	e.Cancel()
	e.Cancel()

	_, err = e.ChooseMove()
	assert.ErrorIs(t, err, ErrCancelled)

	next := game.Successors(types.Standard)[3]
	assert.NoError(t, e.ObserveMove(next, true))
	assert.Equal(t, next, e.Board())
}

func TestMovetimeLimitsSearch(t *testing.T) {
	params := engine.SearchParams{Iterations: 100000, Parallel: 2, Movetime: 100 * time.Millisecond}
	e, err := New(types.GermanDaisy, types.Black, params)
	require.NoError(t, err)

	start := time.Now()
	next, err := e.ChooseMove()
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.True(t, game.IsSuccessor(types.GermanDaisy, next))
}

func TestChooseMoveOnFinishedGame(t *testing.T) {
	b := types.Standard
	b.Lost[types.White] = game.LossLimit

	e, err := New(b, types.Black, quickParams())
	require.NoError(t, err)

	_, err = e.ChooseMove()
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestNewValidatesParams(t *testing.T) {
	_, err := New(types.Standard, types.Black, engine.SearchParams{Iterations: 0, Parallel: 1})
	assert.Error(t, err)

	_, err = New(types.EmptyBoard, types.Black, quickParams())
	assert.Error(t, err)
}

func TestBestChildHonoursMinVisits(t *testing.T) {
	next := game.Successors(types.Standard)
	root := newNode(nil, types.Standard)
	a := newNode(root, next[0])
	a.visits, a.wins = 3, 3
	b := newNode(root, next[1])
	b.visits, b.wins = 5, 1
	root.children = []*node{a, b}

	other := newNode(nil, types.Standard)
	a2 := newNode(other, next[0])
	a2.visits, a2.wins = 3, 2
	other.children = []*node{a2}

	best, visits := bestChild([]*node{root, other}, 4)
	assert.Equal(t, next[0], best)
	assert.Equal(t, 6, visits)

	best, _ = bestChild([]*node{root}, 10)
	assert.Equal(t, next[1], best)

	best, _ = bestChild([]*node{newNode(nil, types.Standard)}, 1)
	assert.True(t, best.IsEmpty())
}

func TestEvaluate(t *testing.T) {
	assert.InDelta(t, 0.5, evaluate(types.Standard), 1e-9)

	behind := types.Standard
	behind.Lost[types.Black] = 2
	assert.Less(t, evaluate(behind), 0.5)

	won := types.Standard
	won.Lost[types.White] = game.LossLimit
	assert.Equal(t, 1.0, evaluate(won))
}

func TestSearchLogsLimits(t *testing.T) {
	e, err := New(types.BelgianDaisy, types.Black, quickParams())
	require.NoError(t, err)
	var buf bytes.Buffer
	e.logger = zerolog.New(&buf)

	_, err = e.ChooseMove()
	require.NoError(t, err)

	assert.JSONEq(t, `{"Iterations":2,"Threads":2,"MinVisits":1,"Depth":4,"Movetime":0}`, e.limits.String())
	assert.Contains(t, buf.String(), "search finished")
	assert.Contains(t, buf.String(), `"limits":`)
	assert.Contains(t, buf.String(), `Threads`)
}
