package session

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abalone-local/engine"
	"abalone-local/engine/mcts"
	"abalone-local/game"
	"abalone-local/types"
)

const wait = 2 * time.Second

func nextMove(t *testing.T, s *Session) types.Board {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()
	b, err := s.NextMove(ctx)
	require.NoError(t, err)
	return b
}

func assertNoMove(t *testing.T, s *Session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := s.NextMove(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func waitDone(t *testing.T, s *Session) error {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(wait):
		t.Fatal("coordinator did not terminate")
	}
	return s.Wait()
}

func TestAIAgainstHuman(t *testing.T) {
	black := newFakeEngine(types.Standard)
	s, err := Start(context.Background(), StartOptions{
		Board: types.Standard,
		Black: engine.Present(black),
		White: engine.Absent(),
	})
	require.NoError(t, err)

	b1 := nextMove(t, s)
	assert.Equal(t, game.Successors(types.Standard)[0], b1)
	require.NoError(t, s.Commit(b1, false))

	// white is human: nothing is sent until its move is committed
	assertNoMove(t, s)

	b2 := game.Successors(b1)[0]
	require.NoError(t, s.Commit(b2, false))

	b3 := nextMove(t, s)
	assert.Equal(t, game.Successors(b2)[0], b3)
	assert.Equal(t, []observation{{board: b2, wasHuman: true}}, black.observations())

	require.NoError(t, s.Stop())
	assert.Equal(t, OutcomeEnded, s.Outcome())

	choose, cancel := black.calls()
	assert.Equal(t, 2, choose)
	assert.GreaterOrEqual(t, cancel, 1)
}

func TestTurnsAlternateBetweenEngines(t *testing.T) {
	const plies = 8
	black := newFakeEngine(types.BelgianDaisy)
	white := newFakeEngine(types.BelgianDaisy)
	rec := &recorder{}

	s, err := Start(context.Background(), StartOptions{
		Board:    types.BelgianDaisy,
		Black:    engine.Present(black),
		White:    engine.Present(white),
		Observer: rec,
	})
	require.NoError(t, err)

	for i := 0; i < plies; i++ {
		b := nextMove(t, s)
		require.NoError(t, s.Commit(b, i == plies-1))
	}
	require.NoError(t, waitDone(t, s))

	var toMove []types.Color
	for _, tr := range rec.all() {
		if tr.To.Phase == PhaseWaitingForActiveMove {
			toMove = append(toMove, tr.To.ToMove)
		}
	}
	require.Len(t, toMove, plies-1)
	for i, c := range toMove {
		want := types.White
		if i%2 == 1 {
			want = types.Black
		}
		assert.Equal(t, want, c, "transition %d", i)
	}

	all := rec.all()
	last := all[len(all)-1]
	assert.Equal(t, PhaseTerminated, last.To.Phase)
	assert.True(t, last.To.Ended)
	assert.Equal(t, s.ID(), last.SessionID)

	for _, e := range []*fakeEngine{black, white} {
		choose, cancel := e.calls()
		assert.Equal(t, plies/2, choose)
		assert.GreaterOrEqual(t, cancel, 1)
		for _, o := range e.observations() {
			assert.False(t, o.wasHuman)
		}
		assert.Len(t, e.observations(), plies/2)
	}
	assert.Equal(t, s.State().Board, black.board)
}

func TestHumansOnly(t *testing.T) {
	s, err := Start(context.Background(), StartOptions{
		Board: types.Standard,
		Black: engine.Absent(),
		White: engine.Absent(),
	})
	require.NoError(t, err)
	defer s.Stop()

	b := types.Standard
	for i := 0; i < 4; i++ {
		b = game.Successors(b)[i]
		require.NoError(t, s.Commit(b, false))
	}
	assertNoMove(t, s)

	assert.Eventually(t, func() bool {
		st := s.State()
		return st.Board == b && st.ToMove == types.Black && st.Phase == PhaseAwaitingCommit
	}, wait, 5*time.Millisecond)
}

func TestNaturalEndObservesFinalBoard(t *testing.T) {
	white := newFakeEngine(types.Standard)
	s, err := Start(context.Background(), StartOptions{
		Board: types.Standard,
		Black: engine.Absent(),
		White: engine.Present(white),
	})
	require.NoError(t, err)

	final := game.Successors(types.Standard)[0]
	require.NoError(t, s.Commit(final, true))
	require.NoError(t, waitDone(t, s))

	assert.Equal(t, []observation{{board: final, wasHuman: true}}, white.observations())
	choose, cancel := white.calls()
	assert.Equal(t, 0, choose)
	assert.GreaterOrEqual(t, cancel, 1)

	st := s.State()
	assert.True(t, st.Ended)
	assert.Equal(t, final, st.Board)
	assert.Equal(t, PhaseTerminated, st.Phase)

	_, err = s.NextMove(context.Background())
	assert.ErrorIs(t, err, ErrChannelDisconnected)
}

func TestSentinelIsNotObserved(t *testing.T) {
	white := newFakeEngine(types.Standard)
	s, err := Start(context.Background(), StartOptions{
		Board: types.Standard,
		Black: engine.Absent(),
		White: engine.Present(white),
	})
	require.NoError(t, err)

	require.NoError(t, s.Commit(types.EmptyBoard, true))
	require.NoError(t, waitDone(t, s))

	assert.Empty(t, white.observations())
	assert.Equal(t, types.Standard, s.State().Board)
	_, cancel := white.calls()
	assert.GreaterOrEqual(t, cancel, 1)
}

func TestStopDuringSearch(t *testing.T) {
	black := newFakeEngine(types.Standard)
	black.block = true
	s, err := Start(context.Background(), StartOptions{
		Board: types.Standard,
		Black: engine.Present(black),
		White: engine.Absent(),
	})
	require.NoError(t, err)

	select {
	case <-black.started:
	case <-time.After(wait):
		t.Fatal("search never started")
	}

	start := time.Now()
	require.NoError(t, s.Stop())
	assert.Less(t, time.Since(start), wait)
	assert.Equal(t, OutcomeEnded, s.Outcome())

	_, cancel := black.calls()
	assert.GreaterOrEqual(t, cancel, 1)

	_, err = s.NextMove(context.Background())
	assert.ErrorIs(t, err, ErrChannelDisconnected)
}

func TestStopDuringRealSearch(t *testing.T) {
	params := engine.SearchParams{Iterations: 100000, Parallel: 2}
	e, err := mcts.New(types.Standard, types.Black, params)
	require.NoError(t, err)

	s, err := Start(context.Background(), StartOptions{
		Board: types.Standard,
		Black: engine.Present(e),
		White: engine.Absent(),
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	start := time.Now()
	require.NoError(t, s.Stop())
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestChooseFailureEndsSession(t *testing.T) {
	cause := errors.New("search exploded")
	black := newFakeEngine(types.Standard)
	black.chooseErr = cause

	s, err := Start(context.Background(), StartOptions{
		Board: types.Standard,
		Black: engine.Present(black),
		White: engine.Absent(),
	})
	require.NoError(t, err)

	err = waitDone(t, s)
	var failure *engine.Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "choose", failure.Op)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, OutcomeFailed, s.Outcome())
	assert.Equal(t, err, s.Err())

	assert.ErrorIs(t, s.Commit(types.Standard, false), ErrChannelDisconnected)
	_, err = s.NextMove(context.Background())
	assert.ErrorIs(t, err, ErrChannelDisconnected)
}

func TestObserveFailureEndsSession(t *testing.T) {
	white := newFakeEngine(types.Standard)
	white.observeErr = errors.New("lost track")

	s, err := Start(context.Background(), StartOptions{
		Board: types.Standard,
		Black: engine.Absent(),
		White: engine.Present(white),
	})
	require.NoError(t, err)

	require.NoError(t, s.Commit(game.Successors(types.Standard)[0], false))

	err = waitDone(t, s)
	var failure *engine.Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "observe", failure.Op)
	choose, _ := white.calls()
	assert.Equal(t, 0, choose)
}

func TestChoosePanicEndsSession(t *testing.T) {
	black := newFakeEngine(types.Standard)
	black.choosePanic = "search blew up"

	s, err := Start(context.Background(), StartOptions{
		Board: types.Standard,
		Black: engine.Present(black),
		White: engine.Absent(),
	})
	require.NoError(t, err)

	err = waitDone(t, s)
	var failure *engine.Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "choose", failure.Op)
	assert.Contains(t, err.Error(), "search blew up")
	assert.Equal(t, OutcomeFailed, s.Outcome())
}

func TestObservePanicEndsSession(t *testing.T) {
	white := newFakeEngine(types.Standard)
	white.observePanic = "bad tree"

	s, err := Start(context.Background(), StartOptions{
		Board: types.Standard,
		Black: engine.Absent(),
		White: engine.Present(white),
	})
	require.NoError(t, err)
	require.NoError(t, s.Commit(game.Successors(types.Standard)[0], false))

	err = waitDone(t, s)
	var failure *engine.Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "observe", failure.Op)
	assert.Contains(t, err.Error(), "bad tree")
	assert.Equal(t, OutcomeFailed, s.Outcome())
}

func TestParentCancelAbortsSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	black := newFakeEngine(types.Standard)
	black.block = true

	s, err := Start(ctx, StartOptions{
		Board: types.Standard,
		Black: engine.Present(black),
		White: engine.Absent(),
	})
	require.NoError(t, err)

	select {
	case <-black.started:
	case <-time.After(wait):
		t.Fatal("search did not start")
	}
	cancel()

	assert.NoError(t, waitDone(t, s))
	assert.Equal(t, OutcomeAborted, s.Outcome())
	_, cancels := black.calls()
	assert.GreaterOrEqual(t, cancels, 1)
}

func TestStopIsNotAnAbort(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, err := Start(ctx, StartOptions{
		Board: types.Standard,
		Black: engine.Absent(),
		White: engine.Absent(),
	})
	require.NoError(t, err)

	require.NoError(t, s.Stop())
	cancel()
	assert.Equal(t, OutcomeEnded, s.Outcome())
}

func TestInboundDisconnect(t *testing.T) {
	s, err := Start(context.Background(), StartOptions{
		Board: types.Standard,
		Black: engine.Absent(),
		White: engine.Absent(),
	})
	require.NoError(t, err)

	s.link.Inbound.Close()

	err = waitDone(t, s)
	assert.ErrorIs(t, err, ErrChannelDisconnected)
	assert.Equal(t, OutcomeFailed, s.Outcome())
}

func TestOutboundDisconnect(t *testing.T) {
	white := newFakeEngine(types.Standard)
	s, err := Start(context.Background(), StartOptions{
		Board: types.Standard,
		Black: engine.Absent(),
		White: engine.Present(white),
	})
	require.NoError(t, err)

	s.link.Outbound.Detach()
	require.NoError(t, s.Commit(game.Successors(types.Standard)[0], false))

	err = waitDone(t, s)
	assert.ErrorIs(t, err, ErrChannelDisconnected)
	assert.NotErrorIs(t, err, context.Canceled)
	choose, _ := white.calls()
	assert.Equal(t, 1, choose)
}

func TestStopIsIdempotent(t *testing.T) {
	s, err := Start(context.Background(), StartOptions{
		Board: types.Standard,
		Black: engine.Absent(),
		White: engine.Absent(),
	})
	require.NoError(t, err)

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
	assert.True(t, s.Joined())
	assert.Equal(t, PhaseTerminated, s.State().Phase)
}

func TestStartRejectsEmptyBoard(t *testing.T) {
	_, err := Start(context.Background(), StartOptions{Board: types.EmptyBoard})
	assert.Error(t, err)
}

func TestHostJoinBeforeRestart(t *testing.T) {
	var h Host
	assert.NoError(t, h.Stop())

	opts := StartOptions{Board: types.Standard, Black: engine.Absent(), White: engine.Absent()}
	first, err := h.Start(context.Background(), opts)
	require.NoError(t, err)

	_, err = h.Start(context.Background(), opts)
	assert.ErrorIs(t, err, ErrShutdownRace)

	// a finished but unjoined session still blocks a restart
	require.NoError(t, first.Commit(types.EmptyBoard, true))
	<-first.Done()
	_, err = h.Start(context.Background(), opts)
	assert.ErrorIs(t, err, ErrShutdownRace)

	require.NoError(t, h.Stop())
	assert.Nil(t, h.Current())
	assert.NoError(t, h.Stop())

	second, err := h.Start(context.Background(), opts)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), second.ID())

	third, err := h.Restart(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, second.Joined())
	assert.Same(t, third, h.Current())
	require.NoError(t, h.Stop())
}

func TestRestartLogsFailedSession(t *testing.T) {
	prev := log.Logger
	defer func() { log.Logger = prev }()
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	black := newFakeEngine(types.Standard)
	black.chooseErr = errors.New("search exploded")

	var h Host
	first, err := h.Start(context.Background(), StartOptions{
		Board: types.Standard,
		Black: engine.Present(black),
		White: engine.Absent(),
	})
	require.NoError(t, err)
	<-first.Done()

	opts := StartOptions{Board: types.Standard, Black: engine.Absent(), White: engine.Absent()}
	_, err = h.Restart(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, first.Joined())
	assert.Contains(t, buf.String(), "previous session had failed")
	assert.Contains(t, buf.String(), "search exploded")
	require.NoError(t, h.Stop())
}
