package game

import (
	"github.com/samber/lo"

	"abalone-local/types"
)

// ValidSelection reports whether coords could be the marbles of a move:
// one to three own marbles forming a contiguous straight line.
func ValidSelection(b types.Board, coords []types.Coord) bool {
	_, ok := normalizeLine(b, coords)
	return ok
}

// MovesFromSelection returns the boards reachable by moving exactly the
// selected marbles, keyed by direction.
func MovesFromSelection(b types.Board, coords []types.Coord) map[types.Direction]types.Board {
	line, ok := normalizeLine(b, coords)
	if !ok || Ended(b) {
		return nil
	}
	moves := make(map[types.Direction]types.Board)
	for _, d := range types.Directions {
		if next, ok := play(b, line, d); ok {
			moves[d] = next
		}
	}
	return moves
}

// CoordsByType splits the board cells by content, each in board order.
func CoordsByType(b types.Board) (black, white, empty []types.Coord) {
	byCell := lo.GroupBy(types.AllCoords, func(c types.Coord) types.Cell {
		return b.At(c)
	})
	return byCell[types.BlackMarble], byCell[types.WhiteMarble], byCell[types.Empty]
}

// Differences lists the cells whose content differs between two boards.
// The interface uses it to highlight the marbles moved by the last ply.
func Differences(before, after types.Board) []types.Coord {
	return lo.Filter(types.AllCoords, func(c types.Coord, _ int) bool {
		return before.At(c) != after.At(c)
	})
}

// MoveBetween recovers the move that turns before into after, if any.
func MoveBetween(before, after types.Board) (Move, bool) {
	for _, m := range LegalMoves(before) {
		if n, _ := play(before, m.Marbles, m.Dir); n == after {
			return m, true
		}
	}
	return Move{}, false
}

// IsSuccessor reports whether after is reachable from before in one legal move.
func IsSuccessor(before, after types.Board) bool {
	_, ok := MoveBetween(before, after)
	return ok
}
