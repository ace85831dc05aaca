// Package game implements the Abalone rules on top of types.Board.
// Every function is pure: boards go in, new boards come out.
package game

import (
	"errors"
	"fmt"
	"strings"

	"abalone-local/types"
)

const (
	// LossLimit is the number of marbles a side may lose before the game ends.
	LossLimit = 6

	// PlyLimit ends an otherwise endless game in a draw.
	PlyLimit = 300

	// MaxLine is the longest line of marbles that may move together.
	MaxLine = 3
)

// ErrIllegalMove is returned by Apply for moves the rules do not allow.
var ErrIllegalMove = errors.New("illegal move")

// Outcome is the result of a game from a neutral point of view.
type Outcome int

const (
	Ongoing Outcome = iota
	BlackWins
	WhiteWins
	Draw
)

func (o Outcome) String() string {
	switch o {
	case BlackWins:
		return "black wins"
	case WhiteWins:
		return "white wins"
	case Draw:
		return "draw"
	default:
		return "ongoing"
	}
}

// Winner returns the winning color, or NoColor for draws and running games.
func (o Outcome) Winner() types.Color {
	switch o {
	case BlackWins:
		return types.Black
	case WhiteWins:
		return types.White
	}
	return types.NoColor
}

// Move is a line of one to three marbles of the side to move, pushed one
// step in Dir. Marbles are stored in line order.
type Move struct {
	Marbles []types.Coord
	Dir     types.Direction
}

func (m Move) String() string {
	var sb strings.Builder
	for _, c := range m.Marbles {
		sb.WriteString(c.String())
	}
	sb.WriteString(">")
	sb.WriteString(m.Dir.String())
	return sb.String()
}

// Result evaluates the board.
func Result(b types.Board) Outcome {
	switch {
	case b.Lost[types.Black] >= LossLimit:
		return WhiteWins
	case b.Lost[types.White] >= LossLimit:
		return BlackWins
	case b.Ply >= PlyLimit:
		return Draw
	}
	if b.ToMove != types.NoColor && len(LegalMoves(b)) == 0 {
		if b.ToMove == types.Black {
			return WhiteWins
		}
		return BlackWins
	}
	return Ongoing
}

// Ended reports whether no further moves can be played.
func Ended(b types.Board) bool {
	return Result(b) != Ongoing
}

// LegalMoves enumerates every legal move for the side to move.
func LegalMoves(b types.Board) []Move {
	moves, _ := expand(b)
	return moves
}

// Successors returns the board after every legal move, in LegalMoves order.
func Successors(b types.Board) []types.Board {
	_, next := expand(b)
	return next
}

func expand(b types.Board) ([]Move, []types.Board) {
	if b.ToMove == types.NoColor ||
		b.Lost[types.Black] >= LossLimit || b.Lost[types.White] >= LossLimit || b.Ply >= PlyLimit {
		return nil, nil
	}

	own := b.ToMove.Marble()
	moves := make([]Move, 0, 64)
	next := make([]types.Board, 0, 64)
	for _, line := range lines(b, own) {
		for _, d := range types.Directions {
			if n, ok := play(b, line, d); ok {
				moves = append(moves, Move{Marbles: line, Dir: d})
				next = append(next, n)
			}
		}
	}
	return moves, next
}

// Apply plays m on b.
func Apply(b types.Board, m Move) (types.Board, error) {
	if Ended(b) {
		return b, fmt.Errorf("%w: game is over", ErrIllegalMove)
	}
	line, ok := normalizeLine(b, m.Marbles)
	if !ok {
		return b, fmt.Errorf("%w: %s is not a line of own marbles", ErrIllegalMove, types.FormatCoords(m.Marbles))
	}
	next, ok := play(b, line, m.Dir)
	if !ok {
		return b, fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}
	return next, nil
}

// lines enumerates every line of 1..MaxLine own marbles exactly once.
func lines(b types.Board, own types.Cell) [][]types.Coord {
	var out [][]types.Coord
	axes := [3]types.Direction{types.East, types.NorthEast, types.NorthWest}
	for _, start := range types.AllCoords {
		if b.At(start) != own {
			continue
		}
		out = append(out, []types.Coord{start})
		for _, axis := range axes {
			line := []types.Coord{start}
			next := start.Step(axis)
			for len(line) < MaxLine && b.At(next) == own {
				line = append(line, next)
				out = append(out, append([]types.Coord(nil), line...))
				next = next.Step(axis)
			}
		}
	}
	return out
}

// play moves the line one step in d. The line must be own marbles in
// line order. It returns false for illegal moves.
func play(b types.Board, line []types.Coord, d types.Direction) (types.Board, bool) {
	own := b.ToMove.Marble()
	opp := b.ToMove.Opponent().Marble()

	lead, tail := line[len(line)-1], line[0]
	inline := len(line) == 1
	if !inline {
		axis, _ := types.DirectionOf(line[1].Sub(line[0]))
		switch d {
		case axis:
			inline = true
		case axis.Opposite():
			inline = true
			lead, tail = tail, lead
		}
	}

	next := b
	if inline {
		target := lead.Step(d)
		if !target.Valid() {
			return b, false
		}

		pushed := 0
		cell := target
		for cell.Valid() && b.At(cell) == opp {
			pushed++
			cell = cell.Step(d)
		}
		if pushed > 0 {
			if pushed >= len(line) {
				return b, false
			}
			if cell.Valid() {
				if b.At(cell) != types.Empty {
					return b, false
				}
				next = next.Set(cell, opp)
			} else {
				next.Lost[b.ToMove.Opponent()]++
			}
		} else if b.At(target) != types.Empty {
			return b, false
		}
		next = next.Set(target, own)
		next = next.Set(tail, types.Empty)
	} else {
		for _, c := range line {
			t := c.Step(d)
			if !t.Valid() || b.At(t) != types.Empty {
				return b, false
			}
		}
		for _, c := range line {
			next = next.Set(c, types.Empty)
		}
		for _, c := range line {
			next = next.Set(c.Step(d), own)
		}
	}

	next.ToMove = b.ToMove.Opponent()
	next.Ply++
	return next, true
}

// normalizeLine checks that coords form a contiguous straight line of own
// marbles and returns them sorted along the line.
func normalizeLine(b types.Board, coords []types.Coord) ([]types.Coord, bool) {
	if len(coords) == 0 || len(coords) > MaxLine {
		return nil, false
	}
	own := b.ToMove.Marble()
	for _, c := range coords {
		if b.At(c) != own {
			return nil, false
		}
	}
	if len(coords) == 1 {
		return []types.Coord{coords[0]}, true
	}

	set := make(map[types.Coord]bool, len(coords))
	for _, c := range coords {
		if set[c] {
			return nil, false
		}
		set[c] = true
	}

	// find an end of the line: a member with exactly one neighbour in the set
	for _, start := range coords {
		for _, d := range types.Directions {
			if !set[start.Step(d)] || set[start.Step(d.Opposite())] {
				continue
			}
			line := []types.Coord{start}
			next := start.Step(d)
			for set[next] {
				line = append(line, next)
				next = next.Step(d)
			}
			if len(line) == len(coords) {
				return line, true
			}
		}
	}
	return nil, false
}
