// Package types contains shared data structures for abalone-local.
package types

// BoardSize is the width of the axial grid that holds the 61 hexagonal cells.
const BoardSize = 9

// Cell is the content of a single board cell.
type Cell int8

const (
	Empty Cell = iota
	BlackMarble
	WhiteMarble
)

// Color identifies a side. Black always plays first.
type Color int8

const (
	NoColor Color = iota
	Black
	White
)

// Opponent returns the other side. NoColor has no opponent.
func (c Color) Opponent() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	}
	return NoColor
}

// Marble returns the cell value occupied by this color.
func (c Color) Marble() Cell {
	switch c {
	case Black:
		return BlackMarble
	case White:
		return WhiteMarble
	}
	return Empty
}

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	}
	return "none"
}

// Owner returns the color of the marble in the cell, or NoColor when empty.
func (c Cell) Owner() Color {
	switch c {
	case BlackMarble:
		return Black
	case WhiteMarble:
		return White
	}
	return NoColor
}

// Board represents a complete game position.
// It is a plain comparable value: copying it yields an independent position,
// and two boards are the same position exactly when they are ==.
type Board struct {
	Cells  [BoardSize][BoardSize]Cell
	ToMove Color
	Lost   [3]uint8 // marbles pushed off, indexed by Color
	Ply    uint16
}

// EmptyBoard is the zero board. It is used as the sentinel for shutdown
// messages that carry no real position.
var EmptyBoard = Board{}

// IsEmpty reports whether b is the sentinel board.
func (b Board) IsEmpty() bool {
	return b == EmptyBoard
}

// At returns the cell at c. Off-board coordinates read as Empty.
func (b Board) At(c Coord) Cell {
	if !c.Valid() {
		return Empty
	}
	return b.Cells[c.Row][c.Col]
}

// Set returns a copy of b with the cell at c replaced.
func (b Board) Set(c Coord, v Cell) Board {
	b.Cells[c.Row][c.Col] = v
	return b
}

// Count returns the number of marbles of the given color still on the board.
func (b Board) Count(color Color) int {
	n := 0
	want := color.Marble()
	for _, c := range AllCoords {
		if b.Cells[c.Row][c.Col] == want {
			n++
		}
	}
	return n
}

// Coord is an axial board coordinate.
// Row 0..8 maps to letters A..I (A is the bottom row as seen by Black),
// Col 0..8 maps to the diagonals 1..9.
type Coord struct {
	Row int8
	Col int8
}

// Valid reports whether the coordinate lies on the hexagonal board.
func (c Coord) Valid() bool {
	if c.Row < 0 || c.Row >= BoardSize || c.Col < 0 || c.Col >= BoardSize {
		return false
	}
	d := c.Col - c.Row
	return d >= -4 && d <= 4
}

// Step returns the neighbouring coordinate in direction d.
func (c Coord) Step(d Direction) Coord {
	v := directionVectors[d]
	return Coord{Row: c.Row + v.Row, Col: c.Col + v.Col}
}

// Sub returns the offset between two coordinates.
func (c Coord) Sub(o Coord) Coord {
	return Coord{Row: c.Row - o.Row, Col: c.Col - o.Col}
}

// Direction is one of the six hexagonal neighbour directions.
type Direction int8

const (
	East Direction = iota
	NorthEast
	NorthWest
	West
	SouthWest
	SouthEast
)

// Directions lists all six directions in a stable order.
var Directions = [6]Direction{East, NorthEast, NorthWest, West, SouthWest, SouthEast}

var directionVectors = [6]Coord{
	East:      {Row: 0, Col: 1},
	NorthEast: {Row: 1, Col: 1},
	NorthWest: {Row: 1, Col: 0},
	West:      {Row: 0, Col: -1},
	SouthWest: {Row: -1, Col: -1},
	SouthEast: {Row: -1, Col: 0},
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	return (d + 3) % 6
}

// Vector returns the coordinate offset of one step in direction d.
func (d Direction) Vector() Coord {
	return directionVectors[d]
}

// DirectionOf returns the direction whose unit vector equals v.
func DirectionOf(v Coord) (Direction, bool) {
	for _, d := range Directions {
		if directionVectors[d] == v {
			return d, true
		}
	}
	return 0, false
}

func (d Direction) String() string {
	switch d {
	case East:
		return "E"
	case NorthEast:
		return "NE"
	case NorthWest:
		return "NW"
	case West:
		return "W"
	case SouthWest:
		return "SW"
	case SouthEast:
		return "SE"
	}
	return "?"
}

// AllCoords lists every on-board coordinate, row by row from A1 to I9.
var AllCoords = func() []Coord {
	coords := make([]Coord, 0, 61)
	for r := int8(0); r < BoardSize; r++ {
		for c := int8(0); c < BoardSize; c++ {
			if co := (Coord{Row: r, Col: c}); co.Valid() {
				coords = append(coords, co)
			}
		}
	}
	return coords
}()

// RowBounds returns the first and last valid column of a row.
func RowBounds(row int8) (int8, int8) {
	lo, hi := row-4, row+4
	if lo < 0 {
		lo = 0
	}
	if hi > BoardSize-1 {
		hi = BoardSize - 1
	}
	return lo, hi
}
