package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Abalone coordinate system:
// - Rows: A-I, A is the bottom row (5 cells), E the widest (9 cells)
// - Diagonals: 1-9, row A holds 1-5 and row I holds 5-9
// - Example: A1, E5, I9
//
// Internal coordinate system:
// - Row: 0-8 for A-I
// - Col: 0-8 for 1-9
// - Example: Coord{4, 4} for E5

// String converts an internal coordinate to Abalone notation.
func (c Coord) String() string {
	if !c.Valid() {
		return "--"
	}
	return fmt.Sprintf("%c%d", 'A'+rune(c.Row), c.Col+1)
}

// ParseCoord converts Abalone notation such as "e5" to a coordinate.
func ParseCoord(s string) (Coord, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if len(s) != 2 {
		return Coord{}, fmt.Errorf("invalid cell: %q", s)
	}

	row := int(s[0] - 'A')
	if row < 0 || row >= BoardSize {
		return Coord{}, fmt.Errorf("invalid row in cell: %s", s)
	}

	col, err := strconv.Atoi(s[1:])
	if err != nil {
		return Coord{}, fmt.Errorf("invalid diagonal in cell: %s", s)
	}

	c := Coord{Row: int8(row), Col: int8(col - 1)}
	if !c.Valid() {
		return Coord{}, fmt.Errorf("cell off board: %s", s)
	}
	return c, nil
}

// MustParseCoords parses a whitespace separated list of cells and panics on
// error. It is meant for package-level position tables.
func MustParseCoords(list string) []Coord {
	fields := strings.Fields(list)
	coords := make([]Coord, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCoord(f)
		if err != nil {
			panic(err)
		}
		coords = append(coords, c)
	}
	return coords
}

// FormatCoords renders a list of cells as "A1 A2 A3".
func FormatCoords(coords []Coord) string {
	parts := make([]string, len(coords))
	for i, c := range coords {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
