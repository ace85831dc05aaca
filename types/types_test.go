package types

import (
	"testing"

	"github.com/matryer/is"
)

func TestAllCoords(t *testing.T) {
	is := is.New(t)
	is.Equal(len(AllCoords), 61)

	for _, c := range AllCoords {
		lo, hi := RowBounds(c.Row)
		is.True(c.Col >= lo && c.Col <= hi)
	}
}

func TestCoordNotation(t *testing.T) {
	tests := []struct {
		cell string
		want Coord
	}{
		{"A1", Coord{0, 0}},
		{"a5", Coord{0, 4}},
		{"E5", Coord{4, 4}},
		{"E9", Coord{4, 8}},
		{"I5", Coord{8, 4}},
		{"i9", Coord{8, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			is := is.New(t)
			got, err := ParseCoord(tt.cell)
			is.NoErr(err)
			is.Equal(got, tt.want)
		})
	}
}

func TestParseCoordRejectsOffBoard(t *testing.T) {
	for _, cell := range []string{"A6", "I4", "J1", "E0", "", "E10"} {
		if _, err := ParseCoord(cell); err == nil {
			t.Errorf("ParseCoord(%q): expected error", cell)
		}
	}
}

func TestCoordStringRoundTrip(t *testing.T) {
	is := is.New(t)
	for _, c := range AllCoords {
		back, err := ParseCoord(c.String())
		is.NoErr(err)
		is.Equal(back, c)
	}
}

func TestNeighbours(t *testing.T) {
	is := is.New(t)
	a1 := Coord{0, 0}

	var onBoard []string
	for _, d := range Directions {
		if n := a1.Step(d); n.Valid() {
			onBoard = append(onBoard, n.String())
		}
	}
	is.Equal(onBoard, []string{"A2", "B2", "B1"})

	e5 := Coord{4, 4}
	for _, d := range Directions {
		is.True(e5.Step(d).Valid())
		is.Equal(e5.Step(d).Step(d.Opposite()), e5)
	}
}

func TestStartingPositions(t *testing.T) {
	for _, p := range StartingPositions {
		t.Run(p.Key, func(t *testing.T) {
			is := is.New(t)
			is.Equal(p.Board.Count(Black), 14)
			is.Equal(p.Board.Count(White), 14)
			is.Equal(p.Board.ToMove, Black)
			is.True(!p.Board.IsEmpty())
		})
	}
}

func TestBoardIsValue(t *testing.T) {
	is := is.New(t)
	a := Standard
	b := a.Set(Coord{4, 4}, BlackMarble)

	is.Equal(a.At(Coord{4, 4}), Empty)
	is.Equal(b.At(Coord{4, 4}), BlackMarble)
	is.True(a != b)
	is.True(a == Standard)
}

func TestColorOpponent(t *testing.T) {
	is := is.New(t)
	is.Equal(Black.Opponent(), White)
	is.Equal(White.Opponent(), Black)
	is.Equal(NoColor.Opponent(), NoColor)
	is.Equal(BlackMarble.Owner(), Black)
	is.Equal(Empty.Owner(), NoColor)
}
