package game

import (
	"testing"

	"github.com/matryer/is"

	"abalone-local/types"
)

func TestMovesFromSelection(t *testing.T) {
	is := is.New(t)

	moves := MovesFromSelection(types.Standard, types.MustParseCoords("C3"))
	is.Equal(len(moves), 3)
	for _, d := range []types.Direction{types.NorthEast, types.NorthWest, types.West} {
		next, ok := moves[d]
		is.True(ok)
		is.Equal(next.At(types.Coord{Row: 2, Col: 2}.Step(d)), types.BlackMarble)
		is.Equal(next.ToMove, types.White)
	}

	is.Equal(len(MovesFromSelection(types.Standard, types.MustParseCoords("I5"))), 0)
	is.Equal(len(MovesFromSelection(types.Standard, nil)), 0)
}

func TestValidSelection(t *testing.T) {
	is := is.New(t)
	is.True(ValidSelection(types.Standard, types.MustParseCoords("C3 C4 C5")))
	is.True(ValidSelection(types.Standard, types.MustParseCoords("C5 B4")))
	is.True(!ValidSelection(types.Standard, types.MustParseCoords("C3 C5")))
	is.True(!ValidSelection(types.Standard, types.MustParseCoords("G5")))
}

func TestCoordsByType(t *testing.T) {
	is := is.New(t)
	black, white, empty := CoordsByType(types.Standard)
	is.Equal(len(black), 14)
	is.Equal(len(white), 14)
	is.Equal(len(empty), 61-28)
	is.Equal(black[0].String(), "A1")
	is.Equal(white[len(white)-1].String(), "I9")
}

func TestDifferencesAndMoveBetween(t *testing.T) {
	is := is.New(t)
	m := move("C3", types.NorthEast)

	next, err := Apply(types.Standard, m)
	is.NoErr(err)
	is.Equal(types.FormatCoords(Differences(types.Standard, next)), "C3 D4")

	got, ok := MoveBetween(types.Standard, next)
	is.True(ok)
	is.Equal(got.String(), "C3>NE")

	_, ok = MoveBetween(types.Standard, types.Standard)
	is.True(!ok)
}
