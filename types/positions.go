package types

// StartingPosition is a named opening layout.
type StartingPosition struct {
	Key   string
	Name  string
	Board Board
}

var (
	// Standard is the classic layout: each side fills its two back rows
	// and the three middle cells of the third.
	Standard = newPosition(
		"A1 A2 A3 A4 A5 B1 B2 B3 B4 B5 B6 C3 C4 C5",
		"I5 I6 I7 I8 I9 H4 H5 H6 H7 H8 H9 G5 G6 G7",
	)

	// BelgianDaisy splits each side into two hexagonal flowers.
	BelgianDaisy = newPosition(
		"A4 A5 B4 B5 B6 C5 C6 G4 G5 H4 H5 H6 I5 I6",
		"A1 A2 B1 B2 B3 C2 C3 G7 G8 H7 H8 H9 I8 I9",
	)

	// GermanDaisy moves the flowers one row towards the centre.
	GermanDaisy = newPosition(
		"B1 B2 C1 C2 C3 D2 D3 F7 F8 G7 G8 G9 H8 H9",
		"B5 B6 C5 C6 C7 D6 D7 F3 F4 G3 G4 G5 H4 H5",
	)
)

// StartingPositions lists the selectable openings in menu order.
var StartingPositions = []StartingPosition{
	{Key: "belgian", Name: "Belgian Daisy", Board: BelgianDaisy},
	{Key: "standard", Name: "Standard", Board: Standard},
	{Key: "german", Name: "German Daisy", Board: GermanDaisy},
}

// PositionByKey looks up a starting position by its key.
func PositionByKey(key string) (StartingPosition, bool) {
	for _, p := range StartingPositions {
		if p.Key == key {
			return p, true
		}
	}
	return StartingPosition{}, false
}

func newPosition(black, white string) Board {
	var b Board
	for _, c := range MustParseCoords(black) {
		b = b.Set(c, BlackMarble)
	}
	for _, c := range MustParseCoords(white) {
		b = b.Set(c, WhiteMarble)
	}
	b.ToMove = Black
	return b
}
