package mcts

import (
	"lukechampine.com/frand"

	"abalone-local/game"
	"abalone-local/types"
)

var centre = types.Coord{Row: 4, Col: 4}

// rollout plays random moves from b for at most depth plies and returns
// Black's score in [0,1].
func rollout(b types.Board, depth int) float64 {
	for i := 0; i < depth; i++ {
		next := game.Successors(b)
		if len(next) == 0 {
			break
		}
		b = next[frand.Intn(len(next))]
	}
	return evaluate(b)
}

// evaluate scores a position for Black. Finished games score 1, 0 or 0.5;
// otherwise marble balance dominates and centre control breaks ties.
func evaluate(b types.Board) float64 {
	switch game.Result(b) {
	case game.BlackWins:
		return 1
	case game.WhiteWins:
		return 0
	case game.Draw:
		return 0.5
	}

	score := 0.5
	score += 0.08 * float64(int(b.Lost[types.White])-int(b.Lost[types.Black]))

	spread := 0
	for _, c := range types.AllCoords {
		switch b.At(c) {
		case types.BlackMarble:
			spread -= distance(c, centre)
		case types.WhiteMarble:
			spread += distance(c, centre)
		}
	}
	score += 0.004 * float64(spread)

	return min(max(score, 0.01), 0.99)
}

func distance(a, b types.Coord) int {
	dr := int(a.Row - b.Row)
	dc := int(a.Col - b.Col)
	return (abs(dr) + abs(dc) + abs(dr-dc)) / 2
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
