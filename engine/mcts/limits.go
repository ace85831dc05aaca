package mcts

import (
	"encoding/json"
	"strings"
	"time"

	"abalone-local/engine"
)

// DefaultRolloutDepth is the playout cutoff used when Limits.Depth is 0.
const DefaultRolloutDepth = 40

// playoutsPerIteration scales one configured iteration into a batch of
// playouts per worker.
const playoutsPerIteration = 16

type Limits struct {
	Iterations int           // iteration budget per worker
	Threads    int           // root-parallel workers
	MinVisits  int           // visits a root child needs to be picked
	Depth      int           // rollout cutoff in plies, 0 for the default
	Movetime   time.Duration // 0 means no time limit
}

func (l Limits) String() string {
	builder := strings.Builder{}
	_ = json.NewEncoder(&builder).Encode(l)
	return strings.TrimSpace(builder.String())
}

// LimitsFrom converts user facing search parameters.
func LimitsFrom(p engine.SearchParams) Limits {
	return Limits{
		Iterations: max(p.Iterations, 1),
		Threads:    max(p.Parallel, 1),
		MinVisits:  max(p.MinVisits, 0),
		Depth:      max(p.Depth, 0),
		Movetime:   p.Movetime,
	}
}

// Playouts is the number of playouts one worker runs.
func (l Limits) Playouts() int {
	return l.Iterations * playoutsPerIteration
}

// RolloutDepth is the effective playout cutoff.
func (l Limits) RolloutDepth() int {
	if l.Depth <= 0 {
		return DefaultRolloutDepth
	}
	return l.Depth
}
