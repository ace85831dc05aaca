package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"abalone-local/types"
)

// SearchParams configures an AI player.
type SearchParams struct {
	Iterations int           `json:"iterations" validate:"min=1,max=100000"`
	Parallel   int           `json:"parallel" validate:"min=1,max=256"`
	MinVisits  int           `json:"min_visits" validate:"min=0"`
	Depth      int           `json:"depth" validate:"min=0,max=300"`
	Movetime   time.Duration `json:"movetime" validate:"min=0"`
}

// DefaultSearchParams returns the settings used when nothing is configured.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Iterations: 40,
		Parallel:   20,
		MinVisits:  7,
		Depth:      0,
	}
}

var validate = validator.New()

// Validate checks the parameter ranges.
func (p SearchParams) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid search parameters: %w", err)
	}
	return nil
}

// PlayerKind selects who plays a color.
type PlayerKind int

const (
	Human PlayerKind = iota
	AI
)

func (k PlayerKind) String() string {
	if k == AI {
		return "ai"
	}
	return "human"
}

// ParsePlayerKind accepts "human" or "ai".
func ParsePlayerKind(s string) (PlayerKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "human", "h":
		return Human, nil
	case "ai", "computer", "c":
		return AI, nil
	}
	return Human, fmt.Errorf("unknown player kind %q (want human or ai)", s)
}

// PlayerSetting describes one seat before a session starts.
type PlayerSetting struct {
	Kind   PlayerKind
	Params SearchParams
}

// Factory builds an engine for color starting from board.
type Factory func(board types.Board, color types.Color, params SearchParams) (Engine, error)

// NewSlot turns a setting into a slot, building an engine for AI seats.
func NewSlot(setting PlayerSetting, board types.Board, color types.Color, factory Factory) (Slot, error) {
	if setting.Kind == Human {
		return Absent(), nil
	}
	if err := setting.Params.Validate(); err != nil {
		return Slot{}, err
	}
	e, err := factory(board, color, setting.Params)
	if err != nil {
		return Slot{}, Fail("create", err)
	}
	return Present(e), nil
}
