package config

import "abalone-local/engine"

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		DrawCursorBackground:    true,
		DrawLastMovedBackground: true,
		ShowCoordinates:         true,
		Colors: ConfigColors{
			BoardColor:     180,
			BlackColor:     33,
			WhiteColor:     220,
			EmptyColor:     94,
			CursorColorFG:  2,
			CursorColorBG:  4,
			SelectedBG:     161,
			LastMovedBG:    2,
			TargetColorBG:  28,
			DeadZoneColor:  240,
		},
		Symbols: ConfigSymbols{
			BlackMarble: '●',
			WhiteMarble: '●',
			EmptyCell:   '·',
			DeadMarble:  '○',
		},
	}

	DefaultConfig = Config{
		Theme: DefaultTheme,
		Black: PlayerConfig{
			Name:   "Blue Player",
			Kind:   "human",
			Search: engine.DefaultSearchParams(),
		},
		White: PlayerConfig{
			Name:   "Yellow Player",
			Kind:   "ai",
			Search: engine.DefaultSearchParams(),
		},
		Position: "belgian",
		LogLevel: "info",
	}
}
