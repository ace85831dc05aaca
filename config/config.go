package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"

	"abalone-local/engine"
	"abalone-local/types"
)

var (
	cfgFile = "abalone-local/config.json"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	BoardColor    int `json:"board"`
	BlackColor    int `json:"black"`
	WhiteColor    int `json:"white"`
	EmptyColor    int `json:"empty"`
	CursorColorFG int `json:"cursor_fg"`
	CursorColorBG int `json:"cursor_bg"`
	SelectedBG    int `json:"selected_bg"`
	LastMovedBG   int `json:"last_moved_bg"`
	TargetColorBG int `json:"target_bg"`
	DeadZoneColor int `json:"dead_zone"`
}

type ConfigSymbols struct {
	BlackMarble rune `json:"black"`
	WhiteMarble rune `json:"white"`
	EmptyCell   rune `json:"empty"`
	DeadMarble  rune `json:"dead"`
}

type Theme struct {
	DrawCursorBackground    bool          `json:"draw_cursor_bg"`
	DrawLastMovedBackground bool          `json:"draw_last_moved_bg"`
	ShowCoordinates         bool          `json:"show_coordinates"`
	Colors                  ConfigColors  `json:"colors"`
	Symbols                 ConfigSymbols `json:"symbols"`
}

// PlayerConfig is the stored seat of one color.
type PlayerConfig struct {
	Name   string              `json:"name" validate:"required,max=24"`
	Kind   string              `json:"kind" validate:"oneof=human ai"`
	Search engine.SearchParams `json:"search"`
}

type Config struct {
	Theme    Theme        `json:"theme"`
	Black    PlayerConfig `json:"black"`
	White    PlayerConfig `json:"white"`
	Position string       `json:"position" validate:"oneof=belgian standard german"`
	LogLevel string       `json:"log_level" validate:"oneof=trace debug info warn error disabled"`
}

var validate = validator.New()

func InitConfig() (*Config, error) {
	config := DefaultConfig
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		if err := readCfgFile(absPath, &config); err != nil {
			return nil, err
		}
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	for _, r := range []rune{c.Theme.Symbols.BlackMarble, c.Theme.Symbols.WhiteMarble, c.Theme.Symbols.EmptyCell, c.Theme.Symbols.DeadMarble} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &InvalidConfig{fmt.Sprintf("%s: failed %q (value %v)", verrs[0].Namespace(), verrs[0].Tag(), verrs[0].Value())}
		}
		return &InvalidConfig{err.Error()}
	}
	return nil
}

func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return saveCfgFile(absPath, c, 0664)
}

// Player returns the stored seat of a color.
func (c *Config) Player(color types.Color) *PlayerConfig {
	if color == types.White {
		return &c.White
	}
	return &c.Black
}

// PlayerSetting converts the stored seat of a color for the engine package.
func (c *Config) PlayerSetting(color types.Color) engine.PlayerSetting {
	p := c.Player(color)
	kind, err := engine.ParsePlayerKind(p.Kind)
	if err != nil {
		kind = engine.Human
	}
	return engine.PlayerSetting{Kind: kind, Params: p.Search}
}

// StartingPosition returns the configured opening, falling back to the first.
func (c *Config) StartingPosition() types.StartingPosition {
	if p, ok := types.PositionByKey(c.Position); ok {
		return p
	}
	return types.StartingPositions[0]
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, perm)
}

func readCfgFile(filePath string, a interface{}) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal(data, a); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %v", filePath, err)}
	}
	return nil
}
