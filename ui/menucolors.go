package ui

import (
	"github.com/gdamore/tcell/v2"

	"abalone-local/types"
)

// MenuColors is the Nord-like palette of the setup screen and panels.
var MenuColors = struct {
	Border      tcell.Color
	BorderFocus tcell.Color
	CardBG      tcell.Color
	Title       tcell.Color
	TitleAccent tcell.Color
	Label       tcell.Color
	Hint        tcell.Color
	Selected    tcell.Color
	Unselected  tcell.Color
	ButtonFocus tcell.Color
	ButtonText  tcell.Color
	BlueSide    tcell.Color
	YellowSide  tcell.Color
}{
	Border:      tcell.PaletteColor(60),
	BorderFocus: tcell.PaletteColor(109),
	CardBG:      tcell.PaletteColor(236),
	Title:       tcell.PaletteColor(255),
	TitleAccent: tcell.PaletteColor(109),
	Label:       tcell.PaletteColor(250),
	Hint:        tcell.PaletteColor(245),
	Selected:    tcell.PaletteColor(109),
	Unselected:  tcell.PaletteColor(245),
	ButtonFocus: tcell.PaletteColor(109),
	ButtonText:  tcell.PaletteColor(255),
	BlueSide:    tcell.PaletteColor(33),
	YellowSide:  tcell.PaletteColor(220),
}

// sideColor is the menu color of a side; Black plays blue marbles.
func sideColor(c types.Color) tcell.Color {
	if c == types.White {
		return MenuColors.YellowSide
	}
	return MenuColors.BlueSide
}

// sideTag is the tview color tag of a side.
func sideTag(c types.Color) string {
	if c == types.White {
		return "[#ffd700]"
	}
	return "[#0087ff]"
}
