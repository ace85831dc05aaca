package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"abalone-local/engine"
	"abalone-local/game"
	"abalone-local/types"
)

// GameInfoPanel displays the players, the dead zone and the move history
// alongside the board.
type GameInfoPanel struct {
	box *tview.TextView
}

// NewGameInfoPanel creates a new game info panel.
func NewGameInfoPanel() *GameInfoPanel {
	panel := &GameInfoPanel{
		box: tview.NewTextView(),
	}

	panel.box.SetDynamicColors(true)
	panel.box.SetBorder(false)
	panel.box.SetTextAlign(tview.AlignLeft)

	return panel
}

// Box returns the underlying tview component.
func (p *GameInfoPanel) Box() *tview.TextView {
	return p.box
}

// Update redraws the panel from the board widget's state.
func (p *GameInfoPanel) Update(g *HexBoardUI) {
	p.box.SetText(panelText(g))
}

func panelText(g *HexBoardUI) string {
	if g.board.IsEmpty() {
		return ""
	}
	var text strings.Builder

	text.WriteString("[white::b]Players[-:-:-]\n")
	text.WriteString("[dimgray]──────────────────────[-:-:-]\n")
	for _, c := range []types.Color{types.Black, types.White} {
		marker := " "
		if !g.finished && g.board.ToMove == c {
			marker = "[white]>[-]"
		}
		kind := "Human"
		if g.setup.Setting(c).Kind == engine.AI {
			kind = "AI"
		}
		fmt.Fprintf(&text, "%s%s● %s[-] [dimgray]%s[-]\n", marker, sideTag(c), g.playerName(c), kind)
	}

	// the dead zone fills up with the marbles each side has lost
	text.WriteString("\n[white::b]Dead zone[-:-:-]\n")
	text.WriteString("[dimgray]──────────────────────[-:-:-]\n")
	dead := string(g.cfg.Theme.Symbols.DeadMarble)
	for _, c := range []types.Color{types.Black, types.White} {
		lost := int(g.board.Lost[c])
		fmt.Fprintf(&text, " %s%s[-][dimgray]%s[-] %d/%d\n",
			sideTag(c), strings.Repeat(dead, lost),
			strings.Repeat("·", max(game.LossLimit-lost, 0)), lost, game.LossLimit)
	}
	fmt.Fprintf(&text, "[white]Ply:[-:-:-] %d/%d\n", g.board.Ply, game.PlyLimit)

	if len(g.history) > 0 {
		text.WriteString("\n[white::b]Moves[-:-:-]\n")
		text.WriteString("[dimgray]──────────────────────[-:-:-]\n")

		maxVisible := 12
		start := max(len(g.history)-maxVisible, 0)
		for i := start; i < len(g.history); i++ {
			// Black moves on even plies
			mover := types.Black
			if i%2 == 1 {
				mover = types.White
			}
			marker := " "
			if i == len(g.history)-1 {
				marker = "[white]>[-]"
			}
			fmt.Fprintf(&text, "%s[dimgray]%3d.[-] %s●[-] %s\n", marker, i+1, sideTag(mover), g.history[i])
		}
		if start > 0 {
			fmt.Fprintf(&text, "[dimgray]  ··· %d earlier[-]\n", start)
		}
	}

	return text.String()
}

// CreateGameLayout creates the main game layout with board and side panel.
func CreateGameLayout(board *HexBoardUI, hint *tview.TextView) *tview.Flex {
	gameFrame := tview.NewFlex()
	RebuildNormalLayout(gameFrame, board, hint)
	return gameFrame
}

// RebuildNormalLayout fills gameFrame with the board, the info panel and the
// status bar.
func RebuildNormalLayout(gameFrame *tview.Flex, board *HexBoardUI, hint *tview.TextView) {
	gameFrame.Clear()

	infoPanel := NewGameInfoPanel()
	board.infoPanel = infoPanel
	infoPanel.Update(board)

	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(board.Box, 0, 1, true)
	boardRow.AddItem(infoPanel.Box(), 26, 0, false)

	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(boardRow, 0, 1, true)
	gameFrame.AddItem(hint, 2, 0, false)
}

// BuildFocusLayout shows just the centered board.
func BuildFocusLayout(gameFrame *tview.Flex, board *HexBoardUI) {
	gameFrame.Clear()
	board.infoPanel = nil

	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(nil, 0, 1, false)

	centerRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	centerRow.AddItem(nil, 0, 1, false)
	centerRow.AddItem(board.Box, boardCols, 0, true)
	centerRow.AddItem(nil, 0, 1, false)

	gameFrame.AddItem(centerRow, boardRows, 0, true)
	gameFrame.AddItem(nil, 0, 1, false)
}
