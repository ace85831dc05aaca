package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"abalone-local/config"
	"abalone-local/engine"
	"abalone-local/engine/mcts"
	"abalone-local/game"
	"abalone-local/session"
	"abalone-local/types"
)

const (
	boardCols  = leftMargin + 2*types.BoardSize + 4 // widest row plus row letters
	boardRows  = types.BoardSize + 1                // rows plus diagonal numbers
	leftMargin = 3
)

// HexBoardUI draws the board and drives a session: it applies boards chosen
// by engines, turns key presses into human moves and commits every turn.
type HexBoardUI struct {
	Box       *tview.Box
	hint      *tview.TextView
	cfg       *config.Config
	styles    []tcell.Color
	app       *tview.Application
	infoPanel *GameInfoPanel

	host     session.Host
	sess     *session.Session
	stopPump context.CancelFunc
	factory  engine.Factory

	board     types.Board
	setup     GameSetup
	cursor    types.Coord
	selection []types.Coord
	targets   map[types.Direction]types.Board
	lastMoved []types.Coord
	history   []string
	finished  bool
	outcome   game.Outcome
	failure   error
	onFailure func(error)

	// queueUpdate runs f on the interface goroutine.
	queueUpdate func(f func())
}

func NewHexBoard(app *tview.Application, c *config.Config, hint *tview.TextView) *HexBoardUI {
	g := &HexBoardUI{
		Box:     tview.NewBox(),
		hint:    hint,
		app:     app,
		factory: mcts.Factory,
		cursor:  types.Coord{Row: 4, Col: 4},
	}
	g.queueUpdate = func(f func()) {
		g.app.QueueUpdateDraw(f)
	}
	g.SetConfig(c)
	g.Box.SetDrawFunc(func(screen tcell.Screen, x int, y int, width int, height int) (int, int, int, int) {
		if g.board.IsEmpty() {
			return x, y, width, height
		}
		ox := x + max((width-boardCols)/2, 0)
		oy := y + max((height-boardRows)/2, 0)
		g.drawBoard(screen, ox, oy)
		return x, y, width, height
	})
	return g
}

func (g *HexBoardUI) SetConfig(c *config.Config) {
	g.styles = []tcell.Color{
		tcell.PaletteColor(c.Theme.Colors.BoardColor),    // 0
		tcell.PaletteColor(c.Theme.Colors.BlackColor),    // 1
		tcell.PaletteColor(c.Theme.Colors.WhiteColor),    // 2
		tcell.PaletteColor(c.Theme.Colors.EmptyColor),    // 3
		tcell.PaletteColor(c.Theme.Colors.CursorColorFG), // 4
		tcell.PaletteColor(c.Theme.Colors.CursorColorBG), // 5
		tcell.PaletteColor(c.Theme.Colors.SelectedBG),    // 6
		tcell.PaletteColor(c.Theme.Colors.LastMovedBG),   // 7
		tcell.PaletteColor(c.Theme.Colors.TargetColorBG), // 8
		tcell.PaletteColor(c.Theme.Colors.DeadZoneColor), // 9
	}
	g.cfg = c
}

// SetFailureHandler registers f to be told when a session fails.
func (g *HexBoardUI) SetFailureHandler(f func(error)) {
	g.onFailure = f
}

// StartGame tears down any running session and starts a new one.
func (g *HexBoardUI) StartGame(ctx context.Context, setup GameSetup) error {
	if err := g.Close(); err != nil {
		log.Warn().Err(err).Msg("previous session had failed")
	}

	board := setup.Position.Board
	var slots [3]engine.Slot
	for _, color := range []types.Color{types.Black, types.White} {
		slot, err := engine.NewSlot(setup.Setting(color), board, color, g.factory)
		if err != nil {
			return fmt.Errorf("set up %s player: %w", g.playerName(color), err)
		}
		slots[color] = slot
	}

	sess, err := g.host.Start(ctx, session.StartOptions{
		Board: board,
		Black: slots[types.Black],
		White: slots[types.White],
	})
	if err != nil {
		return err
	}

	g.sess = sess
	g.setup = setup
	g.board = board
	g.lastMoved = nil
	g.history = nil
	g.finished = false
	g.outcome = game.Ongoing
	g.failure = nil
	g.ResetSelection()

	pumpCtx, stop := context.WithCancel(ctx)
	g.stopPump = stop
	go g.pump(pumpCtx, sess)

	log.Info().
		Str("session", sess.ID()).
		Str("position", setup.Position.Key).
		Stringer("black", setup.Black.Kind).
		Stringer("white", setup.White.Kind).
		Msg("game started")
	g.refresh()
	return nil
}

// pump forwards engine moves to the interface goroutine and reports a
// failed session.
func (g *HexBoardUI) pump(ctx context.Context, sess *session.Session) {
	for {
		b, err := sess.NextMove(ctx)
		if err != nil {
			break
		}
		g.queueUpdate(func() {
			if g.sess == sess {
				g.advance(b)
			}
		})
	}

	select {
	case <-sess.Done():
	case <-ctx.Done():
		return
	}
	if err := sess.Err(); err != nil {
		g.queueUpdate(func() {
			if g.sess == sess {
				g.fail(err)
			}
		})
	}
}

// advance shows b as the new position and commits it to the coordinator.
func (g *HexBoardUI) advance(b types.Board) {
	prev := g.board
	if m, ok := game.MoveBetween(prev, b); ok {
		g.history = append(g.history, m.String())
	} else {
		g.history = append(g.history, "?")
	}
	g.board = b
	g.lastMoved = game.Differences(prev, b)
	g.ResetSelection()

	g.outcome = game.Result(b)
	g.finished = g.outcome != game.Ongoing
	if err := g.sess.Commit(b, g.finished); err != nil {
		g.fail(fmt.Errorf("commit move: %w", err))
		return
	}
	if g.finished {
		log.Info().Str("session", g.sess.ID()).Stringer("outcome", g.outcome).Uint16("ply", b.Ply).Msg("game over")
	}
	g.refresh()
}

func (g *HexBoardUI) fail(err error) {
	g.failure = err
	g.finished = true
	g.ResetSelection()
	log.Error().Err(err).Msg("session failed")
	g.refresh()
	if g.onFailure != nil {
		g.onFailure(err)
	}
}

// Close ends the running session and waits for its coordinator. It is safe
// to call without a session.
func (g *HexBoardUI) Close() error {
	if g.stopPump != nil {
		g.stopPump()
		g.stopPump = nil
	}
	g.sess = nil
	return g.host.Stop()
}

// HumanToMove reports whether key presses may play a move now.
func (g *HexBoardUI) HumanToMove() bool {
	if g.sess == nil || g.finished || g.board.IsEmpty() {
		return false
	}
	return g.setup.Setting(g.board.ToMove).Kind == engine.Human
}

// MoveCursor steps the cursor; vertical steps try the given direction first
// and fall back to the other diagonal at the board edge.
func (g *HexBoardUI) MoveCursor(dirs ...types.Direction) {
	for _, d := range dirs {
		if next := g.cursor.Step(d); next.Valid() {
			g.cursor = next
			return
		}
	}
}

// ToggleSelection adds or removes the marble under the cursor.
func (g *HexBoardUI) ToggleSelection() {
	if !g.HumanToMove() || g.board.At(g.cursor) != g.board.ToMove.Marble() {
		return
	}
	if lo.Contains(g.selection, g.cursor) {
		g.selection = lo.Without(g.selection, g.cursor)
	} else if len(g.selection) < game.MaxLine {
		g.selection = append(g.selection, g.cursor)
	}
	g.targets = game.MovesFromSelection(g.board, g.selection)
	g.refresh()
}

func (g *HexBoardUI) ResetSelection() {
	g.selection = nil
	g.targets = nil
	g.refresh()
}

// Play moves the selection in direction d if that is legal.
func (g *HexBoardUI) Play(d types.Direction) bool {
	if !g.HumanToMove() {
		return false
	}
	next, ok := g.targets[d]
	if !ok {
		return false
	}
	g.advance(next)
	return true
}

// PlayOnly plays the selection when exactly one direction is legal.
func (g *HexBoardUI) PlayOnly() bool {
	if len(g.targets) != 1 {
		return false
	}
	for d := range g.targets {
		return g.Play(d)
	}
	return false
}

func (g *HexBoardUI) HasSelection() bool {
	return len(g.selection) > 0
}

func (g *HexBoardUI) Board() types.Board {
	return g.board
}

func (g *HexBoardUI) playerName(c types.Color) string {
	return g.cfg.Player(c).Name
}

func (g *HexBoardUI) refresh() {
	if g.infoPanel != nil {
		g.infoPanel.Update(g)
	}
	if g.hint != nil {
		g.hint.SetText(g.statusText())
	}
}

// statusText is the text of the status bar.
func (g *HexBoardUI) statusText() string {
	var status string
	switch {
	case g.failure != nil:
		status = fmt.Sprintf("  [red]Game stopped: %s[-]", failureReason(g.failure))
	case g.finished && g.outcome == game.Draw:
		status = "  The game ended in a draw"
	case g.finished:
		winner := g.outcome.Winner()
		status = fmt.Sprintf("  %s'%s'[-] won the game!", sideTag(winner), g.playerName(winner))
	case g.board.IsEmpty():
		return ""
	default:
		toMove := g.board.ToMove
		status = fmt.Sprintf("  %s'%s'[-] has to make a move", sideTag(toMove), g.playerName(toMove))
		if !g.HumanToMove() {
			status += "  [gray]◌ thinking...[-]"
		}
	}

	controls := "  hjkl/↑↓←→ cursor   space select   q quit"
	if g.HumanToMove() && len(g.targets) > 0 {
		keys := lo.FilterMap(types.Directions[:], func(d types.Direction, _ int) (string, bool) {
			_, ok := g.targets[d]
			return directionKeys[d] + " " + d.String(), ok
		})
		controls = "  move: " + strings.Join(keys, "  ") + "   esc clear"
	} else if g.finished {
		controls = "  q · return to menu"
	}
	return status + "\n" + controls
}

// failureReason turns a session failure into a short message.
func failureReason(err error) string {
	var failure *engine.Failure
	switch {
	case errors.As(err, &failure):
		return "the AI player failed (" + failure.Err.Error() + ")"
	case errors.Is(err, session.ErrChannelDisconnected):
		return "lost connection to the game coordinator"
	}
	return err.Error()
}

// directionKeys are the keys that push the selection, laid out around 's'.
var directionKeys = map[types.Direction]string{
	types.NorthWest: "w",
	types.NorthEast: "e",
	types.East:      "d",
	types.SouthEast: "x",
	types.SouthWest: "z",
	types.West:      "a",
}

// DirectionForKey maps a key rune to a push direction.
func DirectionForKey(r rune) (types.Direction, bool) {
	for d, k := range directionKeys {
		if k == string(r) {
			return d, true
		}
	}
	return 0, false
}

// cellPos returns the screen offset of a cell relative to the board origin.
// Row I is drawn at the top; each row is shifted half a cell from the next.
func cellPos(c types.Coord) (int, int) {
	x := leftMargin + 2*int(c.Col) - int(c.Row) + types.BoardSize - 1
	y := types.BoardSize - 1 - int(c.Row)
	return x, y
}

func (g *HexBoardUI) drawBoard(screen tcell.Screen, ox, oy int) {
	theme := g.cfg.Theme
	base := tcell.StyleDefault.Background(g.styles[0])

	var reachable []types.Coord
	for _, next := range g.targets {
		reachable = append(reachable, game.Differences(g.board, next)...)
	}
	reachable = lo.Uniq(reachable)

	for _, c := range types.AllCoords {
		cx, cy := cellPos(c)
		style := base
		var r rune
		switch g.board.At(c) {
		case types.BlackMarble:
			r = theme.Symbols.BlackMarble
			style = style.Foreground(g.styles[1])
		case types.WhiteMarble:
			r = theme.Symbols.WhiteMarble
			style = style.Foreground(g.styles[2])
		default:
			r = theme.Symbols.EmptyCell
			style = style.Foreground(g.styles[3])
		}

		switch {
		case c == g.cursor && g.HumanToMove() && theme.DrawCursorBackground:
			style = style.Background(g.styles[5])
		case lo.Contains(g.selection, c):
			style = style.Background(g.styles[6])
		case lo.Contains(reachable, c):
			style = style.Background(g.styles[8])
		case theme.DrawLastMovedBackground && lo.Contains(g.lastMoved, c):
			style = style.Background(g.styles[7])
		}
		screen.SetContent(ox+cx, oy+cy, r, nil, style)
		if lo.Contains(g.selection, c) && lo.Contains(g.selection, c.Step(types.East)) {
			screen.SetContent(ox+cx+1, oy+cy, ' ', nil, style)
		}
	}

	if theme.ShowCoordinates {
		g.drawCoordinates(screen, ox, oy)
	}
}

func (g *HexBoardUI) drawCoordinates(screen tcell.Screen, ox, oy int) {
	style := tcell.StyleDefault.Foreground(MenuColors.Hint)
	highlight := tcell.StyleDefault.Foreground(g.styles[4]).Background(g.styles[5])

	for row := int8(0); row < types.BoardSize; row++ {
		first, _ := types.RowBounds(row)
		cx, cy := cellPos(types.Coord{Row: row, Col: first})
		s := style
		if row == g.cursor.Row && g.HumanToMove() {
			s = highlight
		}
		screen.SetContent(ox+cx-2, oy+cy, rune('A'+row), nil, s)
	}

	// diagonal numbers sit one step below the lowest cell of each diagonal
	for col := int8(0); col < types.BoardSize; col++ {
		bottom := max(int8(0), col-4)
		cx, cy := cellPos(types.Coord{Row: bottom - 1, Col: col})
		s := style
		if col == g.cursor.Col && g.HumanToMove() {
			s = highlight
		}
		screen.SetContent(ox+cx, oy+cy, rune('1'+col), nil, s)
	}
}
