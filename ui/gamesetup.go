// Package ui provides the terminal interface of abalone-local: the setup card,
// the hexagonal board and the game info panel.
package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/samber/lo"

	"abalone-local/config"
	"abalone-local/engine"
	"abalone-local/types"
)

// GameSetup is what the setup card hands to the game screen.
type GameSetup struct {
	Black    engine.PlayerSetting
	White    engine.PlayerSetting
	Position types.StartingPosition
}

// Setting returns the seat of a color.
func (s GameSetup) Setting(c types.Color) engine.PlayerSetting {
	if c == types.White {
		return s.White
	}
	return s.Black
}

// playerRows are the controls of one color on the setup card.
type playerRows struct {
	color      types.Color
	name       string
	base       engine.SearchParams
	kind       *CycleSelect
	iterations *NumberStepper
	parallel   *NumberStepper
}

func (p *playerRows) setting() engine.PlayerSetting {
	s := engine.PlayerSetting{Kind: engine.Human, Params: p.base}
	if p.kind.Selected() == 1 {
		s.Kind = engine.AI
	}
	s.Params.Iterations = p.iterations.Value()
	s.Params.Parallel = p.parallel.Value()
	return s
}

func (p *playerRows) refresh() {
	human := p.kind.Selected() == 0
	p.iterations.SetDimmed(human)
	p.parallel.SetDimmed(human)
}

// GameSetupUI is the card shown before a game: one section per color, the
// starting position and the buttons.
type GameSetupUI struct {
	*tview.Box
	title    string
	cfg      *config.Config
	players  [2]*playerRows
	position *CycleSelect
	start    *MenuButton
	quit     *MenuButton
	controls []menuControl
	focus    int
}

// NewGameSetup builds the setup card from the stored configuration.
func NewGameSetup(cfg *config.Config, onStart func(GameSetup), onQuit func()) *GameSetupUI {
	s := &GameSetupUI{
		Box:   tview.NewBox(),
		title: "ABALONE",
		cfg:   cfg,
	}

	for i, color := range []types.Color{types.Black, types.White} {
		stored := cfg.Player(color)
		setting := cfg.PlayerSetting(color)
		rows := &playerRows{color: color, name: stored.Name, base: setting.Params}
		rows.kind = NewCycleSelect("Player", []string{"Human", "AI"}, int(setting.Kind), func(int) { rows.refresh() })
		rows.iterations = NewNumberStepper("Iterations", 10, 400, 10, setting.Params.Iterations, nil)
		rows.parallel = NewNumberStepper("Parallel", 1, 32, 1, setting.Params.Parallel, nil)
		rows.refresh()
		s.players[i] = rows
	}

	positionNames := lo.Map(types.StartingPositions, func(p types.StartingPosition, _ int) string {
		return p.Name
	})
	initial := lo.IndexOf(positionNames, cfg.StartingPosition().Name)
	s.position = NewCycleSelect("Start", positionNames, max(initial, 0), nil)

	s.start = NewMenuButton("Start Game", true, func() {
		onStart(s.Setup())
	})
	s.quit = NewMenuButton("Quit", false, onQuit)

	s.controls = []menuControl{
		s.players[0].kind, s.players[0].iterations, s.players[0].parallel,
		s.players[1].kind, s.players[1].iterations, s.players[1].parallel,
		s.position, s.start, s.quit,
	}
	s.setFocus(len(s.controls) - 2)
	return s
}

// Setup returns the current selection and stores it in the config.
func (s *GameSetupUI) Setup() GameSetup {
	setup := GameSetup{
		Black:    s.players[0].setting(),
		White:    s.players[1].setting(),
		Position: types.StartingPositions[s.position.Selected()],
	}
	for _, p := range s.players {
		stored := s.cfg.Player(p.color)
		setting := setup.Setting(p.color)
		stored.Kind = setting.Kind.String()
		stored.Search.Iterations = setting.Params.Iterations
		stored.Search.Parallel = setting.Params.Parallel
	}
	s.cfg.Position = setup.Position.Key
	return setup
}

func (s *GameSetupUI) setFocus(i int) {
	n := len(s.controls)
	s.focus = (i + n) % n
	for j, c := range s.controls {
		c.SetFocused(j == s.focus)
	}
}

// InputHandler moves focus with Tab/↑/↓ and hands other keys to the
// focused control.
func (s *GameSetupUI) InputHandler() func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
	return s.WrapInputHandler(func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
		switch event.Key() {
		case tcell.KeyTab, tcell.KeyDown:
			s.setFocus(s.focus + 1)
			return
		case tcell.KeyBacktab, tcell.KeyUp:
			s.setFocus(s.focus - 1)
			return
		case tcell.KeyRune:
			switch event.Rune() {
			case 'j':
				s.setFocus(s.focus + 1)
				return
			case 'k':
				s.setFocus(s.focus - 1)
				return
			}
		}
		s.controls[s.focus].HandleKey(event)
	})
}

func (s *GameSetupUI) Draw(screen tcell.Screen) {
	s.Box.DrawForSubclass(screen, s)

	x, y, width, height := s.GetInnerRect()
	cardW := min(width, 52)
	cardH := min(height, 24)
	x += (width - cardW) / 2
	y += (height - cardH) / 2
	if cardW < 40 || cardH < 20 {
		drawText(screen, x, y, "terminal too small", tcell.StyleDefault)
		return
	}

	drawCard(screen, x, y, cardW, cardH, s.title)

	row := y + 6
	inner := x + 2
	for _, p := range s.players {
		nameStyle := tcell.StyleDefault.Foreground(sideColor(p.color)).Background(MenuColors.CardBG).Bold(true)
		drawText(screen, inner+2, row, "● "+p.name, nameStyle)
		row++
		row += p.kind.Draw(screen, inner, row, cardW-4)
		row += p.iterations.Draw(screen, inner, row, cardW-4)
		row += p.parallel.Draw(screen, inner, row, cardW-4)
		row++
	}
	s.position.Draw(screen, inner, row, cardW-4)

	row = y + cardH - 3
	col := x + (cardW-s.start.Width()-s.quit.Width()-3)/2
	s.start.Draw(screen, col, row, 0)
	s.quit.Draw(screen, col+s.start.Width()+3, row, 0)

	hintStyle := tcell.StyleDefault.Foreground(MenuColors.Hint)
	hint := "tab/↑↓ field   ←→ change   ⏎ select"
	drawText(screen, x+(cardW-len([]rune(hint)))/2, y+cardH, hint, hintStyle)
}

// drawCard draws a rounded card with a centered title and a divider below it.
func drawCard(screen tcell.Screen, x, y, width, height int, title string) {
	borderStyle := tcell.StyleDefault.Foreground(MenuColors.BorderFocus).Background(MenuColors.CardBG)
	bgStyle := tcell.StyleDefault.Background(MenuColors.CardBG)

	for row := y; row < y+height; row++ {
		for col := x; col < x+width; col++ {
			screen.SetContent(col, row, ' ', nil, bgStyle)
		}
	}

	for col := x + 1; col < x+width-1; col++ {
		screen.SetContent(col, y, '─', nil, borderStyle)
		screen.SetContent(col, y+height-1, '─', nil, borderStyle)
		screen.SetContent(col, y+4, '─', nil, borderStyle)
	}
	for row := y + 1; row < y+height-1; row++ {
		screen.SetContent(x, row, '│', nil, borderStyle)
		screen.SetContent(x+width-1, row, '│', nil, borderStyle)
	}
	screen.SetContent(x, y, '╭', nil, borderStyle)
	screen.SetContent(x+width-1, y, '╮', nil, borderStyle)
	screen.SetContent(x, y+height-1, '╰', nil, borderStyle)
	screen.SetContent(x+width-1, y+height-1, '╯', nil, borderStyle)
	screen.SetContent(x, y+4, '├', nil, borderStyle)
	screen.SetContent(x+width-1, y+4, '┤', nil, borderStyle)

	titleStyle := tcell.StyleDefault.Foreground(MenuColors.Title).Background(MenuColors.CardBG).Bold(true)
	accentStyle := tcell.StyleDefault.Foreground(MenuColors.TitleAccent).Background(MenuColors.CardBG)
	full := "⬡  " + title
	titleX := x + (width-len([]rune(full)))/2
	screen.SetContent(titleX, y+2, '⬡', nil, accentStyle)
	drawText(screen, titleX+3, y+2, title, titleStyle)
}
