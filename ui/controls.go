package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// menuControl is one focusable row of the setup card.
type menuControl interface {
	SetFocused(bool)
	HandleKey(event *tcell.EventKey) bool
	// Draw renders the control and returns the number of rows used.
	Draw(screen tcell.Screen, x, y, width int) int
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) int {
	for _, ch := range text {
		screen.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}

// drawLabel draws the focus cursor and the "◈ Label" prefix of a row and
// returns the column after it.
func drawLabel(screen tcell.Screen, x, y int, label string, focused bool) int {
	bgStyle := tcell.StyleDefault.Background(MenuColors.CardBG)
	accentStyle := tcell.StyleDefault.Foreground(MenuColors.TitleAccent).Background(MenuColors.CardBG)
	labelStyle := tcell.StyleDefault.Foreground(MenuColors.Label).Background(MenuColors.CardBG)

	if focused {
		screen.SetContent(x, y, '▸', nil, accentStyle.Foreground(MenuColors.Selected))
	} else {
		screen.SetContent(x, y, ' ', nil, bgStyle)
	}
	screen.SetContent(x+2, y, '◈', nil, accentStyle)
	return drawText(screen, x+4, y, label, labelStyle)
}

// CycleSelect picks one of a few options with ←/→, wrapping around.
type CycleSelect struct {
	label    string
	options  []string
	selected int
	focused  bool
	disabled bool
	onChange func(int)
}

func NewCycleSelect(label string, options []string, initial int, onChange func(int)) *CycleSelect {
	return &CycleSelect{
		label:    label,
		options:  options,
		selected: initial,
		onChange: onChange,
	}
}

func (c *CycleSelect) SetFocused(focused bool) {
	c.focused = focused
}

func (c *CycleSelect) HandleKey(event *tcell.EventKey) bool {
	step := 0
	switch event.Key() {
	case tcell.KeyLeft:
		step = -1
	case tcell.KeyRight:
		step = 1
	case tcell.KeyRune:
		if event.Rune() == ' ' {
			step = 1
		}
	}
	if step == 0 || len(c.options) == 0 {
		return false
	}
	c.selected = (c.selected + step + len(c.options)) % len(c.options)
	if c.onChange != nil {
		c.onChange(c.selected)
	}
	return true
}

func (c *CycleSelect) Draw(screen tcell.Screen, x, y, width int) int {
	selectedStyle := tcell.StyleDefault.Foreground(MenuColors.Selected).Background(MenuColors.CardBG)
	dimStyle := tcell.StyleDefault.Foreground(MenuColors.Unselected).Background(MenuColors.CardBG)

	col := drawLabel(screen, x, y, c.label, c.focused)
	col = max(col+2, x+20)

	arrowStyle := dimStyle
	if c.focused {
		arrowStyle = selectedStyle
	}
	screen.SetContent(col, y, '◀', nil, arrowStyle)
	col = drawText(screen, col+2, y, c.options[c.selected], selectedStyle)
	screen.SetContent(col+1, y, '▶', nil, arrowStyle)
	return 1
}

func (c *CycleSelect) Selected() int {
	return c.selected
}

func (c *CycleSelect) SetSelected(index int) {
	if index >= 0 && index < len(c.options) {
		c.selected = index
		if c.onChange != nil {
			c.onChange(c.selected)
		}
	}
}

// NumberStepper edits an integer in fixed steps with ←/→ and shows it as a
// ten-cell bar.
type NumberStepper struct {
	label    string
	min      int
	max      int
	step     int
	value    int
	focused  bool
	dimmed   bool
	onChange func(int)
}

func NewNumberStepper(label string, min, max, step, initial int, onChange func(int)) *NumberStepper {
	return &NumberStepper{
		label:    label,
		min:      min,
		max:      max,
		step:     step,
		value:    initial,
		onChange: onChange,
	}
}

func (s *NumberStepper) SetFocused(focused bool) {
	s.focused = focused
}

// SetDimmed greys the stepper out when its value does not apply.
func (s *NumberStepper) SetDimmed(dimmed bool) {
	s.dimmed = dimmed
}

func (s *NumberStepper) HandleKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyLeft:
		s.SetValue(s.value - s.step)
		return true
	case tcell.KeyRight:
		s.SetValue(s.value + s.step)
		return true
	}
	return false
}

func (s *NumberStepper) Draw(screen tcell.Screen, x, y, width int) int {
	selectedStyle := tcell.StyleDefault.Foreground(MenuColors.Selected).Background(MenuColors.CardBG)
	dimStyle := tcell.StyleDefault.Foreground(MenuColors.Unselected).Background(MenuColors.CardBG)
	labelStyle := tcell.StyleDefault.Foreground(MenuColors.Label).Background(MenuColors.CardBG)
	if s.dimmed {
		selectedStyle, labelStyle = dimStyle, dimStyle
	}

	col := drawLabel(screen, x, y, s.label, s.focused)
	col = max(col+2, x+20)

	arrowStyle := dimStyle
	if s.focused {
		arrowStyle = selectedStyle
	}
	screen.SetContent(col, y, '◀', nil, arrowStyle)
	col += 2

	const cells = 10
	filled := 1
	if s.max > s.min {
		filled = 1 + (s.value-s.min)*(cells-1)/(s.max-s.min)
	}
	for i := 0; i < cells; i++ {
		if i < filled {
			screen.SetContent(col, y, '█', nil, selectedStyle)
		} else {
			screen.SetContent(col, y, '░', nil, dimStyle)
		}
		col++
	}
	col = drawText(screen, col+1, y, fmt.Sprintf("%d", s.value), labelStyle)
	screen.SetContent(col+1, y, '▶', nil, arrowStyle)
	return 1
}

func (s *NumberStepper) Value() int {
	return s.value
}

// SetValue clamps v into range and reports changes.
func (s *NumberStepper) SetValue(v int) {
	v = min(max(v, s.min), s.max)
	if v == s.value {
		return
	}
	s.value = v
	if s.onChange != nil {
		s.onChange(s.value)
	}
}

// MenuButton is a pill shaped button activated with Enter.
type MenuButton struct {
	label    string
	primary  bool
	focused  bool
	onSelect func()
}

func NewMenuButton(label string, primary bool, onSelect func()) *MenuButton {
	return &MenuButton{
		label:    label,
		primary:  primary,
		onSelect: onSelect,
	}
}

func (b *MenuButton) SetFocused(focused bool) {
	b.focused = focused
}

func (b *MenuButton) HandleKey(event *tcell.EventKey) bool {
	if event.Key() == tcell.KeyEnter {
		if b.onSelect != nil {
			b.onSelect()
		}
		return true
	}
	return false
}

func (b *MenuButton) text() string {
	if b.primary {
		return "▶ " + b.label
	}
	return b.label
}

// Width is the number of columns the button occupies.
func (b *MenuButton) Width() int {
	return len([]rune(b.text())) + 2
}

func (b *MenuButton) Draw(screen tcell.Screen, x, y, width int) int {
	if b.focused {
		style := tcell.StyleDefault.Foreground(MenuColors.ButtonText).Background(MenuColors.ButtonFocus)
		for i := 0; i < b.Width(); i++ {
			screen.SetContent(x+i, y, ' ', nil, style)
		}
		drawText(screen, x+1, y, b.text(), style)
		return 1
	}

	dimStyle := tcell.StyleDefault.Foreground(MenuColors.Hint).Background(MenuColors.CardBG)
	bracketStyle := tcell.StyleDefault.Foreground(MenuColors.Border).Background(MenuColors.CardBG)
	screen.SetContent(x, y, '[', nil, bracketStyle)
	col := drawText(screen, x+1, y, b.text(), dimStyle)
	screen.SetContent(col, y, ']', nil, bracketStyle)
	return 1
}
