// abalone-local is a terminal application to play Abalone against a local
// Monte Carlo engine, against another person, or to watch two engines play.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"abalone-local/config"
	"abalone-local/engine"
	"abalone-local/session"
	"abalone-local/types"
	"abalone-local/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagBlack      = flag.String("black", "", "Who plays blue (human or ai)")
	flagWhite      = flag.String("white", "", "Who plays yellow (human or ai)")
	flagPosition   = flag.String("position", "", "Starting position (belgian, standard or german)")
	flagIterations = flag.Int("iterations", 0, "Search iterations of AI players")
	flagParallel   = flag.Int("parallel", 0, "Parallel search trees of AI players")
	flagQuickStart = flag.Bool("play", false, "Start game immediately with the stored setup")
	flagFocus      = flag.Bool("focus", false, "Start in focus mode (board only)")
	flagLogLevel   = flag.String("loglevel", "", "Log level (trace, debug, info, warn, error, disabled)")
	flagVersion    = flag.Bool("version", false, "Print version and exit")
)

var app *tview.Application
var rootPage *tview.Pages
var gameBoard *ui.HexBoardUI
var gameFrame *tview.Flex
var gameHint *tview.TextView
var cfg *config.Config
var ctx context.Context

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("abalone-local %s\n", Version)
		return
	}

	var err error
	cfg, err = config.InitConfig()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := applyFlags(cfg); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	level := cfg.LogLevel
	if *flagLogLevel != "" {
		level = *flagLogLevel
	}
	var logOut io.Writer = io.Discard
	if f, _, err := config.OpenLogFile(); err == nil {
		defer f.Close()
		logOut = f
	}
	config.SetupLogging(logOut, level)
	log.Info().Str("version", Version).Msg("starting")

	var cancel context.CancelFunc
	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()

	quickStart := *flagQuickStart || *flagBlack != "" || *flagWhite != "" || *flagPosition != "" ||
		*flagIterations > 0 || *flagParallel > 0 || *flagFocus

	app = tview.NewApplication()
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" ⬡ abalone ")

	gameHint = tview.NewTextView()
	gameHint.SetDynamicColors(true)
	gameHint.SetBorder(true)
	gameHint.SetBorderPadding(0, 0, 1, 1)
	gameHint.SetTitle(" Status ")
	gameHint.SetTitleAlign(tview.AlignLeft)
	gameBoard = ui.NewHexBoard(app, cfg, gameHint)
	gameBoard.SetFailureHandler(showFailure)

	gameFrame = ui.CreateGameLayout(gameBoard, gameHint)
	focusMode := false

	gameBoard.Box.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp:
			gameBoard.MoveCursor(types.NorthEast, types.NorthWest)
		case tcell.KeyDown:
			gameBoard.MoveCursor(types.SouthWest, types.SouthEast)
		case tcell.KeyLeft:
			gameBoard.MoveCursor(types.West)
		case tcell.KeyRight:
			gameBoard.MoveCursor(types.East)
		case tcell.KeyEnter:
			gameBoard.PlayOnly()
		case tcell.KeyEsc:
			gameBoard.ResetSelection()
		case tcell.KeyRune:
			r := event.Rune()
			if d, ok := ui.DirectionForKey(r); ok {
				gameBoard.Play(d)
				return nil
			}
			switch r {
			case 'q':
				if gameBoard.HasSelection() {
					gameBoard.ResetSelection()
				} else {
					leaveGame()
				}
			case 'h':
				gameBoard.MoveCursor(types.West)
			case 'j':
				gameBoard.MoveCursor(types.SouthWest, types.SouthEast)
			case 'k':
				gameBoard.MoveCursor(types.NorthEast, types.NorthWest)
			case 'l':
				gameBoard.MoveCursor(types.East)
			case ' ':
				gameBoard.ToggleSelection()
			case 'f':
				focusMode = !focusMode
				if focusMode {
					ui.BuildFocusLayout(gameFrame, gameBoard)
				} else {
					ui.RebuildNormalLayout(gameFrame, gameBoard, gameHint)
				}
			}
		}
		return nil
	})

	setupUI := ui.NewGameSetup(cfg, startGame, func() {
		app.Stop()
	})

	rootPage.AddPage("setup", setupUI, true, !quickStart)
	rootPage.AddPage("gameview", gameFrame, true, quickStart)

	if quickStart {
		startGame(setupUI.Setup())
		if *flagFocus {
			focusMode = true
			ui.BuildFocusLayout(gameFrame, gameBoard)
		}
	}

	runErr := app.SetRoot(rootPage, true).Run()

	if err := gameBoard.Close(); err != nil {
		log.Warn().Err(err).Msg("last session had failed")
	}
	if err := cfg.Save(); err != nil {
		log.Error().Err(err).Msg("could not save config")
	}
	log.Info().Msg("exiting")
	if runErr != nil {
		fmt.Println(runErr)
		os.Exit(1)
	}
}

// startGame starts a session for setup and shows the board.
func startGame(setup ui.GameSetup) {
	if err := gameBoard.StartGame(ctx, setup); err != nil {
		msg := err.Error()
		if errors.Is(err, session.ErrShutdownRace) {
			msg = "the previous game is still shutting down"
		}
		showError(fmt.Sprintf("Failed to start game:\n%s", msg), nil)
		return
	}
	rootPage.SwitchToPage("gameview")
}

// leaveGame stops the running session and returns to the setup card.
func leaveGame() {
	if err := gameBoard.Close(); err != nil {
		log.Warn().Err(err).Msg("session ended with an error")
	}
	rootPage.SwitchToPage("setup")
}

// showFailure reports a session that stopped on an error.
func showFailure(err error) {
	showError(fmt.Sprintf("The game was stopped:\n%s", err.Error()), leaveGame)
}

func showError(text string, done func()) {
	modal := tview.NewModal().
		SetText(text).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			rootPage.RemovePage("error")
			if done != nil {
				done()
			}
		})
	rootPage.AddPage("error", modal, true, true)
}

// applyFlags overrides the stored setup with command-line flags.
func applyFlags(c *config.Config) error {
	for _, seat := range []struct {
		flag  string
		color types.Color
	}{{*flagBlack, types.Black}, {*flagWhite, types.White}} {
		if seat.flag == "" {
			continue
		}
		kind, err := engine.ParsePlayerKind(seat.flag)
		if err != nil {
			return err
		}
		c.Player(seat.color).Kind = kind.String()
	}

	if *flagPosition != "" {
		if _, ok := types.PositionByKey(*flagPosition); !ok {
			return fmt.Errorf("unknown position %q", *flagPosition)
		}
		c.Position = *flagPosition
	}

	for _, p := range []*config.PlayerConfig{&c.Black, &c.White} {
		if *flagIterations > 0 {
			p.Search.Iterations = *flagIterations
		}
		if *flagParallel > 0 {
			p.Search.Parallel = *flagParallel
		}
	}
	return c.Validate()
}
