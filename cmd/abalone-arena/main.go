// abalone-arena plays engines against each other without a terminal
// interface and prints the score.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"

	"abalone-local/config"
	"abalone-local/engine"
	"abalone-local/engine/mcts"
	"abalone-local/game"
	"abalone-local/types"
)

var (
	flagGames       = flag.Int("games", 2, "Number of games; colors swap every game")
	flagWorkers     = flag.Int("workers", 1, "Games played at the same time")
	flagPosition    = flag.String("position", "belgian", "Starting position (belgian, standard or german)")
	flagIterationsA = flag.Int("iterations-a", 40, "Search iterations of contestant A")
	flagIterationsB = flag.Int("iterations-b", 40, "Search iterations of contestant B")
	flagParallel    = flag.Int("parallel", 4, "Parallel search trees of both contestants")
	flagMovetime    = flag.Duration("movetime", 0, "Time limit per move, 0 for none")
	flagLogLevel    = flag.String("loglevel", "info", "Log level (trace, debug, info, warn, error, disabled)")
)

func main() {
	flag.Parse()
	config.SetupConsoleLogging(*flagLogLevel)

	position, ok := types.PositionByKey(*flagPosition)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown position %q\n", *flagPosition)
		os.Exit(2)
	}

	contestant := func(name string, iterations int) Contestant {
		p := engine.DefaultSearchParams()
		p.Iterations = iterations
		p.Parallel = *flagParallel
		p.Movetime = *flagMovetime
		return Contestant{Name: name, Params: p}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := RunMatch(ctx, MatchOptions{
		Games:    *flagGames,
		Workers:  *flagWorkers,
		Position: position,
		A:        contestant("A", *flagIterationsA),
		B:        contestant("B", *flagIterationsB),
		Factory:  mcts.Factory,
		Logger:   log.Logger,
	})
	if err != nil {
		log.Error().Err(err).Msg("match aborted")
		os.Exit(1)
	}
	printSummary(termenv.NewOutput(os.Stdout), results, time.Since(start))
}

func printSummary(out *termenv.Output, results []GameResult, took time.Duration) {
	blue := out.Color("33")
	yellow := out.Color("220")
	dim := out.Color("245")

	for _, r := range results {
		outcome := out.String("draw").Foreground(dim)
		switch r.Outcome {
		case game.BlackWins:
			outcome = out.String(r.Black + " wins").Foreground(blue).Bold()
		case game.WhiteWins:
			outcome = out.String(r.White + " wins").Foreground(yellow).Bold()
		}
		fmt.Fprintf(out, "game %3d  %s %s vs %s %s  %-8s %3d plies  lost %d/%d  %s\n",
			r.Index+1,
			out.String("●").Foreground(blue), r.Black,
			out.String("●").Foreground(yellow), r.White,
			outcome, r.Plies, r.Lost[types.Black], r.Lost[types.White],
			out.String(r.Duration.Round(time.Millisecond).String()).Foreground(dim))
	}

	s := Summarize(results)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s  A %d  B %d  draws %d  (%d plies in %s)\n",
		out.String("score").Bold(),
		s.Wins["A"], s.Wins["B"], s.Draws, s.Plies, took.Round(time.Second))
}
