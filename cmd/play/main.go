// Command play runs a game against the computer in the terminal.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jaminalder/tictactoe-ai/internal/ai"
	"github.com/jaminalder/tictactoe-ai/internal/app"
	"github.com/jaminalder/tictactoe-ai/internal/config"
	"github.com/jaminalder/tictactoe-ai/internal/tui"
)

func main() {
	name := flag.String("name", os.Getenv("USER"), "player name")
	difficulty := flag.String("difficulty", "medium", "easy, medium or hard")
	aiFirst := flag.Bool("ai-first", false, "let the computer open")
	seed := flag.Uint64("seed", 0, "seed for reproducible computer moves (0 = random)")
	logPath := flag.String("log", "", "write logs to this file")
	flag.Parse()

	if err := run(*name, *difficulty, *aiFirst, *seed, *logPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(name, difficulty string, aiFirst bool, seed uint64, logPath string) error {
	d, err := ai.ParseDifficulty(difficulty)
	if err != nil {
		return err
	}

	// the terminal belongs to the UI, so logs go to a file or nowhere
	var w io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		w = f
	}
	level, err := config.ParseLogLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return err
	}
	logger := config.SetLogLevel(w, level)

	var rng ai.Rand = ai.DefaultRand()
	if seed != 0 {
		rng = ai.NewRand(seed)
	}
	svc := app.NewService(app.WithRand(rng), app.WithLogger(logger))
	m, err := tui.New(svc, name, d, aiFirst)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
