package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"

	"github.com/wsxiaoys/terminal"

	"set-game-server/app"
	"set-game-server/config"
	"set-game-server/game"
	"set-game-server/input"
	"set-game-server/loghandler"
	"set-game-server/random"
	"set-game-server/render"
	"set-game-server/skin"
)

const usage = "w/a/s/d move, x select, b back, p start, q quit (several per line, e.g. ddx)"

// keys maps one typed character to a button.
var keys = map[rune]input.Button{
	'w': input.Up,
	's': input.Down,
	'a': input.Left,
	'd': input.Right,
	'x': input.A,
	' ': input.A,
	'b': input.B,
	'p': input.Start,
}

// parseCommands turns one input line into taps. quit is set when the line
// contains q; taps before it are still returned.
func parseCommands(line string) (taps []input.Button, quit bool, err error) {
	for _, r := range line {
		if r == 'q' {
			return taps, true, nil
		}
		if r == '\r' || r == '\t' {
			continue
		}
		b, ok := keys[r]
		if !ok {
			return nil, false, fmt.Errorf("unknown command %q", r)
		}
		taps = append(taps, b)
	}
	return taps, false, nil
}

func main() {
	seed := flag.Int64("seed", 0, "shuffle seed (0 = random)")
	skinName := flag.String("skin", "", "skin name (default from config)")
	plain := flag.Bool("plain", false, "disable colors and screen clearing")
	flag.Parse()

	cfg := config.Load()
	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(loghandler.NewCompactHandler(os.Stderr, level))

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	skins, err := skin.Load(cfg.SkinsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *skinName == "" {
		*skinName = cfg.Skin
	}
	sk, err := skins.Get(*skinName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *seed == 0 {
		*seed = cfg.Seed
	}
	if *seed == 0 {
		if *seed, err = random.NewSeed(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	seeds := rand.New(rand.NewSource(*seed))
	factory := func() (*game.Board, error) {
		return game.NewBoard(game.BoardOptions{
			Rows:           cfg.BoardRows,
			Cols:           cfg.BoardCols,
			Domains:        sk.Domains,
			FlashTicks:     cfg.FlashTicks(),
			RepairAttempts: cfg.RepairAttempts,
			Rand:           rand.New(rand.NewSource(seeds.Int63())),
			Logger:         logger,
		})
	}
	a := app.New(factory, nil, logger)
	play(a, newRenderer(sk.Domains, *plain), os.Stdin, os.Stdout, !*plain)
}

// newRenderer names the x key in prompts, since a is bound to Left here.
func newRenderer(d game.Domains, plain bool) *render.Renderer {
	r := render.New(d, plain)
	r.Confirm = "x"
	return r
}

func play(a *app.App, r *render.Renderer, in io.Reader, out io.Writer, clear bool) {
	scanner := bufio.NewScanner(in)
	msg := ""
	for {
		if clear {
			terminal.Stdout.Clear()
			terminal.Stdout.Move(0, 0)
		}
		fmt.Fprint(out, r.App(a.View()))
		if msg != "" {
			fmt.Fprintf(out, "\n%s\n", msg)
			msg = ""
		}
		fmt.Fprintf(out, "\n(%s) > ", usage)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}
		taps, quit, err := parseCommands(scanner.Text())
		if err != nil {
			msg = err.Error()
			continue
		}
		for _, b := range taps {
			a.Update(input.Snapshot(0).With(b))
			a.Update(0)
		}
		if quit {
			fmt.Fprintln(out)
			return
		}
	}
}
