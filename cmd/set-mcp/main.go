package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"set-game-server/config"
	"set-game-server/loghandler"
	"set-game-server/mcptools"
	"set-game-server/skin"
)

func main() {
	configFile := flag.String("config", "config.json", "path to config JSON file")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.LoadFile(*configFile)

	// stdout carries the MCP protocol; logs go to stderr.
	level := slog.LevelInfo
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

	s := server.NewMCPServer("set", "1.0.0", server.WithToolCapabilities(false))
	mcptools.New(cfg, skins, logger).Register(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
