// escaperoom is a small point-and-click escape-room game for the terminal.
// Usage: escaperoom [flags] [content]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/nathoo/escaperoom/cli"
	"github.com/nathoo/escaperoom/config"
	"github.com/nathoo/escaperoom/engine"
	"github.com/nathoo/escaperoom/engine/state"
	"github.com/nathoo/escaperoom/loader"
	"github.com/nathoo/escaperoom/logger"
	"github.com/nathoo/escaperoom/session"
	"github.com/nathoo/escaperoom/storage"
	"github.com/nathoo/escaperoom/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  = flag.String("config", config.DefaultPath(), "YAML config file")
		storageFlag = flag.String("storage", "", "save backend: file, redis or sqlite")
		slotFlag    = flag.String("slot", "", "save slot name")
		plain       = flag.Bool("plain", false, "line-oriented mode instead of the full-screen UI")
		scriptFile  = flag.String("script", "", "play commands from a file (implies -plain)")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: escaperoom [flags] [content.json | lua dir | http(s) url]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("escaperoom %s (commit %s, built %s)\n", version, commit, date)
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if flag.NArg() > 0 {
		cfg.Content = flag.Arg(0)
	}
	if *storageFlag != "" {
		cfg.Storage = *storageFlag
	}
	if *slotFlag != "" {
		cfg.Slot = *slotFlag
	}

	// The full-screen UI shares stderr with the terminal it draws on.
	fullscreen := !*plain && *scriptFile == "" && isTerminal()
	setup := logger.Setup
	if fullscreen {
		setup = logger.SetupFullscreen
	}
	log, closer, err := setup(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slot, err := storage.Open(ctx, cfg.StorageOptions(), log)
	if err != nil {
		log.Warn("save slot unavailable, progress will not be kept", "backend", cfg.Storage, "error", err)
		slot = storage.NewMemorySlot(cfg.Slot)
	}
	sess := session.New(nil, slot, log)
	defer sess.Close()

	load := func(ctx context.Context) (*state.Defs, error) {
		return loader.Load(ctx, cfg.Content, log)
	}

	// Plain mode: load up front; a content error ends the session.
	if !fullscreen {
		return runPlain(ctx, sess, load, *scriptFile, log)
	}

	if err := tui.Run(ctx, sess, load); err != nil {
		log.Error("tui exited", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runPlain(ctx context.Context, sess *session.Session, load tui.Loader, scriptFile string, log *slog.Logger) int {
	defs, err := load(ctx)
	if err != nil {
		var cle *loader.ContentLoadError
		if errors.As(err, &cle) {
			fmt.Fprintf(os.Stderr, "Could not load the rooms from %s: %v\n", cle.Source, cle.Err)
		} else {
			fmt.Fprintf(os.Stderr, "Could not load the rooms: %v\n", err)
		}
		return 1
	}
	sess.Engine = engine.New(defs)

	c := cli.New(sess)
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			return 1
		}
		defer f.Close()
		c.In = f
		c.EchoInput = true
	}
	log.Debug("starting plain mode", "script", scriptFile)
	c.Run(ctx)
	return 0
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
