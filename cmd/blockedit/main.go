// Package main is the entry point for the blockedit terminal demo: a
// minimal frontend that feeds key events into the interaction engine
// and renders the block sequence.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/blockedit/internal/app"
	"github.com/dshills/blockedit/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var configPath string
	var logLevel string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "blockedit - block-structured editor demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: blockedit [options]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("blockedit %s (%s)\n", version, commit)
		return 0
	}

	cfg, err := config.NewLoader(configPath).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return 1
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logCfg := app.DefaultLoggerConfig()
	logCfg.Level = app.ParseLogLevel(cfg.Logging.Level)
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: opening log file: %v\n", err)
			return 1
		}
		defer f.Close()
		logCfg.Output = f
	}
	logger := app.NewLogger(logCfg)

	engine := app.New(cfg, app.WithLogger(logger))
	defer engine.Close()

	if configPath != "" {
		watcher, err := config.NewWatcher(config.NewLoader(configPath), func(cfg *config.Config, err error) {
			if err != nil {
				logger.Warn("config reload failed: %v", err)
				return
			}
			engine.ApplyConfig(cfg)
		})
		if err != nil {
			logger.Warn("config watching disabled: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: creating screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: initializing screen: %v\n", err)
		return 1
	}
	defer screen.Fini()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	ui := newUI(screen, engine)
	if err := ui.loop(); err != nil {
		logger.Error("ui loop: %v", err)
		return 1
	}
	return 0
}
