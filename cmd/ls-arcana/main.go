// Command ls-arcana is a terminal constellation sky with tarot market readings.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-arcana/internal/astro"
	"github.com/litescript/ls-arcana/internal/config"
	"github.com/litescript/ls-arcana/internal/logging"
	"github.com/litescript/ls-arcana/internal/reading"
	"github.com/litescript/ls-arcana/internal/scene"
	"github.com/litescript/ls-arcana/internal/schedule"
	"github.com/litescript/ls-arcana/internal/state"
	"github.com/litescript/ls-arcana/internal/theme"
	"github.com/litescript/ls-arcana/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Parse flags; env and .env values are the defaults
	var opts options
	themeName := flag.String("theme", cfg.Theme, "Colour theme (obsidian, voidsteel, nethergold, shadowmage)")
	fps := flag.Int("fps", cfg.FPS, "Sky frames per second (1-60)")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", cfg.LogFile, "Append logs to file (the TUI logs nowhere otherwise)")
	flag.BoolVar(&opts.reading, "reading", false, "Print a fresh reading instead of TUI")
	flag.StringVar(&opts.jsonPath, "json", "", "Export a fresh reading as JSON to file (use - for stdout)")
	flag.StringVar(&opts.msgpackPath, "msgpack", "", "Export a fresh reading as MessagePack to file (use - for stdout)")
	flag.IntVar(&opts.sample, "sample", 0, "Draw N readings and print their distribution")
	flag.StringVar(&opts.schedule, "schedule", cfg.Reading.Schedule, "Reveal and print on a cron schedule (e.g. \"@every 30s\")")
	flag.BoolVar(&opts.miniSky, "mini-sky", false, "Print one frame of the sky as text")
	flag.IntVar(&opts.frames, "frames", 1, "Frames to advance before printing the mini sky")
	flag.Parse()

	cfg.Theme = *themeName
	cfg.FPS = *fps
	cfg.LogLevel = *logLevel
	cfg.LogFile = *logFile
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if opts.schedule != "" {
		if err := schedule.Validate(opts.schedule); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	headless := opts.headless() || !isTTY

	// Set up logging
	logger, closeLog, err := newLogger(cfg, headless)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Initialize components
	stateCfg := state.DefaultConfig()
	stateCfg.Theme = cfg.Theme
	stateMgr := state.NewManager(stateCfg)

	engine := reading.NewEngine(engineOptions(cfg)...)
	initial, err := engine.InitialSet()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	stateMgr.SetInitial(initial)

	// Headless mode: no TUI
	if headless {
		env := headlessEnv{
			cfg:    cfg,
			engine: engine,
			state:  stateMgr,
			log:    logger,
			out:    os.Stdout,
			isTTY:  isTTY,
		}
		if err := runHeadless(ctx, opts, env); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	th, _ := theme.Lookup(cfg.Theme)
	field, fieldErr := scene.NewField(astro.DefaultCatalog(), fieldOptions(cfg)...)
	if fieldErr != nil {
		logger.Error("Scene disabled: %v", fieldErr)
	}

	// Create TUI model
	model := ui.New(ctx, stateMgr, reading.NewChanneler(engine, cfg.Reading.ChannelDelay), logger, ui.Config{
		Theme:         th,
		FrameInterval: cfg.FrameInterval(),
		Planets:       cfg.Scene.Planets,
		Field:         field,
		FieldErr:      fieldErr,
	})

	// Run TUI (blocks until quit)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// newLogger logs to the configured file, to stderr in headless mode, and
// nowhere in TUI mode so the alt screen stays clean.
func newLogger(cfg *config.Config, headless bool) (*logging.Logger, func(), error) {
	level := logging.ParseLevel(cfg.LogLevel)
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		logger := logging.NewWithConfig(logging.Config{Level: level, Output: f})
		return logger, func() { _ = f.Close() }, nil
	}
	if headless {
		return logging.New(level), func() {}, nil
	}
	return logging.NewWithConfig(logging.Config{Level: level, Output: io.Discard}), func() {}, nil
}

func fieldOptions(cfg *config.Config) []scene.FieldOption {
	opts := []scene.FieldOption{
		scene.WithFieldStars(cfg.Scene.FieldStars),
		scene.WithMaxShootingStars(cfg.Scene.MaxShootingStars),
		scene.WithSpawnChance(cfg.Scene.SpawnChance),
	}
	if cfg.Scene.Seed != 0 {
		opts = append(opts, scene.WithRNG(scene.NewRNG(cfg.Scene.Seed)))
	}
	return opts
}

func engineOptions(cfg *config.Config) []reading.EngineOption {
	if cfg.Scene.Seed == 0 {
		return nil
	}
	return []reading.EngineOption{reading.WithRNG(reading.NewRNG(cfg.Scene.Seed))}
}
