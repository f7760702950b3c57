package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/strideloop/runwalk"
)

// CLI configuration
type Config struct {
	SettingsFile string
	RunSeconds   int
	WalkSeconds  int
	SlotPath     string
	SummaryFile  string
	ScriptFile   string
	Glance       bool
	JSON         bool
	Verbose      bool
}

func main() {
	config := parseFlags()
	logger := setupLogger(config)

	settings := loadSettings(config)
	store := openStore(config, settings)

	ctx := context.Background()
	if config.Glance {
		if err := renderGlance(ctx, store); err != nil {
			log.Fatalf("Failed to render glance: %v", err)
		}
		return
	}
	if err := runWorkout(ctx, config, settings, store, logger); err != nil {
		log.Fatalf("Workout failed: %v", err)
	}
}

func parseFlags() *Config {
	config := &Config{}
	flag.StringVar(&config.SettingsFile, "settings", "", "Path to a YAML settings file")
	flag.IntVar(&config.RunSeconds, "run", 0, "Run interval in seconds (overrides settings)")
	flag.IntVar(&config.WalkSeconds, "walk", 0, "Walk interval in seconds (overrides settings)")
	flag.StringVar(&config.SlotPath, "slot", "", "Path of the shared snapshot slot file")
	flag.StringVar(&config.SummaryFile, "summaries", "", "Append workout summaries to this JSONL file")
	flag.StringVar(&config.ScriptFile, "feedback-script", "", "Risor script evaluated on each timer event")
	flag.BoolVar(&config.Glance, "glance", false, "Read the slot and print the extrapolated timeline instead of running a workout")
	flag.BoolVar(&config.JSON, "json", false, "Log in JSON format")
	flag.BoolVar(&config.Verbose, "verbose", false, "Enable debug logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Run a run/walk interval workout, or render the glance view of one\n")
		fmt.Fprintf(os.Stderr, "published by another process.\n\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nWhile a workout runs: p pauses, r resumes, q stops.\n")
	}
	flag.Parse()
	return config
}

func setupLogger(config *Config) *slog.Logger {
	level := slog.LevelInfo
	if config.Verbose {
		level = slog.LevelDebug
	}
	if config.JSON {
		return runwalk.NewJSONLogger(level)
	}
	return runwalk.NewLogger(level)
}

func loadSettings(config *Config) runwalk.Settings {
	settings := runwalk.DefaultSettings()
	if config.SettingsFile != "" {
		loaded, err := runwalk.LoadSettingsFile(config.SettingsFile)
		if err != nil {
			log.Fatalf("Failed to load settings: %v", err)
		}
		settings = loaded
	}
	if config.RunSeconds > 0 {
		sel, err := runwalk.CustomInterval(config.RunSeconds)
		if err != nil {
			log.Fatalf("Invalid run interval: %v", err)
		}
		settings.Run = sel
	}
	if config.WalkSeconds > 0 {
		sel, err := runwalk.CustomInterval(config.WalkSeconds)
		if err != nil {
			log.Fatalf("Invalid walk interval: %v", err)
		}
		settings.Walk = sel
	}
	if config.SlotPath != "" {
		settings.SlotPath = config.SlotPath
	}
	return settings
}

func openStore(config *Config, settings runwalk.Settings) runwalk.SnapshotStore {
	store, err := runwalk.NewFileSnapshotStore(runwalk.FileSnapshotStoreOptions{
		Path: settings.SlotPath,
	})
	if err != nil {
		log.Fatalf("Failed to open snapshot slot: %v", err)
	}
	return store
}

func renderGlance(ctx context.Context, store runwalk.SnapshotStore) error {
	reader := runwalk.NewGlanceReader(store, nil)
	timeline, err := reader.Timeline(ctx)
	if err != nil {
		return err
	}

	first := timeline.Entries[0].Snapshot
	if !first.IsActive {
		color.Yellow("No active workout")
	} else {
		phase := color.New(color.FgCyan, color.Bold)
		if first.IsRunPhase() {
			phase = color.New(color.FgGreen, color.Bold)
		}
		phase.Printf("%s  %s remaining (%.0f%%)\n", first.CurrentPhase,
			runwalk.FormatSeconds(first.TimeRemaining), first.Progress()*100)
		for _, entry := range timeline.Entries {
			fmt.Printf("  %s  %s\n", entry.VirtualTime.Format("15:04:05"),
				runwalk.FormatSeconds(entry.Snapshot.TimeRemaining))
		}
	}
	color.White("Refresh at %s", timeline.RefreshAt.Format("15:04:05"))
	return nil
}

func runWorkout(ctx context.Context, config *Config, settings runwalk.Settings, store runwalk.SnapshotStore, logger *slog.Logger) error {
	callbacks := runwalk.NewCallbackChain(runwalk.NewConsoleFeedback(os.Stdout))
	if config.SummaryFile != "" {
		callbacks.Add(runwalk.NewSummaryWriter(config.SummaryFile, logger))
	}
	if config.ScriptFile != "" {
		source, err := os.ReadFile(config.ScriptFile)
		if err != nil {
			return fmt.Errorf("failed to read feedback script: %w", err)
		}
		feedback, err := runwalk.NewScriptFeedback(ctx, string(source), logger)
		if err != nil {
			return err
		}
		callbacks.Add(feedback)
	}

	engine, err := runwalk.NewEngine(runwalk.EngineOptions{
		RunInterval:  settings.Run,
		WalkInterval: settings.Walk,
		Store:        store,
		Callbacks:    callbacks,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runner := runwalk.NewRunner(engine, nil)
	go runner.Run(ctx)

	color.Blue("Run %s / walk %s", runwalk.FormatSeconds(settings.Run.Duration()),
		runwalk.FormatSeconds(settings.Walk.Duration()))
	runner.Start(ctx)

	// Keyboard control on one goroutine, signals on another; both funnel
	// into the runner's command loop.
	commands := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			commands <- strings.TrimSpace(scanner.Text())
		}
		close(commands)
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-signals:
			runner.Stop(ctx)
			return nil
		case line, ok := <-commands:
			if !ok {
				runner.Stop(ctx)
				return nil
			}
			switch line {
			case "p":
				runner.Pause(ctx)
			case "r":
				runner.Start(ctx)
			case "q":
				runner.Stop(ctx)
				return nil
			}
		}
	}
}
