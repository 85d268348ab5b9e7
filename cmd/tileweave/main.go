// Package main is the entry point for tileweave.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/samdwyer/tileweave/internal/game"
	"github.com/samdwyer/tileweave/internal/rules"
	"github.com/samdwyer/tileweave/internal/telemetry"
	"github.com/samdwyer/tileweave/internal/tileset"
	"github.com/samdwyer/tileweave/internal/ui"
	"github.com/samdwyer/tileweave/internal/world"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Debugf("Note: .env file not loaded: %v", err)
	}
	setupOTelEnv()

	configPath := flag.String("config", "", "path to a YAML config file (default $"+game.ConfigEnv+")")
	tilesetID := flag.String("tileset", "", "tileset to generate with")
	seed := flag.Int64("seed", 0, "random seed, 0 for a random one")
	width := flag.Int("width", 0, "window width in cells")
	height := flag.Int("height", 0, "window height in cells")
	rulesFile := flag.String("rules", "", "rule file replacing the tileset's embedded rules")
	headless := flag.Bool("headless", false, "generate once and print the map to stdout")
	list := flag.Bool("list", false, "list the available tilesets and exit")
	flag.Parse()

	cfg, err := game.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags override the config file only when given.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "tileset":
			cfg.Tileset = *tilesetID
		case "seed":
			cfg.Seed = *seed
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "rules":
			cfg.Rules = *rulesFile
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Invalid log level %q: %v", cfg.LogLevel, err)
	}
	log.SetLevel(level)

	registry := tileset.MustLoadRegistry()
	if *list {
		for _, ts := range registry.All() {
			fmt.Printf("%-10s %s\n", ts.ID, ts.Description)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Initialize telemetry
	if cfg.Telemetry {
		runID, shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			log.WithError(err).Warn("Telemetry setup failed, running without tracing")
		} else {
			log.WithField("run_id", runID).Debug("Telemetry enabled")
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					log.WithError(err).Warn("Error shutting down telemetry")
				}
			}()
		}
	}

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if !*headless {
		out, closeLog, err := openLog(cfg.LogFile)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer closeLog()
		log.SetOutput(out)
	}

	w, err := buildWorld(cfg, registry, log)
	if err != nil {
		log.Fatalf("Failed to build world: %v", err)
	}

	if *headless {
		if err := w.Generate(ctx); err != nil {
			log.Fatalf("Generation failed: %v", err)
		}
		if err := ui.Dump(os.Stdout, w); err != nil {
			log.Fatalf("Failed to write map: %v", err)
		}
		return
	}

	g, err := game.New(w, log)
	if err != nil {
		log.Fatalf("Failed to initialize viewer: %v", err)
	}
	if err := g.Run(ctx); err != nil {
		log.Fatalf("Viewer error: %v", err)
	}
}

// buildWorld compiles the configured tileset, optionally against a rule file on disk.
func buildWorld(cfg game.Config, registry *tileset.Registry, log *logrus.Logger) (*world.World, error) {
	ts := registry.GetByID(cfg.Tileset)
	if ts == nil {
		return nil, fmt.Errorf("unknown tileset %q", cfg.Tileset)
	}

	var text string
	var err error
	if cfg.Rules != "" {
		data, readErr := os.ReadFile(cfg.Rules)
		if readErr != nil {
			return nil, readErr
		}
		text = string(data)
	} else if text, err = tileset.LoadRules(ts.RulesFile); err != nil {
		return nil, err
	}

	lintRules(text, log)

	table, exports, err := ts.CompileText(text)
	if err != nil {
		return nil, err
	}

	entry := log.WithFields(logrus.Fields{"tileset": ts.ID, "seed": cfg.Seed})
	entry.WithField("tiles", table.Count()).Info("Rules compiled")

	return world.NewWithRules(ts, table, exports, cfg.Width, cfg.Height,
		rand.New(rand.NewSource(cfg.Seed)),
		world.WithLogger(entry),
		world.WithCheckpointInterval(cfg.CheckpointInterval),
	)
}

// lintRules warns about edge signatures no tile can match.
func lintRules(text string, log logrus.FieldLogger) {
	p := rules.NewParser()
	if err := p.Parse(text); err != nil {
		// CompileText reports it.
		return
	}
	for _, warning := range p.Lint() {
		log.Warn(warning)
	}
}

func openLog(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// setupOTelEnv points the OTLP exporter at Honeycomb when an API key is configured.
func setupOTelEnv() {
	apiKey := os.Getenv("HONEYCOMB_TILEWEAVE_API_KEY")
	if apiKey == "" {
		return
	}
	os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")

	dataset := os.Getenv("HONEYCOMB_TILEWEAVE_DATASET")
	if dataset == "" {
		dataset = "tileweave" // default dataset name
	}
	os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
		fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
}
