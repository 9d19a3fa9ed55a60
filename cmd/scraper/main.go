package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/williampepple1/listing-scraper/internal/config"
	"github.com/williampepple1/listing-scraper/internal/pipeline"
	"github.com/williampepple1/listing-scraper/internal/scraper"
	"github.com/williampepple1/listing-scraper/internal/source"
	"github.com/williampepple1/listing-scraper/internal/trust"
)

var (
	configFile string
	trustFile  string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "scraper",
	Short: "scraper collects course, hackathon and job listings and serves them as searchable pages.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to configuration file (YAML)")
	rootCmd.PersistentFlags().StringVar(&trustFile, "trust-file", "", "Trusted organization list (.xlsx, .csv or .txt)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file (or the defaults), then applies the
// environment and the flags, in that order
func loadConfig() (*config.AppConfig, error) {
	cfg := config.CreateDefault()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		slog.Debug("loaded configuration", "file", configFile)
	}

	cfg.ApplyEnv()
	if trustFile != "" {
		cfg.Trust.File = trustFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setup compiles the sources and builds the shared pipeline. The trust list
// is loaded only when a configured source uses it, and a missing or empty
// list is an error.
func setup(cfg *config.AppConfig) (*source.Registry, *pipeline.Pipeline, error) {
	registry, err := source.NewRegistry(cfg.Sources)
	if err != nil {
		return nil, nil, err
	}

	var trusted *trust.Set
	if registry.NeedsTrust() {
		trusted, err = trust.Load(cfg.Trust.File, cfg.Trust.Match)
		if err != nil {
			return nil, nil, fmt.Errorf("load trust list: %w", err)
		}
		slog.Info("loaded trust list", "file", cfg.Trust.File, "names", trusted.Len())
	}

	return registry, pipeline.New(scraper.NewAll(cfg), trusted, slog.Default()), nil
}

func fatal(message string, err error) {
	slog.Error(message, "err", err)
	os.Exit(1)
}
