package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/williampepple1/listing-scraper/internal/config"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Lists the configured sources.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fatal("failed to load config", err)
		}
		printSources(cmd.OutOrStdout(), cfg)
	},
}

func printSources(w io.Writer, cfg *config.AppConfig) {
	for _, s := range cfg.Sources {
		marker := " "
		if s.Name == cfg.Server.DefaultSource {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-20s %-8s %-5s %2d pages  %s\n", marker, s.Name, s.Backend, s.Format, s.MaxPages, s.URL)
	}
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
