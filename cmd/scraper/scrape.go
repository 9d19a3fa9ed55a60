package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	resultio "github.com/williampepple1/listing-scraper/internal/io"
	"github.com/williampepple1/listing-scraper/internal/pipeline"
	"github.com/williampepple1/listing-scraper/internal/source"
	"github.com/williampepple1/listing-scraper/internal/worker"
)

var (
	scrapeSources []string
	scrapeOutput  string
	scrapeFormat  string
	scrapeWorkers int
	scrapeQuery   source.Query
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape --source <name>[,<name>] [--keyword <text>]",
	Short: "Scrapes one or more sources once and writes the results as JSON or CSV.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fatal("failed to load config", err)
		}
		writer, err := resultio.NewResultWriter(scrapeFormat, scrapeOutput)
		if err != nil {
			fatal("invalid output", err)
		}

		registry, p, err := setup(cfg)
		if err != nil {
			fatal("failed to start", err)
		}
		srcs, err := selectSources(registry, scrapeSources)
		if err != nil {
			fatal("invalid --source", err)
		}

		t1 := time.Now()
		outcomes := worker.Run(cmd.Context(), p, scrapeWorkers, srcs, scrapeQuery, slog.Default())
		slog.Info("scraping time", "seconds", time.Since(t1).Seconds())

		results := make([]*pipeline.Result, 0, len(outcomes))
		failed := 0
		for _, o := range outcomes {
			if o.Err != nil {
				slog.Error("source failed", "source", o.Job.Source.Name(), "err", o.Err)
				failed++
				continue
			}
			if o.Result.Failed() > 0 {
				fmt.Fprintf(os.Stderr, "%s: %s\n", o.Result.Source, o.Result.Summary())
			}
			results = append(results, o.Result)
		}

		if err := writer.SaveToFile(results); err != nil {
			fatal("failed to write results", err)
		}
		if failed == len(outcomes) {
			os.Exit(1)
		}
	},
}

// selectSources resolves the --source names; no names selects the default
// source table set
func selectSources(registry *source.Registry, names []string) ([]*source.Source, error) {
	if len(names) == 0 {
		names = registry.Names()
	}

	srcs := make([]*source.Source, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		src, err := registry.Get(name)
		if err != nil {
			return nil, err
		}
		srcs = append(srcs, src)
	}
	if len(srcs) == 0 {
		return nil, fmt.Errorf("no sources selected")
	}
	return srcs, nil
}

func init() {
	f := scrapeCmd.Flags()
	f.StringSliceVarP(&scrapeSources, "source", "s", nil, "Sources to scrape, default all")
	f.StringVarP(&scrapeOutput, "output", "o", "-", "File to save results to, - for stdout")
	f.StringVar(&scrapeFormat, "format", resultio.FormatJSON, "Output format: json or csv")
	f.IntVarP(&scrapeWorkers, "workers", "w", 3, "Number of sources scraped concurrently")

	f.StringVarP(&scrapeQuery.Keyword, "keyword", "k", "", "Title filter, or search keyword for job sources")
	f.StringVar(&scrapeQuery.Location, "location", "", "Job location")
	f.StringVar(&scrapeQuery.DatePosted, "date-posted", "", "past month, past week or 24hr")
	f.StringVar(&scrapeQuery.JobType, "job-type", "", "full time, part time, contract, temporary, volunteer or internship")
	f.StringVar(&scrapeQuery.Remote, "remote", "", "on-site, remote or hybrid")
	f.StringVar(&scrapeQuery.Salary, "salary", "", "40000, 60000, 80000, 100000 or 120000")
	f.StringVar(&scrapeQuery.Experience, "experience", "", "internship, entry level, associate, senior, director or executive")
	f.StringVar(&scrapeQuery.SortBy, "sort-by", "", "recent or relevant")
	f.IntVar(&scrapeQuery.Limit, "limit", 0, "Stop after this many records per source, 0 for no limit")

	rootCmd.AddCommand(scrapeCmd)
}
