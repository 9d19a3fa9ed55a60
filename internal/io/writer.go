package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/williampepple1/listing-scraper/internal/pipeline"
)

// Output formats
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ResultWriter writes scrape results to a file or stdout
type ResultWriter struct {
	Format string
	// OutputFile is the destination; empty or "-" means stdout
	OutputFile string
}

// NewResultWriter creates a new result writer
func NewResultWriter(format, outputFile string) (*ResultWriter, error) {
	switch format {
	case FormatJSON, FormatCSV:
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
	return &ResultWriter{Format: format, OutputFile: outputFile}, nil
}

// SaveToFile writes the results to the configured destination
func (w *ResultWriter) SaveToFile(results []*pipeline.Result) error {
	if w.OutputFile == "" || w.OutputFile == "-" {
		return w.Write(os.Stdout, results)
	}

	f, err := os.Create(w.OutputFile)
	if err != nil {
		return err
	}
	if err := w.Write(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write encodes the results in the configured format
func (w *ResultWriter) Write(out io.Writer, results []*pipeline.Result) error {
	switch w.Format {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case FormatCSV:
		return writeCSV(out, results)
	default:
		return fmt.Errorf("unsupported output format: %s", w.Format)
	}
}

// writeCSV emits one row per record. Columns are the source name, the union
// of every result's fields in first-seen order, then the trusted flag.
func writeCSV(out io.Writer, results []*pipeline.Result) error {
	var columns []string
	seen := map[string]bool{}
	for _, r := range results {
		for _, f := range r.Fields {
			if !seen[f] {
				seen[f] = true
				columns = append(columns, f)
			}
		}
	}

	cw := csv.NewWriter(out)
	header := append([]string{"source"}, columns...)
	header = append(header, "trusted")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		for i := range r.Records {
			rec := &r.Records[i]
			row := make([]string, 0, len(header))
			row = append(row, r.Source)
			for _, c := range columns {
				row = append(row, rec.Value(c))
			}
			row = append(row, strconv.FormatBool(rec.Trusted))
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
