// Package trust loads the trusted organization allow-list.
//
// A Set is built once at startup and never mutated afterwards, so it is safe
// to share between concurrent requests.
package trust

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/williampepple1/listing-scraper/internal/config"
	"github.com/xuri/excelize/v2"
)

// ErrEmptyTrustList is returned when the allow-list file holds no names
var ErrEmptyTrustList = errors.New("trust list is empty")

// Word delimiters for names that may begin or end with punctuation, e.g. "Acme Inc."
const (
	wordStart = `(?:^|[^\p{L}\p{N}_])`
	wordEnd   = `(?:$|[^\p{L}\p{N}_])`
)

// Set is an immutable list of trusted organization names
type Set struct {
	names    []string
	patterns []*regexp.Regexp
}

// NewSet builds a set from names. Blank and repeated names are dropped.
// In word mode a name only matches on word boundaries; otherwise any
// substring occurrence matches.
func NewSet(names []string, mode string) *Set {
	s := &Set{}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		s.names = append(s.names, n)
		if mode == config.MatchWord {
			s.patterns = append(s.patterns, regexp.MustCompile(wordStart+regexp.QuoteMeta(n)+wordEnd))
		}
	}
	return s
}

// Len returns the number of trusted names
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns a copy of the trusted names
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Contains reports whether the organization contains any trusted name
func (s *Set) Contains(organization string) bool {
	if s == nil || organization == "" {
		return false
	}
	if s.patterns != nil {
		for _, p := range s.patterns {
			if p.MatchString(organization) {
				return true
			}
		}
		return false
	}
	for _, n := range s.names {
		if strings.Contains(organization, n) {
			return true
		}
	}
	return false
}

// Load reads the allow-list from a spreadsheet (.xlsx, .xlsm), a CSV file,
// or a plain text file with one name per line. Every cell of the first
// sheet or CSV row contributes a name.
func Load(path, mode string) (*Set, error) {
	var (
		names []string
		err   error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		names, err = readSpreadsheet(path)
	case ".csv":
		names, err = readFile(path, readCSV)
	default:
		names, err = readFile(path, readLines)
	}
	if err != nil {
		return nil, fmt.Errorf("load trust list %s: %w", path, err)
	}

	set := NewSet(names, mode)
	if set.Len() == 0 {
		return nil, fmt.Errorf("load trust list %s: %w", path, ErrEmptyTrustList)
	}
	return set, nil
}

func readSpreadsheet(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	var names []string
	for _, row := range rows {
		names = append(names, row...)
	}
	return names, nil
}

func readFile(path string, read func(io.Reader) ([]string, error)) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return read(file)
}

func readCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var names []string
	for _, row := range rows {
		names = append(names, row...)
	}
	return names, nil
}

func readLines(r io.Reader) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			names = append(names, line)
		}
	}
	return names, scanner.Err()
}
