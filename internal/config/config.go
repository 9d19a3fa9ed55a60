package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Backends a source can be fetched with
const (
	BackendHTTP    = "http"
	BackendBrowser = "browser"
)

// Payload formats a source can return
const (
	FormatHTML = "html"
	FormatJSON = "json"
)

// Trust matching modes
const (
	MatchSubstring = "substring"
	MatchWord      = "word"
)

// AppConfig holds the complete application configuration
type AppConfig struct {
	Server  ServerConfig   `yaml:"server"`
	Scraper ScraperConfig  `yaml:"scraper"`
	Browser BrowserConfig  `yaml:"browser"`
	Proxies ProxyConfig    `yaml:"proxies"`
	Trust   TrustConfig    `yaml:"trust"`
	Sources []SourceConfig `yaml:"sources"`
}

// ServerConfig holds the HTTP surface configuration
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	DefaultSource  string        `yaml:"default_source"`
}

// ScraperConfig holds the transport configuration shared by all sources
type ScraperConfig struct {
	Timeout    time.Duration `yaml:"timeout"`
	UserAgents []string      `yaml:"user_agents,omitempty"`
	CacheTTL   time.Duration `yaml:"cache_ttl"`
	CacheSize  int           `yaml:"cache_size"`
}

// ProxyConfig holds the proxy configuration
type ProxyConfig struct {
	Enabled bool     `yaml:"enabled"`
	Rotate  bool     `yaml:"rotate"`
	List    []string `yaml:"list"`
	Auth    struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"auth"`
}

// BrowserConfig holds the browser configuration for JavaScript rendering
type BrowserConfig struct {
	Headless  bool          `yaml:"headless"`
	UserAgent string        `yaml:"user_agent"`
	WaitTime  time.Duration `yaml:"wait_time"`
}

// TrustConfig points at the trusted organization allow-list
type TrustConfig struct {
	File  string `yaml:"file"`
	Match string `yaml:"match"`
}

// SourceConfig is the declarative table describing one scraped source
type SourceConfig struct {
	Name    string `yaml:"name"`
	Heading string `yaml:"heading"`
	Backend string `yaml:"backend"`
	Format  string `yaml:"format"`

	URL          string `yaml:"url"`
	Origin       string `yaml:"origin"`
	PageParam    string `yaml:"page_param"`
	OffsetParam  string `yaml:"offset_param"`
	PageSize     int    `yaml:"page_size"`
	KeywordParam string `yaml:"keyword_param"`
	JobOptions   bool   `yaml:"job_options"`

	MaxPages  int           `yaml:"max_pages"`
	RateLimit time.Duration `yaml:"rate_limit"`
	WaitFor   string        `yaml:"wait_for"`

	Extraction ExtractionConfig `yaml:"extraction"`
	Filter     FilterConfig     `yaml:"filter"`
	Form       FormConfig       `yaml:"form"`

	Trust  bool `yaml:"trust"`
	Dedupe bool `yaml:"dedupe"`
}

// ExtractionConfig holds the data extraction rules of a source
type ExtractionConfig struct {
	Items    string      `yaml:"items"`
	LastPage string      `yaml:"last_page"`
	Fields   []FieldRule `yaml:"fields"`
}

// FieldRule locates and reads one named field inside an item
type FieldRule struct {
	Name       string `yaml:"name"`
	Label      string `yaml:"label"`
	Selector   string `yaml:"selector"`
	Attr       string `yaml:"attr"`
	TrimPrefix string `yaml:"trim_prefix"`
	Squash     bool   `yaml:"squash"`
	Default    string `yaml:"default"`
}

// FilterConfig holds the local filtering rules of a source
type FilterConfig struct {
	Field   string        `yaml:"field"`
	Require []Requirement `yaml:"require"`
}

// Requirement checks a field value. Equals is exact; NotEquals ignores case.
type Requirement struct {
	Field     string `yaml:"field"`
	Equals    string `yaml:"equals"`
	NotEquals string `yaml:"not_equals"`
}

// FormConfig describes the search form rendered for a source
type FormConfig struct {
	Method string `yaml:"method"`
	Action string `yaml:"action"`
	Param  string `yaml:"param"`
	Label  string `yaml:"label"`
}

// Load loads the configuration from a YAML file, layered over the defaults
func Load(filename string) (*AppConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config := CreateDefault()
	defaults := config.Sources
	config.Sources = nil
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	config.Sources = MergeSources(defaults, config.Sources)

	if len(config.Scraper.UserAgents) == 0 {
		config.Scraper.UserAgents = DefaultUserAgents
	}

	return config, nil
}

// CreateDefault creates a default configuration
func CreateDefault() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Addr:           ":3000",
			RequestTimeout: 60 * time.Second,
			DefaultSource:  "coursera-courses",
		},
		Scraper: ScraperConfig{
			Timeout:    30 * time.Second,
			UserAgents: DefaultUserAgents,
			CacheSize:  256,
		},
		Browser: BrowserConfig{
			Headless:  true,
			UserAgent: DefaultUserAgents[0],
			WaitTime:  5 * time.Second,
		},
		Proxies: ProxyConfig{
			Rotate: true,
			List:   []string{},
		},
		Trust: TrustConfig{
			File:  "All_Company_Names.xlsx",
			Match: MatchSubstring,
		},
		Sources: DefaultSources(),
	}
}

// ApplyEnv loads a .env file when present and applies PORT and TRUST_FILE
func (c *AppConfig) ApplyEnv() {
	_ = godotenv.Load()

	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(port, ":")
	}
	if file := os.Getenv("TRUST_FILE"); file != "" {
		c.Trust.File = file
	}
}

// Validate checks the configuration for values the pipeline cannot run with
func (c *AppConfig) Validate() error {
	switch c.Trust.Match {
	case MatchSubstring, MatchWord:
	default:
		return fmt.Errorf("trust.match must be %q or %q, got %q", MatchSubstring, MatchWord, c.Trust.Match)
	}

	seen := make(map[string]bool, len(c.Sources))
	for _, s := range c.Sources {
		if s.Name == "" {
			return fmt.Errorf("source without a name")
		}
		if seen[s.Name] {
			return fmt.Errorf("source %q declared twice", s.Name)
		}
		seen[s.Name] = true

		if err := s.Validate(); err != nil {
			return fmt.Errorf("source %q: %w", s.Name, err)
		}
	}

	if c.Server.DefaultSource != "" && !seen[c.Server.DefaultSource] {
		return fmt.Errorf("server.default_source %q is not a configured source", c.Server.DefaultSource)
	}
	return nil
}

// Validate checks a single source table
func (s SourceConfig) Validate() error {
	switch s.Backend {
	case BackendHTTP, BackendBrowser:
	default:
		return fmt.Errorf("unknown backend %q", s.Backend)
	}
	switch s.Format {
	case FormatHTML, FormatJSON:
	default:
		return fmt.Errorf("unknown format %q", s.Format)
	}
	if s.Backend == BackendBrowser && s.Format != FormatHTML {
		return fmt.Errorf("browser backend only renders html")
	}
	if s.URL == "" {
		return fmt.Errorf("url is required")
	}
	if s.MaxPages < 1 {
		return fmt.Errorf("max_pages must be at least 1")
	}
	if s.OffsetParam != "" && s.PageSize < 1 {
		return fmt.Errorf("offset_param needs a positive page_size")
	}
	if s.Extraction.Items == "" {
		return fmt.Errorf("extraction.items is required")
	}
	if len(s.Extraction.Fields) == 0 {
		return fmt.Errorf("extraction.fields is empty")
	}
	for _, f := range s.Extraction.Fields {
		if f.Name == "" || f.Selector == "" {
			return fmt.Errorf("field rules need a name and a selector")
		}
	}
	return nil
}

// Names returns the declared field names in table order
func (s SourceConfig) Names() []string {
	names := make([]string, 0, len(s.Extraction.Fields))
	for _, f := range s.Extraction.Fields {
		names = append(names, f.Name)
	}
	return names
}

// MergeSources replaces base entries by name and appends new ones
func MergeSources(base, overrides []SourceConfig) []SourceConfig {
	merged := make([]SourceConfig, len(base))
	copy(merged, base)

	for _, o := range overrides {
		replaced := false
		for i := range merged {
			if merged[i].Name == o.Name {
				merged[i] = o
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, o)
		}
	}
	return merged
}
