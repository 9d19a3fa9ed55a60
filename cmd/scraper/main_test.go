package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/williampepple1/listing-scraper/internal/config"
	"github.com/williampepple1/listing-scraper/internal/source"
)

func withFlags(t *testing.T, cfgFile, trust string) {
	t.Helper()
	oldCfg, oldTrust := configFile, trustFile
	configFile, trustFile = cfgFile, trust
	t.Cleanup(func() { configFile, trustFile = oldCfg, oldTrust })
	t.Setenv("PORT", "")
	t.Setenv("TRUST_FILE", "")
}

func TestLoadConfigDefaults(t *testing.T) {
	withFlags(t, "", "companies.csv")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, "companies.csv", cfg.Trust.File)
	assert.Len(t, cfg.Sources, len(config.DefaultSources()))
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  default_source: linkedin-jobs\n"), 0o644))

	withFlags(t, path, "")
	t.Setenv("PORT", "8080")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "linkedin-jobs", cfg.Server.DefaultSource)
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("trust:\n  match: fuzzy\n"), 0o644))

	withFlags(t, path, "")
	_, err := loadConfig()
	assert.Error(t, err)
}

func TestSetupFailsWithoutTrustList(t *testing.T) {
	cfg := config.CreateDefault()
	cfg.Trust.File = filepath.Join(t.TempDir(), "missing.xlsx")

	_, _, err := setup(cfg)
	assert.Error(t, err)
}

func TestSetupWithoutTrustSources(t *testing.T) {
	cfg := config.CreateDefault()
	cfg.Trust.File = filepath.Join(t.TempDir(), "missing.xlsx")
	for i := range cfg.Sources {
		cfg.Sources[i].Trust = false
	}

	registry, p, err := setup(cfg)
	require.NoError(t, err)
	assert.Nil(t, p.Trusted)
	assert.Len(t, registry.Names(), len(cfg.Sources))
}

func TestSelectSources(t *testing.T) {
	registry, err := source.NewRegistry(config.DefaultSources())
	require.NoError(t, err)

	all, err := selectSources(registry, nil)
	require.NoError(t, err)
	assert.Len(t, all, len(config.DefaultSources()))

	some, err := selectSources(registry, []string{"linkedin-jobs", " unstop-hackathons "})
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, "linkedin-jobs", some[0].Name())
	assert.Equal(t, "unstop-hackathons", some[1].Name())

	_, err = selectSources(registry, []string{"nope"})
	assert.ErrorIs(t, err, source.ErrUnknownSource)

	_, err = selectSources(registry, []string{" "})
	assert.Error(t, err)
}

func TestPrintSources(t *testing.T) {
	var buf bytes.Buffer
	printSources(&buf, config.CreateDefault())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(config.DefaultSources()))
	assert.True(t, strings.HasPrefix(lines[0], "* coursera-courses"))
	assert.Contains(t, lines[3], "browser")
}
