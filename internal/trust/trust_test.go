package trust

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/williampepple1/listing-scraper/internal/config"
	"github.com/xuri/excelize/v2"
)

func TestContainsSubstring(t *testing.T) {
	s := NewSet([]string{"Acme", "", "  ", "Globex"}, config.MatchSubstring)
	assert.Equal(t, 2, s.Len())

	assert.True(t, s.Contains("Acme Global University"))
	assert.True(t, s.Contains("NotAcme"), "substring matching has no word boundary")
	assert.True(t, s.Contains("Globex Corporation"))
	assert.False(t, s.Contains("acme labs"), "matching is case-sensitive")
	assert.False(t, s.Contains("Initech"))
	assert.False(t, s.Contains(""))
}

func TestContainsWord(t *testing.T) {
	s := NewSet([]string{"Acme", "C++ Guild"}, config.MatchWord)

	assert.True(t, s.Contains("Acme Global University"))
	assert.False(t, s.Contains("NotAcme"))
	assert.True(t, s.Contains("The C++ Guild"))
}

func TestContainsWordPunctuation(t *testing.T) {
	s := NewSet([]string{"Acme Inc.", "(Initech)"}, config.MatchWord)

	assert.True(t, s.Contains("Acme Inc. Global"))
	assert.True(t, s.Contains("Acme Inc."))
	assert.True(t, s.Contains("Part of (Initech), Texas"))
	assert.False(t, s.Contains("NotAcme Inc."))
	assert.False(t, s.Contains("Acme Incorporated"))
}

func TestNilSet(t *testing.T) {
	var s *Set
	assert.False(t, s.Contains("Acme"))
	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Names())
}

func TestLoadSpreadsheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "companies.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "Acme"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "Globex"))
	require.NoError(t, f.SetCellValue(sheet, "A3", "Acme"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "Initech"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	s, err := Load(path, config.MatchSubstring)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Acme", "Globex", "Initech"}, s.Names())
	assert.True(t, s.Contains("Initech Systems"))
}

func TestLoadText(t *testing.T) {
	dir := t.TempDir()

	txt := filepath.Join(dir, "names.txt")
	require.NoError(t, os.WriteFile(txt, []byte("# trusted\nAcme\n\nGlobex\n"), 0o644))
	s, err := Load(txt, config.MatchSubstring)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Globex"}, s.Names())

	csvPath := filepath.Join(dir, "names.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Acme,Globex\nInitech\n"), 0o644))
	s, err = Load(csvPath, config.MatchSubstring)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme", "Globex", "Initech"}, s.Names())
}

func TestLoadFailures(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.xlsx"), config.MatchSubstring)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("\n# nothing\n"), 0o644))
	_, err = Load(empty, config.MatchSubstring)
	assert.ErrorIs(t, err, ErrEmptyTrustList)
}
