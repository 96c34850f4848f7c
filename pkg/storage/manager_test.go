package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sspscraper/pkg/portal"
)

func TestNever(t *testing.T) {
	var c Checker = Never{}
	assert.False(t, c.IsDownloaded("Homicidio", portal.YearFromID("18"), portal.MonthFromID("mes07")))
}

func TestManagerEmptyPatternBehavesLikeNever(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "anything.xls"), []byte("x"), 0644))

	manager, err := NewManager(tempDir, "")
	require.NoError(t, err)
	assert.False(t, manager.IsDownloaded("Roubo", portal.YearFromID("2018"), portal.MonthFromID("1")))
}

func TestManagerExpand(t *testing.T) {
	manager, err := NewManager(t.TempDir(), "{category}/{year}-{month2}-{month}.*")
	require.NoError(t, err)

	got := manager.Expand("MorteSuspeita Natural", portal.YearFromID("lkAno18"), portal.MonthFromID("lkMes7"))
	assert.Equal(t, "MorteSuspeita Natural/2018-07-7.*", got)

	got = manager.Expand("Roubo[1]", portal.YearFromID("todos"), portal.MonthFromID("x"))
	assert.Equal(t, `Roubo\[1\]/todos-x-x.*`, got)
}

func TestManagerIsDownloaded(t *testing.T) {
	tempDir := t.TempDir()

	manager, err := NewManager(tempDir, "{category}_{year}_{month2}.*")
	require.NoError(t, err)

	year := portal.YearFromID("cphBody_lkAno18")
	month := portal.MonthFromID("cphBody_lkMes3")

	assert.False(t, manager.IsDownloaded("Roubo", year, month))
	assert.Equal(t, 0, manager.GetDownloadedCount())

	// A partial download does not count
	partial := filepath.Join(tempDir, "Roubo_2018_03.xls.crdownload")
	require.NoError(t, os.WriteFile(partial, []byte("part"), 0644))
	assert.False(t, manager.IsDownloaded("Roubo", year, month))

	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "Roubo_2018_03.xls"), []byte("done"), 0644))
	assert.True(t, manager.IsDownloaded("Roubo", year, month))
	assert.Equal(t, 1, manager.GetDownloadedCount())

	// Cached even if the file later moves away
	require.NoError(t, os.Remove(filepath.Join(tempDir, "Roubo_2018_03.xls")))
	assert.True(t, manager.IsDownloaded("Roubo", year, month))

	assert.False(t, manager.IsDownloaded("Furto", year, month))
}

func TestNewManagerInvalidPattern(t *testing.T) {
	_, err := NewManager(t.TempDir(), "[")
	assert.Error(t, err)
}

func TestNewManagerCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	manager, err := NewManager(dir, "")
	require.NoError(t, err)
	assert.Equal(t, dir, manager.GetOutputDir())
	assert.DirExists(t, dir)
}
