package portal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	errs "sspscraper/pkg/errors"
)

// These tests launch a real Chrome and only run when SSPSCRAPER_BROWSER_TESTS=1
func newFixtureBrowser(t *testing.T, timeout time.Duration) *Browser {
	t.Helper()
	if os.Getenv("SSPSCRAPER_BROWSER_TESTS") != "1" {
		t.Skip("set SSPSCRAPER_BROWSER_TESTS=1 to run browser tests")
	}

	srv := httptest.NewServer(http.FileServer(http.Dir("testdata")))
	t.Cleanup(srv.Close)

	b, err := NewBrowser(context.Background(), Options{
		URL:         srv.URL + "/portal.html",
		DownloadDir: t.TempDir(),
		Timeout:     timeout,
		Headless:    true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b
}

func TestBrowserSnapshotAndClick(t *testing.T) {
	b := newFixtureBrowser(t, 10*time.Second)
	ctx := context.Background()

	html, err := b.Snapshot(ctx)
	require.NoError(t, err)

	categories, err := CategoryIDs(html)
	require.NoError(t, err)
	assert.Len(t, categories, 4)

	require.NoError(t, b.ClickVisible(ctx, "cphBody_btnIML"))
}

func TestBrowserExportScript(t *testing.T) {
	b := newFixtureBrowser(t, 10*time.Second)
	ctx := context.Background()

	onclick, err := b.Attribute(ctx, ExportTriggerID("Roubo"), "onclick")
	require.NoError(t, err)
	assert.Contains(t, onclick, "return false;")

	require.NoError(t, b.Execute(ctx, onclick))
	assert.Error(t, b.Execute(ctx, "throw new Error('boom')"))
}

func TestBrowserWaitTimeout(t *testing.T) {
	b := newFixtureBrowser(t, 500*time.Millisecond)

	err := b.ClickVisible(context.Background(), "cphBody_doesNotExist")
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeTimeout, errs.TypeOf(err))
}
