// Package scraper walks the transparency portal and triggers its exports.
//
// A Session drives one portal.Page. ProcessAll activates every category in
// reverse page order, reads the year and month tabs that appear, and for each
// period not yet on disk clicks the tabs and runs the page's own export
// handler. The portal serves the file and the browser's download manager
// writes it; the session never waits for a download to finish.
//
// Usage:
//
//	page, err := portal.NewBrowser(ctx, portal.Options{
//	    URL:         config.DefaultPortalURL,
//	    DownloadDir: "downloads",
//	    Timeout:     15 * time.Minute,
//	    Headless:    true,
//	})
//	if err != nil {
//	    return err
//	}
//	session := scraper.New(page, scraper.WithLogger(log))
//	defer session.Close()
//
//	summary, err := session.ProcessAll(ctx)
//
// Error handling:
//
// A failure to read or run the export handler is logged and counted, and the
// walk moves on to the next period. Any other failure, a wait timeout
// included, ends the run.
package scraper
