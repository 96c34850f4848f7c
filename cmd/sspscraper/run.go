package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"sspscraper/pkg/config"
	errs "sspscraper/pkg/errors"
	"sspscraper/pkg/logger"
	"sspscraper/pkg/portal"
	"sspscraper/pkg/ratelimit"
	"sspscraper/pkg/scraper"
	"sspscraper/pkg/storage"
	"sspscraper/pkg/ui"
)

var (
	// Run command flags
	portalURL        string
	outputDir        string
	timeoutSeconds   int
	headless         bool
	downloadPattern  string
	exportsPerMinute int
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Export every category and period from the portal",
	Long: `Open the transparency portal and trigger the export of every category,
year and month it lists. Categories are visited last to first, years in page
order and months from December back to January.

A failed export is logged and the run continues. A page that stops
responding for longer than the timeout aborts the run.`,
	Example: `  # Export everything into ./downloads
  sspscraper run

  # Watch the browser work and allow 30 minutes per page operation
  sspscraper run --headless=false --timeout 1800

  # Skip periods already saved as <category>_<year>_<month>.xls
  sspscraper run --download-pattern '{category}_{year}_{month2}.*'`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&portalURL, "url", "", "portal address")
	runCmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory the browser saves exports into")
	runCmd.Flags().IntVar(&timeoutSeconds, "timeout", 0, "seconds to wait for each page operation (default 900)")
	runCmd.Flags().BoolVar(&headless, "headless", true, "run Chrome without a window")
	runCmd.Flags().StringVar(&downloadPattern, "download-pattern", "", "glob under the output directory marking a period as downloaded")
	runCmd.Flags().IntVar(&exportsPerMinute, "exports-per-minute", 0, "maximum export triggers per minute (0 is unlimited)")
}

func runFlags(cmd *cobra.Command) map[string]interface{} {
	flags := globalFlags()
	if portalURL != "" {
		flags["url"] = portalURL
	}
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if timeoutSeconds > 0 {
		flags["timeout"] = timeoutSeconds
	}
	if cmd.Flags().Changed("headless") {
		flags["headless"] = headless
	}
	if cmd.Flags().Changed("download-pattern") {
		flags["download-pattern"] = downloadPattern
	}
	if cmd.Flags().Changed("exports-per-minute") {
		flags["exports-per-minute"] = exportsPerMinute
	}
	return flags
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, runFlags(cmd))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()
	defer logger.Close(log)
	log.WithField("version", version).Info("sspscraper starting")

	ui.PrintBanner()
	ui.PrintInfo("Portal", cfg.Portal.URL)
	ui.PrintInfo("Output", cfg.Output.Directory)

	checker, err := newChecker(cfg)
	if err != nil {
		return fmt.Errorf("failed to prepare output directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zl := log.GetZerolog()
	browser, err := portal.NewBrowser(ctx, portal.Options{
		URL:         cfg.Portal.URL,
		DownloadDir: cfg.Output.Directory,
		Timeout:     cfg.Portal.Timeout,
		Headless:    cfg.Portal.Headless,
		UserAgent:   cfg.Portal.UserAgent,
		Logf:        func(format string, v ...interface{}) { zl.Debug().Msgf(format, v...) },
	})
	if err != nil {
		log.WithError(err).Error("Failed to open portal")
		return fmt.Errorf("failed to open portal: %w", err)
	}

	session := scraper.New(browser,
		scraper.WithLogger(log),
		scraper.WithChecker(checker),
		scraper.WithLimiter(ratelimit.New(cfg.Portal.ExportsPerMinute)),
	)
	defer session.Close()

	logger.LogComponentStart(log, "session", map[string]interface{}{
		"timeout":  cfg.Portal.Timeout.String(),
		"headless": cfg.Portal.Headless,
	})

	summary, err := session.ProcessAll(ctx)
	ui.PrintSummary(summary.Categories, summary.Exported, summary.Skipped, summary.Failed)

	if err != nil {
		reason := string(errs.TypeOf(err))
		if ctx.Err() != nil {
			reason = "interrupted"
		}
		logger.LogComponentStop(log, "session", reason)
		log.WithError(err).Error("Run aborted")
		return fmt.Errorf("run aborted: %w", err)
	}

	logger.LogComponentStop(log, "session", "completed")
	ui.PrintSuccess("[ALL CATEGORIES PROCESSED]")
	return nil
}

// newChecker returns the glob based presence check when a pattern is
// configured, otherwise the check that never skips
func newChecker(cfg *config.Config) (storage.Checker, error) {
	manager, err := storage.NewManager(cfg.Output.Directory, cfg.Output.DownloadPattern)
	if err != nil {
		return nil, err
	}
	if cfg.Output.DownloadPattern == "" {
		return storage.Never{}, nil
	}
	return manager, nil
}
