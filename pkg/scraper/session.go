package scraper

import (
	"context"
	"fmt"

	errs "sspscraper/pkg/errors"
	"sspscraper/pkg/logger"
	"sspscraper/pkg/portal"
	"sspscraper/pkg/ratelimit"
	"sspscraper/pkg/storage"
)

// Summary counts what a run did
type Summary struct {
	Categories int
	Exported   int
	Skipped    int
	Failed     int
}

// Session walks the portal categories through a single page
type Session struct {
	page    portal.Page
	logger  logger.Logger
	checker storage.Checker
	limiter ratelimit.Limiter
	summary Summary
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the logger; nil keeps the no-op logger
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithChecker sets the already-downloaded check
func WithChecker(c storage.Checker) Option {
	return func(s *Session) {
		if c != nil {
			s.checker = c
		}
	}
}

// WithLimiter paces export triggers
func WithLimiter(l ratelimit.Limiter) Option {
	return func(s *Session) {
		if l != nil {
			s.limiter = l
		}
	}
}

// New creates a Session on an already loaded page
func New(page portal.Page, opts ...Option) *Session {
	s := &Session{
		page:    page,
		logger:  logger.NewNopLogger(),
		checker: storage.Never{},
		limiter: ratelimit.Unlimited{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the page. It is safe to defer right after New.
func (s *Session) Close() error {
	return s.page.Close()
}

// Summary returns the counters accumulated so far
func (s *Session) Summary() Summary {
	return s.summary
}

// ListCategories returns the exportable category button ids in page order
func (s *Session) ListCategories(ctx context.Context) ([]string, error) {
	html, err := s.page.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return portal.CategoryIDs(html)
}

// ListPeriods returns the year and month tab ids rendered for the active category
func (s *Session) ListPeriods(ctx context.Context) (portal.Periods, error) {
	html, err := s.page.Snapshot(ctx)
	if err != nil {
		return portal.Periods{}, err
	}
	return portal.PeriodIDs(html)
}

// ExportPeriod exports one period of the active category. Periods already on
// disk are skipped without touching the page. Export trigger failures are
// logged and swallowed; the returned error is always fatal for the run.
func (s *Session) ExportPeriod(ctx context.Context, category, yearID, monthID string) error {
	year := portal.YearFromID(yearID)
	month := portal.MonthFromID(monthID)

	if s.checker.IsDownloaded(category, year, month) {
		s.summary.Skipped++
		logger.LogExport(s.logger, category, year.String(), month.String(), logger.ExportSkipped, nil)
		return nil
	}

	if err := s.page.ClickVisible(ctx, yearID); err != nil {
		return fmt.Errorf("failed to select year %s: %w", year, err)
	}
	if err := s.page.ClickVisible(ctx, monthID); err != nil {
		return fmt.Errorf("failed to select month %s: %w", month, err)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	err := s.trigger(ctx, category, year, month)
	if err == nil {
		s.summary.Exported++
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if !errs.IsRecoverable(err) {
		return err
	}

	s.summary.Failed++
	logger.LogExport(s.logger, category, year.String(), month.String(), logger.ExportFailed, err)
	return nil
}

// trigger reads the export control's inline handler and runs it, which makes
// the portal generate and serve the file
func (s *Session) trigger(ctx context.Context, category string, year, month portal.Field) error {
	id := portal.ExportTriggerID(category)

	script, err := s.page.Attribute(ctx, id, "onclick")
	if err != nil {
		return errs.New(errs.ErrorTypeExport, "read export trigger", id, err)
	}

	logger.LogExport(s.logger, category, year.String(), month.String(), logger.ExportTriggered, nil)
	if err := s.page.Execute(ctx, script); err != nil {
		return errs.New(errs.ErrorTypeExport, "run export trigger", id, err)
	}
	return nil
}

// exportCategory exports every period of the active category: years in page
// order, months from last to first
func (s *Session) exportCategory(ctx context.Context, category string) error {
	periods, err := s.ListPeriods(ctx)
	if err != nil {
		return err
	}

	s.logger.DebugWithFields("Periods found", map[string]interface{}{
		"category": category,
		"years":    len(periods.Years),
		"months":   len(periods.Months),
	})

	for _, yearID := range periods.Years {
		for i := len(periods.Months) - 1; i >= 0; i-- {
			if err := s.ExportPeriod(ctx, category, yearID, periods.Months[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

// exportSubCategories handles categories with a second selection level.
// Each sub-item is exported under "<category> <item text>".
func (s *Session) exportSubCategories(ctx context.Context, category string) error {
	html, err := s.page.Snapshot(ctx)
	if err != nil {
		return err
	}
	subs, err := portal.SubCategories(html)
	if err != nil {
		return err
	}

	for _, sub := range subs {
		name := category + " " + sub.Text
		s.logger.WithField("category", name).Info("Processing")

		if err := s.page.ClickVisible(ctx, sub.ID); err != nil {
			return fmt.Errorf("failed to select %s: %w", name, err)
		}
		if err := s.exportCategory(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// ProcessAll activates each category, last to first, and exports its periods
func (s *Session) ProcessAll(ctx context.Context) (Summary, error) {
	s.logger.Debug("Fetching data")

	categories, err := s.ListCategories(ctx)
	if err != nil {
		return s.summary, fmt.Errorf("failed to list categories: %w", err)
	}
	s.logger.WithField("count", len(categories)).Debug("Categories found")

	for i := len(categories) - 1; i >= 0; i-- {
		id := categories[i]
		name := portal.CategoryName(id)

		if err := s.page.ClickVisible(ctx, id); err != nil {
			return s.summary, fmt.Errorf("failed to activate category %s: %w", name, err)
		}
		s.summary.Categories++

		if name == portal.SuspiciousDeath {
			err = s.exportSubCategories(ctx, name)
		} else {
			s.logger.WithField("category", name).Info("Processing")
			err = s.exportCategory(ctx, name)
		}
		if err != nil {
			return s.summary, err
		}
	}

	s.logger.InfoWithFields("All categories processed", map[string]interface{}{
		"categories": s.summary.Categories,
		"exported":   s.summary.Exported,
		"skipped":    s.summary.Skipped,
		"failed":     s.summary.Failed,
	})
	return s.summary, nil
}
