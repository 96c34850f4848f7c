package portal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"
	errs "sspscraper/pkg/errors"
)

// Options configures a Browser
type Options struct {
	URL         string
	DownloadDir string
	// Timeout bounds every navigation, wait and script
	Timeout   time.Duration
	Headless  bool
	UserAgent string
	// Logf receives chromedp protocol logs when set
	Logf func(string, ...interface{})
}

// Browser drives a Chrome instance through chromedp
type Browser struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	timeout     time.Duration
}

// NewBrowser launches Chrome with downloads going to opts.DownloadDir, opens
// opts.URL and waits for the document body to be ready
func NewBrowser(parent context.Context, opts Options) (*Browser, error) {
	dir, err := filepath.Abs(opts.DownloadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve download directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, allocOpts...)

	var ctxOpts []chromedp.ContextOption
	if opts.Logf != nil {
		ctxOpts = append(ctxOpts, chromedp.WithLogf(opts.Logf))
	}
	ctx, cancel := chromedp.NewContext(allocCtx, ctxOpts...)

	b := &Browser{
		ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
		timeout:     opts.Timeout,
	}

	// The first Run starts the browser; it must not use a deadline-bound
	// context or Chrome would exit with it.
	if err := chromedp.Run(ctx); err != nil {
		b.Close()
		return nil, errs.New(errs.ErrorTypeNavigation, "start browser", "", err)
	}

	err = b.run(parent, errs.ErrorTypeNavigation, "open portal", opts.URL,
		browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllow).
			WithDownloadPath(dir).
			WithEventsEnabled(true),
		chromedp.Navigate(opts.URL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		b.Close()
		return nil, err
	}

	return b, nil
}

// run executes actions bounded by the browser timeout and by ctx
func (b *Browser) run(ctx context.Context, fallback errs.ErrorType, op, id string, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(b.ctx, b.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	return errs.Classify(fallback, op, id, err)
}

// byID builds a JS path resolving the element with the given id
func byID(id string) string {
	return "document.getElementById(" + strconv.Quote(id) + ")"
}

// Snapshot returns the outer HTML of the document
func (b *Browser) Snapshot(ctx context.Context) (string, error) {
	var html string
	err := b.run(ctx, errs.ErrorTypeNavigation, "snapshot", "",
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	return html, err
}

// ClickVisible waits for the element to be visible, then clicks it from a
// script so overlays and scrolling never intercept the click
func (b *Browser) ClickVisible(ctx context.Context, id string) error {
	path := byID(id)
	return b.run(ctx, errs.ErrorTypeNavigation, "click", id,
		chromedp.WaitVisible(path, chromedp.ByJSPath),
		chromedp.Evaluate(path+".click()", nil),
	)
}

// Attribute reads an attribute of the element, waiting for it to exist
func (b *Browser) Attribute(ctx context.Context, id, name string) (string, error) {
	var (
		value string
		ok    bool
	)
	err := b.run(ctx, errs.ErrorTypeNavigation, "read "+name, id,
		chromedp.AttributeValue(byID(id), name, &value, &ok, chromedp.ByJSPath),
	)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errs.New(errs.ErrorTypeNavigation, "read "+name, id, fmt.Errorf("attribute %q not present", name))
	}
	return value, nil
}

// Execute runs script wrapped in a function body, so inline handlers ending
// in "return false;" evaluate cleanly
func (b *Browser) Execute(ctx context.Context, script string) error {
	return b.run(ctx, errs.ErrorTypeNavigation, "execute script", "",
		chromedp.Evaluate("(function(){\n"+script+"\n})()", nil),
	)
}

// Close shuts the browser down and releases the allocator
func (b *Browser) Close() error {
	err := chromedp.Cancel(b.ctx)
	b.cancel()
	b.allocCancel()
	return err
}
