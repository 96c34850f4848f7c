package portal

import "context"

// Page is the set of browser capabilities the scraper session needs.
// Elements are addressed by their id attribute.
type Page interface {
	// Snapshot returns the currently rendered document markup
	Snapshot(ctx context.Context) (string, error)
	// ClickVisible waits until the element is visible and clicks it from a script
	ClickVisible(ctx context.Context, id string) error
	// Attribute reads an attribute of the element
	Attribute(ctx context.Context, id, name string) (string, error)
	// Execute runs script as the body of a function in the page
	Execute(ctx context.Context, script string) error
	// Close releases the browser
	Close() error
}
