// Package browser wraps page access behind a small capability interface so
// the search flow can be exercised against a fake page in tests and against
// a real headless Chrome in production.
package browser

import (
	"context"
	"time"
)

// Matcher is one way of locating a logical UI target: a CSS selector plus
// an optional substring the element text must contain. Targets carry an
// ordered list of matchers because the site's markup is unversioned and
// drifts.
type Matcher struct {
	Selector string
	Text     string
}

// Target is a logical UI element (origin field, submit button, ...) with
// its matcher candidates in priority order. Timeout bounds the wait per
// candidate probe.
type Target struct {
	Name     string
	Matchers []Matcher
	Timeout  time.Duration
}

// Session is the page-fetcher capability. One session drives exactly one
// logical search; sessions are never shared between concurrent searches.
type Session interface {
	Navigate(ctx context.Context, url string) error
	// WaitReady waits until an element matching selector exists, up to
	// timeout. A timeout is reported as an error; callers that can degrade
	// gracefully ignore it.
	WaitReady(ctx context.Context, selector string, timeout time.Duration) error
	// Visible probes for a visible element within timeout. Not finding one
	// is (false, nil), not an error.
	Visible(ctx context.Context, m Matcher, timeout time.Duration) (bool, error)
	Click(ctx context.Context, m Matcher) error
	// SetText clears the matched input and types text into it.
	SetText(ctx context.Context, m Matcher, text string) error
	// SendKeys types keys into the matched element without clearing it.
	SendKeys(ctx context.Context, m Matcher, keys string) error
	HTML(ctx context.Context) (string, error)
	CurrentURL(ctx context.Context) (string, error)
	Close(ctx context.Context) error
}

// Factory opens a fresh session. The orchestrator calls it once per search
// and guarantees Close on every path.
type Factory func(ctx context.Context) (Session, error)
