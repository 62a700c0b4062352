package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// ChromeSession drives a dedicated headless Chrome tab via the DevTools
// protocol. Each session owns its own browser process so concurrent
// searches cannot share page state.
type ChromeSession struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

// NewChromeSession launches a browser and returns a ready session. The
// parent context bounds the whole session lifetime.
func NewChromeSession(parent context.Context, headless bool) (*ChromeSession, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(userAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	// Force the browser to actually start so acquisition failures surface
	// here instead of on the first navigation.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()

		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}

	return &ChromeSession{
		ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
	}, nil
}

// NewChromeFactory returns a Factory producing one ChromeSession per call.
func NewChromeFactory(headless bool) Factory {
	return func(ctx context.Context) (Session, error) {
		return NewChromeSession(ctx, headless)
	}
}

// run executes actions on the session tab, honoring the caller's deadline
// and cancellation.
func (s *ChromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx := s.ctx

	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithDeadline(runCtx, deadline)
		defer cancel()
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return chromedp.Run(runCtx, actions...)
}

// query maps a matcher onto a chromedp query. A plain matcher is a CSS
// selector; a matcher with a text predicate becomes an XPath that scopes
// the text match to the selector's tag (or any element when unset).
func query(m Matcher) (string, chromedp.QueryOption) {
	if m.Text == "" {
		return m.Selector, chromedp.ByQuery
	}

	tag := m.Selector
	if tag == "" {
		tag = "*"
	}

	return fmt.Sprintf(`//%s[contains(normalize-space(.), %q)]`, tag, m.Text), chromedp.BySearch
}

func (s *ChromeSession) Navigate(ctx context.Context, url string) error {
	if err := s.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}

	return nil
}

func (s *ChromeSession) WaitReady(ctx context.Context, selector string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.run(ctx, chromedp.WaitReady(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("wait for %s: %w", selector, err)
	}

	return nil
}

func (s *ChromeSession) Visible(ctx context.Context, m Matcher, timeout time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sel, by := query(m)

	err := s.run(ctx, chromedp.WaitVisible(sel, by))
	if err != nil {
		// Not appearing in time is an expected outcome for a candidate probe.
		if errors.Is(err, context.DeadlineExceeded) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (s *ChromeSession) Click(ctx context.Context, m Matcher) error {
	sel, by := query(m)

	if err := s.run(ctx, chromedp.Click(sel, by)); err != nil {
		return fmt.Errorf("click %s: %w", sel, err)
	}

	return nil
}

func (s *ChromeSession) SetText(ctx context.Context, m Matcher, text string) error {
	sel, by := query(m)

	if err := s.run(ctx,
		chromedp.Clear(sel, by),
		chromedp.SendKeys(sel, text, by),
	); err != nil {
		return fmt.Errorf("set text on %s: %w", sel, err)
	}

	return nil
}

func (s *ChromeSession) SendKeys(ctx context.Context, m Matcher, keys string) error {
	sel, by := query(m)

	if err := s.run(ctx, chromedp.SendKeys(sel, keys, by)); err != nil {
		return fmt.Errorf("send keys to %s: %w", sel, err)
	}

	return nil
}

func (s *ChromeSession) HTML(ctx context.Context) (string, error) {
	var html string

	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read page markup: %w", err)
	}

	return html, nil
}

func (s *ChromeSession) CurrentURL(ctx context.Context) (string, error) {
	var url string

	if err := s.run(ctx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("read current url: %w", err)
	}

	return url, nil
}

// Close tears down the tab and the browser process. Safe to call on every
// exit path.
func (s *ChromeSession) Close(_ context.Context) error {
	s.cancel()
	s.allocCancel()

	return nil
}

// Key constants re-exported so callers do not import the kb package.
const (
	KeyEnter = kb.Enter
	KeyTab   = kb.Tab
)
