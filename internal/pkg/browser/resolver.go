package browser

import (
	"context"
	"time"
)

// DefaultProbeTimeout bounds a single matcher probe when the target does
// not set its own.
const DefaultProbeTimeout = 3 * time.Second

// Resolve walks the target's matchers in priority order and returns the
// first one with a visible element on the page. Probe errors on one
// candidate do not stop the walk; the next candidate is tried. The second
// return is false when no candidate matched.
func Resolve(ctx context.Context, session Session, target Target) (Matcher, bool) {
	timeout := target.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	for _, m := range target.Matchers {
		if ctx.Err() != nil {
			return Matcher{}, false
		}

		visible, err := session.Visible(ctx, m, timeout)
		if err != nil || !visible {
			continue
		}

		return m, true
	}

	return Matcher{}, false
}
