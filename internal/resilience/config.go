package resilience

import (
	"time"

	"github.com/sells-group/lead-cli/internal/config"
)

// FromConfig builds a Policy from the retry settings. Unset values keep the
// Once defaults, so an unconfigured policy stays at a single attempt.
func FromConfig(c config.RetryConfig) Policy {
	p := Once()
	if c.MaxAttempts > 0 {
		p.Attempts = c.MaxAttempts
	}
	if c.InitialBackoffMs > 0 {
		p.Backoff = time.Duration(c.InitialBackoffMs) * time.Millisecond
	}
	if c.MaxBackoffMs > 0 {
		p.MaxBackoff = time.Duration(c.MaxBackoffMs) * time.Millisecond
	}
	if c.Multiplier > 0 {
		p.Multiplier = c.Multiplier
	}
	if c.JitterFraction >= 0 {
		p.Jitter = c.JitterFraction
	}
	return p
}
