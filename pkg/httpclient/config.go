// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package httpclient

import (
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// RequestIDHeader carries the per-request identifier sent to the server.
const RequestIDHeader = "X-Request-ID"

// Config configures timeout, retry, rate limiting and logging.
type Config struct {
	// Timeout bounds a whole request, retries included. Must be > 0.
	Timeout time.Duration

	// RetryAttempts is the number of retries after the first try.
	RetryAttempts int

	// RetryBackoff is the delay before the first retry.
	RetryBackoff time.Duration

	// MaxBackoff caps the delay between retries.
	MaxBackoff time.Duration

	// UserAgent is sent when the request does not set its own.
	UserAgent string

	// AllowNonIdempotentRetry enables retrying POST, PUT, PATCH and DELETE.
	AllowNonIdempotentRetry bool

	// RateLimit is the steady request rate. Zero disables limiting.
	RateLimit rate.Limit

	// RateBurst is the bucket size used with RateLimit.
	RateBurst int

	// Logger receives request logs. Nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the settings used by the CLI.
func DefaultConfig() Config {
	return Config{
		Timeout:       30 * time.Second,
		RetryAttempts: 2,
		RetryBackoff:  200 * time.Millisecond,
		MaxBackoff:    5 * time.Second,
		UserAgent:     "codeconv-http-client/1.0",
		RateLimit:     rate.Limit(5),
		RateBurst:     5,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Timeout <= 0:
		return fmt.Errorf("timeout must be > 0, got %v", c.Timeout)
	case c.RetryAttempts < 0:
		return fmt.Errorf("retry_attempts must be >= 0, got %d", c.RetryAttempts)
	case c.RetryAttempts > 0 && c.RetryBackoff <= 0:
		return fmt.Errorf("retry_backoff must be > 0 when retry_attempts > 0, got %v", c.RetryBackoff)
	case c.RetryAttempts > 0 && c.MaxBackoff < c.RetryBackoff:
		return fmt.Errorf("max_backoff (%v) must be >= retry_backoff (%v)", c.MaxBackoff, c.RetryBackoff)
	case c.UserAgent == "":
		return fmt.Errorf("user_agent is required and must be non-empty")
	case c.RateLimit < 0:
		return fmt.Errorf("rate_limit must be >= 0, got %v", c.RateLimit)
	case c.RateLimit > 0 && c.RateBurst <= 0:
		return fmt.Errorf("rate_burst must be > 0 when rate_limit is set, got %d", c.RateBurst)
	}
	return nil
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
