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
	"context"
	"errors"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var transientMessages = []string{
	"connection refused",
	"connection reset",
	"no such host",
	"network is unreachable",
	"temporary failure in name resolution",
	"eof",
}

// retryTransport retries transient failures with capped exponential backoff.
type retryTransport struct {
	base            http.RoundTripper
	attempts        int
	backoff         time.Duration
	maxBackoff      time.Duration
	retryAllMethods bool
}

func newRetryTransport(base http.RoundTripper, cfg Config) *retryTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &retryTransport{
		base:            base,
		attempts:        cfg.RetryAttempts + 1,
		backoff:         cfg.RetryBackoff,
		maxBackoff:      cfg.MaxBackoff,
		retryAllMethods: cfg.AllowNonIdempotentRetry,
	}
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !t.retryable(req) {
		return t.base.RoundTrip(req)
	}

	ctx := req.Context()
	var (
		resp *http.Response
		err  error
	)
	for attempt := 0; attempt < t.attempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, t.delay(attempt, resp)); err != nil {
				return nil, err
			}
			if req, err = rewind(req); err != nil {
				return nil, err
			}
		}

		resp, err = t.base.RoundTrip(req)
		switch {
		case err != nil && !retryableError(err):
			return nil, err
		case err == nil && !retryableStatus(resp.StatusCode):
			return resp, nil
		case attempt == t.attempts-1:
			return resp, err
		}
		if resp != nil {
			drain(resp)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return resp, err
}

func (t *retryTransport) retryable(req *http.Request) bool {
	switch strings.ToUpper(req.Method) {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	if !t.retryAllMethods {
		return false
	}
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}

// delay returns the wait before the given retry. A Retry-After shorter
// than the backoff wins.
func (t *retryTransport) delay(retry int, prev *http.Response) time.Duration {
	d := backoffFor(retry, t.backoff, t.maxBackoff)
	if prev != nil {
		if ra := retryAfter(prev); ra > 0 && ra < d {
			d = ra
		}
	}
	return d
}

// backoffFor computes base*2^(retry-1) capped at limit, plus up to 20% jitter.
func backoffFor(retry int, base, limit time.Duration) time.Duration {
	d := base
	for i := 1; i < retry && d < limit; i++ {
		d *= 2
	}
	if d > limit {
		d = limit
	}
	return d + time.Duration(rand.Float64()*0.2*float64(d))
}

func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(h); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(h); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

func retryableStatus(code int) bool {
	return code >= 500 || code == http.StatusRequestTimeout || code == http.StatusTooManyRequests
}

func retryableError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range transientMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func rewind(req *http.Request) (*http.Request, error) {
	if req.GetBody == nil {
		return req, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	out := req.Clone(req.Context())
	out.Body = body
	return out, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func drain(resp *http.Response) {
	if resp.Body != nil {
		resp.Body.Close()
	}
}
