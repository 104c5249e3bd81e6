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

// Package httpclient builds the HTTP client used to reach the conversion
// service and the identity provider.
//
// Clients are assembled from stacked round trippers:
//
//	retry -> rate limit -> request ID + logging -> net/http transport
//
// Each request gets a User-Agent and an X-Request-ID header, is logged
// with a sanitized URL, and is retried on transient failures with
// exponential backoff and jitter.
//
// # Usage
//
//	cfg := httpclient.DefaultConfig()
//	cfg.UserAgent = "codeconv/" + version
//	cfg.Logger = logger
//	client, err := httpclient.New(cfg)
//	if err != nil {
//	    return err
//	}
//
// # Retry Behavior
//
// Transport errors (refused or reset connections, DNS failures, timeouts)
// and the statuses 408, 429 and 5xx are retried. Other 4xx responses are
// returned as-is. Only GET, HEAD and OPTIONS are retried unless
// AllowNonIdempotentRetry is set, in which case the request body is
// replayed through Request.GetBody.
//
// A Retry-After header shortens the wait when it asks for less time than
// the computed backoff.
//
// # Security
//
// Query parameters whose names look like credentials are redacted before
// a URL is logged. Header values are never logged.
package httpclient
