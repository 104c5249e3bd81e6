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
	"net/url"
	"strings"
)

// redactedValue replaces sensitive query values in logged URLs.
const redactedValue = "[REDACTED]"

// credentialMarkers are matched case-insensitively as substrings of query
// parameter names.
var credentialMarkers = []string{
	"token",
	"password",
	"secret",
	"key",
	"auth",
	"credential",
	"code",
}

// sanitizeURL renders u for logs with credential-like query values and any
// userinfo removed.
func sanitizeURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	safe := *u
	safe.User = nil
	if safe.RawQuery != "" {
		q := safe.Query()
		for name := range q {
			if looksSensitive(name) {
				q.Set(name, redactedValue)
			}
		}
		safe.RawQuery = q.Encode()
	}
	return safe.String()
}

func looksSensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, m := range credentialMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
