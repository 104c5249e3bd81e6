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

// Package profile persists the logged-in user's profile and access token.
//
// The profile itself is a small JSON document written with owner-only
// permissions. The access token is handed to a TokenStore, which either
// keeps it in the operating system keychain or leaves it inline in the
// profile file.
package profile

import (
	"time"

	"github.com/tombee/codeconv/internal/log"
)

// Profile describes the signed-in user.
type Profile struct {
	ID          string    `json:"id"`
	UserName    string    `json:"userName"`
	Email       string    `json:"email,omitempty"`
	AccessToken string    `json:"accessToken,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt,omitzero"`
}

// LoggedIn reports whether p carries an identity and a token.
func (p *Profile) LoggedIn() bool {
	return p != nil && p.ID != "" && p.UserName != "" && p.AccessToken != ""
}

// Expired reports whether the token has a known expiry at or before now.
func (p *Profile) Expired(now time.Time) bool {
	return p != nil && !p.ExpiresAt.IsZero() && !now.Before(p.ExpiresAt)
}

// Masked returns a copy of p that is safe to print.
func (p *Profile) Masked() Profile {
	if p == nil {
		return Profile{}
	}
	out := *p
	if out.AccessToken != "" {
		out.AccessToken = log.SanitizeToken(out.AccessToken)
	}
	return out
}
