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

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	codeconverrors "github.com/tombee/codeconv/pkg/errors"
)

// TokenClaims are the access token fields the CLI cares about.
type TokenClaims struct {
	jwt.RegisteredClaims
	Nickname string `json:"nickname,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Claims decodes the claims of a JWT access token without checking its
// signature.
func Claims(token string) (*TokenClaims, error) {
	var claims TokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, codeconverrors.Wrap(err, "decode access token")
	}
	return &claims, nil
}

// Expiry returns the exp claim, or the zero time when absent.
func (c *TokenClaims) Expiry() time.Time {
	if c == nil || c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
