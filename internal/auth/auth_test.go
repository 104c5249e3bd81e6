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
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/codeconv/internal/config"
	codeconverrors "github.com/tombee/codeconv/pkg/errors"
)

type fakeProvider struct {
	tokenStatus int
	tokenBody   map[string]any
	audience    string
	clientID    string
}

func (p *fakeProvider) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/device/code", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		p.audience = r.Form.Get("audience")
		p.clientID = r.Form.Get("client_id")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"device_code":               "dev-123",
			"user_code":                 "ABCD-EFGH",
			"verification_uri":          "https://idp.example/activate",
			"verification_uri_complete": "https://idp.example/activate?user_code=ABCD-EFGH",
			"expires_in":                60,
			"interval":                  1,
		})
	})
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "dev-123", r.Form.Get("device_code"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(p.tokenStatus)
		_ = json.NewEncoder(w).Encode(p.tokenBody)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func flowFor(t *testing.T, srv *httptest.Server) *DeviceFlow {
	t.Helper()
	f, err := NewDeviceFlow(config.AuthConfig{
		ClientID:      "cli-id",
		DeviceAuthURL: srv.URL + "/oauth/device/code",
		TokenURL:      srv.URL + "/oauth/token",
		Audience:      "https://api.example",
		Scopes:        []string{"openid"},
	}, srv.Client(), nil)
	require.NoError(t, err)
	return f
}

func TestNewDeviceFlow_RequiresClientID(t *testing.T) {
	_, err := NewDeviceFlow(config.AuthConfig{DeviceAuthURL: "x", TokenURL: "y"}, nil, nil)
	var cfgErr *codeconverrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "auth.client_id", cfgErr.Key)

	_, err = NewDeviceFlow(config.AuthConfig{ClientID: "id"}, nil, nil)
	require.ErrorAs(t, err, &cfgErr)
}

func TestLogin_Success(t *testing.T) {
	p := &fakeProvider{
		tokenStatus: http.StatusOK,
		tokenBody:   map[string]any{"access_token": "at-1", "token_type": "Bearer", "expires_in": 3600},
	}
	f := flowFor(t, p.server(t))

	var out bytes.Buffer
	tok, err := f.Login(context.Background(), &out)
	require.NoError(t, err)

	assert.Equal(t, "at-1", tok.AccessToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.Expiry, time.Minute)
	assert.Equal(t, "https://api.example", p.audience)
	assert.Equal(t, "cli-id", p.clientID)
	assert.Contains(t, out.String(), "https://idp.example/activate?user_code=ABCD-EFGH")
	assert.Contains(t, out.String(), "ABCD-EFGH")
}

func TestLogin_Denied(t *testing.T) {
	p := &fakeProvider{
		tokenStatus: http.StatusForbidden,
		tokenBody:   map[string]any{"error": "access_denied", "error_description": "User refused"},
	}
	f := flowFor(t, p.server(t))

	var out bytes.Buffer
	_, err := f.Login(context.Background(), &out)

	var authErr *codeconverrors.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "login was denied", authErr.Reason)
}

func TestLogin_Cancelled(t *testing.T) {
	p := &fakeProvider{
		tokenStatus: http.StatusBadRequest,
		tokenBody:   map[string]any{"error": "authorization_pending"},
	}
	f := flowFor(t, p.server(t))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	var out bytes.Buffer
	_, err := f.Login(ctx, &out)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassify(t *testing.T) {
	assert.ErrorIs(t, classify("x", context.Canceled), context.Canceled)

	var timeoutErr *codeconverrors.TimeoutError
	assert.ErrorAs(t, classify("x", context.DeadlineExceeded), &timeoutErr)

	var apiErr *codeconverrors.APIError
	assert.ErrorAs(t, classify("device authorization", assert.AnError), &apiErr)
	assert.Equal(t, "device authorization", apiErr.Endpoint)
}

func TestClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "auth0|42",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Nickname: "ada",
		Email:    "ada@example.com",
	}).SignedString([]byte("irrelevant"))
	require.NoError(t, err)

	c, err := Claims(signed)
	require.NoError(t, err)
	assert.Equal(t, "auth0|42", c.Subject)
	assert.Equal(t, "ada", c.Nickname)
	assert.True(t, exp.Equal(c.Expiry()))
}

func TestClaims_Invalid(t *testing.T) {
	_, err := Claims("not-a-jwt")
	assert.Error(t, err)

	var nilClaims *TokenClaims
	assert.True(t, nilClaims.Expiry().IsZero())
}
