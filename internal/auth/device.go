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

// Package auth implements the OAuth 2.0 device authorization login.
package auth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/tombee/codeconv/internal/config"
	"github.com/tombee/codeconv/internal/ui"
	codeconverrors "github.com/tombee/codeconv/pkg/errors"
)

// Token is the result of a successful login.
type Token struct {
	AccessToken string
	Expiry      time.Time
}

// DeviceFlow runs the device authorization grant against one provider.
type DeviceFlow struct {
	oauth    *oauth2.Config
	audience string
	http     *http.Client
	logger   *slog.Logger
}

// NewDeviceFlow validates cfg and returns a flow that sends its requests
// through httpClient.
func NewDeviceFlow(cfg config.AuthConfig, httpClient *http.Client, logger *slog.Logger) (*DeviceFlow, error) {
	if cfg.ClientID == "" {
		return nil, &codeconverrors.ConfigError{
			Key:    "auth.client_id",
			Reason: "a client id is required to log in (set CODECONV_CLIENT_ID)",
		}
	}
	if cfg.DeviceAuthURL == "" || cfg.TokenURL == "" {
		return nil, &codeconverrors.ConfigError{
			Key:    "auth.device_auth_url",
			Reason: "device authorization and token URLs are required",
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DeviceFlow{
		oauth: &oauth2.Config{
			ClientID: cfg.ClientID,
			Scopes:   cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				DeviceAuthURL: cfg.DeviceAuthURL,
				TokenURL:      cfg.TokenURL,
				AuthStyle:     oauth2.AuthStyleInParams,
			},
		},
		audience: cfg.Audience,
		http:     httpClient,
		logger:   logger,
	}, nil
}

// Login starts a device authorization, tells the user where to approve it
// on w, and waits until the provider issues a token, refuses, or ctx ends.
func (f *DeviceFlow) Login(ctx context.Context, w io.Writer) (*Token, error) {
	if f.http != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, f.http)
	}

	var opts []oauth2.AuthCodeOption
	if f.audience != "" {
		opts = append(opts, oauth2.SetAuthURLParam("audience", f.audience))
	}

	da, err := f.oauth.DeviceAuth(ctx, opts...)
	if err != nil {
		return nil, classify("device authorization", err)
	}
	f.logger.Debug("device authorization started", "expires", da.Expiry, "interval", da.Interval)

	writePrompt(w, da)

	tok, err := f.oauth.DeviceAccessToken(ctx, da)
	if err != nil {
		return nil, classify("token exchange", err)
	}

	return &Token{AccessToken: tok.AccessToken, Expiry: tok.Expiry}, nil
}

func writePrompt(w io.Writer, da *oauth2.DeviceAuthResponse) {
	s := ui.NewStyles(w)
	uri := da.VerificationURIComplete
	if uri == "" {
		uri = da.VerificationURI
	}
	fmt.Fprintln(w, s.Header.Render("Log in to codeconv"))
	fmt.Fprintf(w, "%s %s\n", s.RenderLabel("Open:"), s.Info.Render(uri))
	if da.UserCode != "" {
		fmt.Fprintf(w, "%s %s\n", s.RenderLabel("Code:"), s.Bold.Render(da.UserCode))
	}
	fmt.Fprintln(w, s.Muted.Render("Waiting for approval..."))
}

func classify(step string, err error) error {
	if codeconverrors.Is(err, context.Canceled) {
		return err
	}
	if codeconverrors.Is(err, context.DeadlineExceeded) {
		return &codeconverrors.TimeoutError{Operation: "login", Cause: err}
	}

	var re *oauth2.RetrieveError
	if codeconverrors.As(err, &re) {
		switch re.ErrorCode {
		case "access_denied":
			return &codeconverrors.AuthError{Reason: "login was denied", Cause: err}
		case "expired_token":
			return &codeconverrors.AuthError{Reason: "login code expired before it was approved", Cause: err}
		}
		status := 0
		if re.Response != nil {
			status = re.Response.StatusCode
		}
		msg := re.ErrorDescription
		if msg == "" {
			msg = re.ErrorCode
		}
		return &codeconverrors.APIError{Endpoint: step, StatusCode: status, Message: msg, Cause: err}
	}
	return &codeconverrors.APIError{Endpoint: step, Message: "request failed", Cause: err}
}
