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

package handlers

import (
	"context"
	"fmt"

	"github.com/tombee/codeconv/internal/auth"
	"github.com/tombee/codeconv/internal/profile"
	"github.com/tombee/codeconv/internal/ui"
	"github.com/tombee/codeconv/pkg/command"
	codeconverrors "github.com/tombee/codeconv/pkg/errors"
)

// Login runs the device flow, looks up the user and stores the profile.
func (h *Handlers) Login(ctx context.Context, _ command.Args) error {
	s := ui.NewStyles(h.out)

	if current, err := h.profiles.Load(ctx); err == nil && current.LoggedIn() && !current.Expired(h.now()) {
		fmt.Fprintln(h.out, s.RenderWarn(fmt.Sprintf("Already logged in as %s, logging in again", current.UserName)))
	}

	tok, err := h.auth.Login(ctx, h.out)
	if err != nil {
		return loginError(err)
	}

	info, err := h.service.UserInfo(ctx, tok.AccessToken)
	if err != nil {
		return loginError(err)
	}

	p := &profile.Profile{
		UserName:    info.UserName,
		Email:       info.Email,
		AccessToken: tok.AccessToken,
		ExpiresAt:   tok.Expiry,
	}
	if claims, err := auth.Claims(tok.AccessToken); err == nil {
		p.ID = claims.Subject
		if p.ExpiresAt.IsZero() {
			p.ExpiresAt = claims.Expiry()
		}
	} else {
		h.logger.Debug("access token is not a JWT", "error", err)
	}
	if p.ID == "" {
		p.ID = firstNonEmpty(info.Email, info.UserName)
	}
	if !p.LoggedIn() {
		return command.NewAppError("The identity provider returned an incomplete profile")
	}

	if err := h.profiles.Save(ctx, p); err != nil {
		return command.WrapAppError(err)
	}

	fmt.Fprintln(h.out, s.RenderOK("Logged in as "+p.UserName))
	return nil
}

// Logout removes the stored profile and token.
func (h *Handlers) Logout(ctx context.Context, _ command.Args) error {
	removed, err := h.profiles.Delete(ctx)
	if err != nil {
		return command.WrapAppError(err)
	}
	s := ui.NewStyles(h.out)
	if !removed {
		fmt.Fprintln(h.out, s.RenderWarn("You are not logged in"))
		return nil
	}
	fmt.Fprintln(h.out, s.RenderOK("Logged out"))
	return nil
}

func loginError(err error) error {
	if codeconverrors.Is(err, context.Canceled) {
		return command.NewAppError("Login cancelled")
	}
	var (
		authErr    *codeconverrors.AuthError
		timeoutErr *codeconverrors.TimeoutError
	)
	switch {
	case codeconverrors.As(err, &authErr):
		return command.NewAppError("Login failed: " + authErr.Reason)
	case codeconverrors.As(err, &timeoutErr):
		return &command.AppError{Message: "Login timed out", Cause: err}
	default:
		return &command.AppError{Message: "Login failed: " + err.Error(), Cause: err}
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
