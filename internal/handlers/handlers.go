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

// Package handlers implements the codeconv commands on top of the API
// client, the login flow and the profile store.
package handlers

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/tombee/codeconv/internal/api"
	"github.com/tombee/codeconv/internal/auth"
	"github.com/tombee/codeconv/internal/profile"
	"github.com/tombee/codeconv/internal/ui"
	codeconverrors "github.com/tombee/codeconv/pkg/errors"
)

// Messages shown to the user.
const (
	MsgLoginRequired   = "You have to be logged in to run this command"
	MsgDirNotFound     = "Directory specified does not exist"
	MsgContentTooLarge = "Maximum content length exceeded"
	MsgConvertFailed   = "Error converting script"
	MsgTryAgain        = "the service is temporarily unavailable, try again later"
)

// DefaultMaxContentLength is the script size limit, in characters.
const DefaultMaxContentLength = 8192

// Service is the remote conversion service.
type Service interface {
	ConvertScript(ctx context.Context, token string, req api.ConvertRequest) (string, error)
	UserInfo(ctx context.Context, token string) (*api.UserInfo, error)
}

// Authenticator obtains an access token interactively.
type Authenticator interface {
	Login(ctx context.Context, w io.Writer) (*auth.Token, error)
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(ctx context.Context, w io.Writer) (*auth.Token, error)

func (f AuthenticatorFunc) Login(ctx context.Context, w io.Writer) (*auth.Token, error) {
	return f(ctx, w)
}

// Unavailable returns an Authenticator that always fails with err. It
// stands in when the login flow could not be configured.
func Unavailable(err error) Authenticator {
	return AuthenticatorFunc(func(context.Context, io.Writer) (*auth.Token, error) {
		return nil, err
	})
}

// ProfileStore persists the logged-in profile.
type ProfileStore interface {
	Load(ctx context.Context) (*profile.Profile, error)
	LoadLoggedIn(ctx context.Context) (*profile.Profile, error)
	Save(ctx context.Context, p *profile.Profile) error
	Delete(ctx context.Context) (bool, error)
}

// Options wires a Handlers.
type Options struct {
	Service  Service
	Auth     Authenticator
	Profiles ProfileStore

	// Confirm asks before an existing output file is replaced. Nil means
	// overwriting always needs --force.
	Confirm ui.Confirmer

	MaxContentLength int

	Out    io.Writer
	Logger *slog.Logger

	// Now and Getwd are overridable for tests.
	Now   func() time.Time
	Getwd func() (string, error)
}

// Handlers holds the command implementations.
type Handlers struct {
	service  Service
	auth     Authenticator
	profiles ProfileStore
	confirm  ui.Confirmer
	maxLen   int
	out      io.Writer
	logger   *slog.Logger
	now      func() time.Time
	getwd    func() (string, error)
}

// New builds Handlers from opts, filling defaults for optional fields.
func New(opts Options) *Handlers {
	h := &Handlers{
		service:  opts.Service,
		auth:     opts.Auth,
		profiles: opts.Profiles,
		confirm:  opts.Confirm,
		maxLen:   opts.MaxContentLength,
		out:      opts.Out,
		logger:   opts.Logger,
		now:      opts.Now,
		getwd:    opts.Getwd,
	}
	if h.maxLen <= 0 {
		h.maxLen = DefaultMaxContentLength
	}
	if h.out == nil {
		h.out = os.Stdout
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.getwd == nil {
		h.getwd = os.Getwd
	}
	return h
}

// requireLogin loads a usable profile or fails with an AuthError carrying
// the login-required message.
func (h *Handlers) requireLogin(ctx context.Context) (*profile.Profile, error) {
	p, err := h.profiles.LoadLoggedIn(ctx)
	if err != nil {
		var authErr *codeconverrors.AuthError
		if codeconverrors.As(err, &authErr) {
			return nil, &codeconverrors.AuthError{Reason: MsgLoginRequired, Cause: err}
		}
		return nil, err
	}
	if p.Expired(h.now()) {
		return nil, &codeconverrors.AuthError{Reason: "Your session has expired"}
	}
	return p, nil
}
