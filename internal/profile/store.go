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

package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tombee/codeconv/internal/config"
	codeconverrors "github.com/tombee/codeconv/pkg/errors"
)

// ErrNoProfile is returned by Load when nobody is logged in.
var ErrNoProfile = codeconverrors.New("no profile stored")

// Store reads and writes the profile file at a fixed path.
type Store struct {
	path   string
	tokens TokenStore
	logger *slog.Logger
}

// NewStore returns a store for path. A nil tokens keeps tokens inline.
func NewStore(path string, tokens TokenStore, logger *slog.Logger) *Store {
	if tokens == nil {
		tokens = FileStore{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, tokens: tokens, logger: logger}
}

// NewTokenStore picks the backend named by cfg. When the keychain is
// unavailable it falls back to the file store and logs a warning.
func NewTokenStore(backend string, logger *slog.Logger) TokenStore {
	if backend != config.StorageKeychain {
		return FileStore{}
	}
	ks := NewKeychainStore()
	if !ks.Available() {
		if logger != nil {
			logger.Warn("keychain unavailable, storing token in profile file")
		}
		return FileStore{}
	}
	return ks
}

// Path returns the profile file location.
func (s *Store) Path() string { return s.path }

// Load reads the profile and restores its token. It returns ErrNoProfile
// when the file does not exist.
func (s *Store) Load(ctx context.Context) (*Profile, error) {
	data, err := os.ReadFile(s.path)
	if codeconverrors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoProfile
	}
	if err != nil {
		return nil, codeconverrors.Wrap(err, "read profile")
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &codeconverrors.ValidationError{
			Field:      "profile",
			Message:    fmt.Sprintf("%s is not valid JSON: %v", s.path, err),
			Suggestion: "Run 'logout' and log in again",
		}
	}

	if err := s.tokens.Restore(ctx, &p); err != nil {
		if !codeconverrors.Is(err, ErrTokenNotFound) {
			return nil, codeconverrors.Wrap(err, "restore token")
		}
		s.logger.Debug("no stored token for profile", "store", s.tokens.Name())
	}
	return &p, nil
}

// LoadLoggedIn is Load, but any state short of a usable login is an
// *errors.AuthError.
func (s *Store) LoadLoggedIn(ctx context.Context) (*Profile, error) {
	p, err := s.Load(ctx)
	if codeconverrors.Is(err, ErrNoProfile) {
		return nil, &codeconverrors.AuthError{Reason: "not logged in"}
	}
	if err != nil {
		return nil, err
	}
	if !p.LoggedIn() {
		return nil, &codeconverrors.AuthError{Reason: "stored profile is incomplete"}
	}
	return p, nil
}

// Save writes p with 0600 permissions. The token is stashed first so the
// file never holds it when the keychain is in use. p is not modified.
func (s *Store) Save(ctx context.Context, p *Profile) error {
	if p == nil {
		return codeconverrors.New("nil profile")
	}
	out := *p
	if err := s.tokens.Stash(ctx, &out); err != nil {
		return codeconverrors.Wrap(err, "store token")
	}

	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return codeconverrors.Wrap(err, "encode profile")
	}
	if err := config.EnsureDir(s.path); err != nil {
		return codeconverrors.Wrap(err, "create profile directory")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".profile-*.json")
	if err != nil {
		return codeconverrors.Wrap(err, "write profile")
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return codeconverrors.Wrap(err, "write profile")
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return codeconverrors.Wrap(err, "write profile")
	}
	if err := tmp.Close(); err != nil {
		return codeconverrors.Wrap(err, "write profile")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return codeconverrors.Wrap(err, "write profile")
	}

	s.logger.Debug("profile saved", "path", s.path, "store", s.tokens.Name())
	return nil
}

// Delete removes the profile and its token. It reports false when there
// was nothing to remove.
func (s *Store) Delete(ctx context.Context) (bool, error) {
	p, err := s.Load(ctx)
	if codeconverrors.Is(err, ErrNoProfile) {
		return false, nil
	}
	if err == nil {
		if ferr := s.tokens.Forget(ctx, p); ferr != nil && !codeconverrors.Is(ferr, ErrTokenNotFound) {
			return false, codeconverrors.Wrap(ferr, "remove token")
		}
	} else {
		s.logger.Warn("profile unreadable, removing file only", "error", err)
	}

	if err := os.Remove(s.path); err != nil && !codeconverrors.Is(err, fs.ErrNotExist) {
		return false, codeconverrors.Wrap(err, "remove profile")
	}
	return true, nil
}
