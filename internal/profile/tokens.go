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
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	codeconverrors "github.com/tombee/codeconv/pkg/errors"
)

var (
	// ErrTokenNotFound is returned when no token is stored for a profile.
	ErrTokenNotFound = codeconverrors.New("token not found")

	// ErrStoreUnavailable is returned when the backend cannot be reached.
	ErrStoreUnavailable = codeconverrors.New("token store unavailable")
)

// TokenStore moves access tokens between a Profile and durable storage.
//
// Stash is called before the profile is written and may clear
// p.AccessToken once the token is stored elsewhere. Restore fills it back
// in after the profile is read. Forget removes whatever Stash stored.
type TokenStore interface {
	Name() string
	Stash(ctx context.Context, p *Profile) error
	Restore(ctx context.Context, p *Profile) error
	Forget(ctx context.Context, p *Profile) error
}

// FileStore keeps the token inline in the profile file.
type FileStore struct{}

func (FileStore) Name() string { return "file" }

func (FileStore) Stash(context.Context, *Profile) error { return nil }

func (FileStore) Restore(context.Context, *Profile) error { return nil }

func (FileStore) Forget(context.Context, *Profile) error { return nil }

const (
	keychainService = "codeconv"
	probeAccount    = "__codeconv_availability_probe__"
)

// KeychainStore keeps tokens in the system keychain (macOS Keychain,
// Secret Service on Linux, Windows Credential Manager), keyed by profile ID.
type KeychainStore struct {
	service   string
	available bool
}

// NewKeychainStore probes the keychain once with a lookup for an account
// that never exists. Any failure other than "not found" marks the store
// unavailable.
func NewKeychainStore() *KeychainStore {
	s := &KeychainStore{service: keychainService, available: true}
	if _, err := keyring.Get(s.service, probeAccount); err != nil && !codeconverrors.Is(err, keyring.ErrNotFound) {
		s.available = false
	}
	return s
}

func (s *KeychainStore) Name() string { return "keychain" }

// Available reports whether the keychain answered the startup probe.
func (s *KeychainStore) Available() bool { return s.available }

func (s *KeychainStore) Stash(_ context.Context, p *Profile) error {
	if err := s.check(p); err != nil {
		return err
	}
	if p.AccessToken == "" {
		return nil
	}
	if err := keyring.Set(s.service, p.ID, p.AccessToken); err != nil {
		return classify(err, p.ID)
	}
	p.AccessToken = ""
	return nil
}

func (s *KeychainStore) Restore(_ context.Context, p *Profile) error {
	if err := s.check(p); err != nil {
		return err
	}
	if p.AccessToken != "" {
		return nil
	}
	token, err := keyring.Get(s.service, p.ID)
	if err != nil {
		return classify(err, p.ID)
	}
	p.AccessToken = token
	return nil
}

func (s *KeychainStore) Forget(_ context.Context, p *Profile) error {
	if err := s.check(p); err != nil {
		return err
	}
	if err := keyring.Delete(s.service, p.ID); err != nil {
		return classify(err, p.ID)
	}
	return nil
}

func (s *KeychainStore) check(p *Profile) error {
	if !s.available {
		return fmt.Errorf("%w: keychain service unavailable", ErrStoreUnavailable)
	}
	if p == nil || p.ID == "" {
		return codeconverrors.New("profile has no id")
	}
	return nil
}

var unavailableIndicators = []string{
	"locked",
	"cannot access",
	"permission denied",
	"failed to unlock",
	"user interaction required",
	"secret service",
	"dbus",
	"user canceled",
}

func classify(err error, id string) error {
	if codeconverrors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrTokenNotFound, id)
	}
	msg := strings.ToLower(err.Error())
	for _, ind := range unavailableIndicators {
		if strings.Contains(msg, ind) {
			return fmt.Errorf("%w: %s", ErrStoreUnavailable, err.Error())
		}
	}
	return codeconverrors.Wrap(err, "keychain error")
}
