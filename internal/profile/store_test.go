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
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	codeconverrors "github.com/tombee/codeconv/pkg/errors"
)

func sampleProfile() *Profile {
	return &Profile{
		ID:          "auth0|42",
		UserName:    "ada",
		Email:       "ada@example.com",
		AccessToken: "eyJhbGciOiJSUzI1NiJ9.payload.signature",
		ExpiresAt:   time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestProfile_LoggedIn(t *testing.T) {
	tests := []struct {
		name string
		p    *Profile
		want bool
	}{
		{"nil", nil, false},
		{"complete", sampleProfile(), true},
		{"no id", &Profile{UserName: "a", AccessToken: "t"}, false},
		{"no user name", &Profile{ID: "1", AccessToken: "t"}, false},
		{"no token", &Profile{ID: "1", UserName: "a"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.LoggedIn())
		})
	}
}

func TestProfile_Expired(t *testing.T) {
	p := sampleProfile()
	assert.False(t, p.Expired(p.ExpiresAt.Add(-time.Second)))
	assert.True(t, p.Expired(p.ExpiresAt))
	assert.False(t, (&Profile{}).Expired(time.Now()), "unknown expiry never expires")
}

func TestProfile_Masked(t *testing.T) {
	p := sampleProfile()
	m := p.Masked()

	assert.Equal(t, "...ture", m.AccessToken)
	assert.Equal(t, p.UserName, m.UserName)
	assert.Equal(t, "eyJhbGciOiJSUzI1NiJ9.payload.signature", p.AccessToken, "original untouched")
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "profile.json")
	store := NewStore(path, FileStore{}, nil)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleProfile()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk map[string]any
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.Equal(t, "ada", onDisk["userName"])
	assert.NotEmpty(t, onDisk["accessToken"], "file store keeps the token inline")

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleProfile(), got)
}

func TestKeychainStore_RoundTrip(t *testing.T) {
	keyring.MockInit()
	path := filepath.Join(t.TempDir(), "profile.json")
	ks := NewKeychainStore()
	require.True(t, ks.Available())
	store := NewStore(path, ks, nil)
	ctx := context.Background()

	in := sampleProfile()
	require.NoError(t, store.Save(ctx, in))
	assert.NotEmpty(t, in.AccessToken, "Save must not modify the caller's profile")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "signature", "token must not reach the file")

	secret, err := keyring.Get("codeconv", in.ID)
	require.NoError(t, err)
	assert.Equal(t, in.AccessToken, secret)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in.AccessToken, got.AccessToken)

	removed, err := store.Delete(ctx)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = keyring.Get("codeconv", in.ID)
	assert.ErrorIs(t, err, keyring.ErrNotFound)
	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestKeychainStore_MissingTokenLoadsIncompleteProfile(t *testing.T) {
	keyring.MockInit()
	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"id":"x","userName":"y"}`), 0o600))

	store := NewStore(path, NewKeychainStore(), nil)
	p, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, p.LoggedIn())

	_, err = store.LoadLoggedIn(context.Background())
	var authErr *codeconverrors.AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestKeychainStore_Unavailable(t *testing.T) {
	keyring.MockInitWithError(errors.New("dbus: connection refused"))
	ks := NewKeychainStore()
	assert.False(t, ks.Available())

	err := ks.Stash(context.Background(), sampleProfile())
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	assert.IsType(t, FileStore{}, NewTokenStore("keychain", nil), "falls back to the file store")
	keyring.MockInit()
}

func TestClassify(t *testing.T) {
	assert.ErrorIs(t, classify(keyring.ErrNotFound, "id"), ErrTokenNotFound)
	assert.ErrorIs(t, classify(errors.New("The keychain is Locked"), "id"), ErrStoreUnavailable)

	other := classify(errors.New("weird"), "id")
	assert.NotErrorIs(t, other, ErrStoreUnavailable)
	assert.Contains(t, other.Error(), "keychain error")
}

func TestNewTokenStore(t *testing.T) {
	keyring.MockInit()
	assert.IsType(t, FileStore{}, NewTokenStore("file", nil))
	assert.IsType(t, &KeychainStore{}, NewTokenStore("keychain", nil))
}

func TestStore_LoadMissing(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "none.json"), nil, nil)

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoProfile)

	_, err = store.LoadLoggedIn(context.Background())
	var authErr *codeconverrors.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "not logged in", authErr.Reason)

	removed, err := store.Delete(context.Background())
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o600))
	store := NewStore(path, nil, nil)

	_, err := store.Load(context.Background())
	var vErr *codeconverrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "profile", vErr.Field)

	removed, err := store.Delete(context.Background())
	require.NoError(t, err)
	assert.True(t, removed, "corrupt file is still removed")
}

func TestStore_SaveNil(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "p.json"), nil, nil)
	assert.Error(t, store.Save(context.Background(), nil))
}
