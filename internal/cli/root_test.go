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

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/codeconv/internal/api"
	"github.com/tombee/codeconv/internal/handlers"
	"github.com/tombee/codeconv/internal/profile"
	"github.com/tombee/codeconv/pkg/command"
	"github.com/tombee/codeconv/pkg/httpclient"
)

type fakeActions struct {
	called string
	args   command.Args
	err    error
}

func (f *fakeActions) record(name string) command.Handler {
	return func(_ context.Context, args command.Args) error {
		f.called = name
		f.args = args
		return f.err
	}
}

func (f *fakeActions) Login(ctx context.Context, a command.Args) error {
	return f.record("login")(ctx, a)
}

func (f *fakeActions) Logout(ctx context.Context, a command.Args) error {
	return f.record("logout")(ctx, a)
}

func (f *fakeActions) ShowProfile(ctx context.Context, a command.Args) error {
	return f.record("show")(ctx, a)
}

func (f *fakeActions) Convert(ctx context.Context, a command.Args) error {
	return f.record("convert")(ctx, a)
}

func newTree(a Actions) (*command.Command, *bytes.Buffer) {
	out := &bytes.Buffer{}
	root := NewRootCommand(a, Options{
		Name:   "codeconv",
		Build:  BuildInfo{Version: "1.2.3", Commit: "abc123"},
		Out:    out,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return root, out
}

func TestRouting(t *testing.T) {
	tests := []struct {
		tokens []string
		want   string
	}{
		{[]string{"login"}, "login"},
		{[]string{"logout"}, "logout"},
		{[]string{"profile", "show"}, "show"},
		{[]string{"profile", "view"}, "show"},
		{[]string{"script", "convert", "--from", "bash", "--to", "ps", "-f", "a.sh"}, "convert"},
		{[]string{"script", "conv", "--file", "a.sh", "--to", "ps", "--from", "bash"}, "convert"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.tokens, " "), func(t *testing.T) {
			a := &fakeActions{}
			root, _ := newTree(a)

			code, err := root.Execute(context.Background(), tt.tokens)
			require.NoError(t, err)
			assert.Equal(t, command.ExitSuccess, code)
			assert.Equal(t, tt.want, a.called)
		})
	}
}

func TestConvertArgs(t *testing.T) {
	a := &fakeActions{}
	root, _ := newTree(a)

	code, err := root.Execute(context.Background(), []string{
		"script", "convert", "--from", "bash", "--to", "powershell", "-f", "in.sh", "-o", "out.ps1", "-d", "/tmp", "--force", "true",
	})
	require.NoError(t, err)
	require.Equal(t, command.ExitSuccess, code)

	file, _ := a.args.String(handlers.KeyFile)
	out, _ := a.args.String(handlers.KeyOutput)
	dir, _ := a.args.String(handlers.KeyDir)
	assert.Equal(t, "in.sh", file)
	assert.Equal(t, "out.ps1", out)
	assert.Equal(t, "/tmp", dir)
	assert.True(t, a.args.Bool(handlers.KeyForce))
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		tokens  []string
		wantMsg string
	}{
		{[]string{"script"}, "codeconv: Incorrect usage"},
		{[]string{"profile"}, "codeconv: Incorrect usage"},
		{[]string{"script", "convert"}, "codeconv: Incorrect usage"},
		{[]string{"script", "convert", "--from", "bash"}, "codeconv: Specify all the required options"},
		{[]string{"script", "translate"}, "codeconv: Unknown command translate"},
		{[]string{"--verbose"}, "codeconv: Unknown option --verbose"},
		{[]string{"script", "convert", "--force", "yes", "--from", "a", "--to", "b", "-f", "c"}, "'yes' is not a valid value for '--force'"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.tokens, " "), func(t *testing.T) {
			a := &fakeActions{}
			root, out := newTree(a)

			code, err := root.Execute(context.Background(), tt.tokens)
			require.NoError(t, err)
			assert.Equal(t, command.ExitFailure, code)
			assert.Contains(t, out.String(), tt.wantMsg)
			assert.Empty(t, a.called)
		})
	}
}

func TestRootVersionAndHelp(t *testing.T) {
	root, out := newTree(&fakeActions{})

	code, err := root.Execute(context.Background(), []string{"--version"})
	require.NoError(t, err)
	assert.Equal(t, command.ExitSuccess, code)
	assert.Equal(t, "codeconv 1.2.3 (abc123)\n", out.String())

	out.Reset()
	code, _ = root.Execute(context.Background(), []string{"-v", "true"})
	assert.Equal(t, command.ExitSuccess, code)
	assert.Contains(t, out.String(), "1.2.3")

	out.Reset()
	code, _ = root.Execute(context.Background(), nil)
	assert.Equal(t, command.ExitSuccess, code)
	help := out.String()
	assert.Contains(t, help, "Command: codeconv\n")
	assert.Contains(t, help, "Description: "+Description)
	for _, name := range []string{"login", "logout", "profile", "script"} {
		assert.Contains(t, help, "\n"+name)
	}
	assert.Contains(t, help, "--version | -v")
}

func TestConvertHelp(t *testing.T) {
	root, out := newTree(&fakeActions{})

	code, err := root.Execute(context.Background(), []string{"script", "conv", "--help"})
	require.NoError(t, err)
	assert.Equal(t, command.ExitSuccess, code)

	help := out.String()
	assert.Contains(t, help, "Command: codeconv script convert | conv")
	assert.Contains(t, help, "Usage: codeconv script convert <option>")
	assert.Contains(t, help, "[REQUIRED] Language of the input script")
	assert.Contains(t, help, "--file | -f")
	assert.Contains(t, help, "--help | -h")
}

func TestBuildInfoString(t *testing.T) {
	assert.Equal(t, "dev", BuildInfo{}.String())
	assert.Equal(t, "1.0", BuildInfo{Version: "1.0", Commit: "unknown"}.String())
	assert.Equal(t, "1.0 (c)", BuildInfo{Version: "1.0", Commit: "c"}.String())
}

func TestHandlerErrorsRenderHelp(t *testing.T) {
	a := &fakeActions{err: command.NewAppError("Directory specified does not exist")}
	root, out := newTree(a)

	code, err := root.Execute(context.Background(), []string{"script", "convert", "--from", "a", "--to", "b", "-f", "c", "-d", "nope"})
	require.NoError(t, err)
	assert.Equal(t, command.ExitFailure, code)
	assert.Contains(t, out.String(), "codeconv: Directory specified does not exist")
	assert.Contains(t, out.String(), "Command: codeconv script convert")
}

func TestFatalErrorPropagates(t *testing.T) {
	a := &fakeActions{err: command.NewCommandError("broken wiring", nil)}
	root, _ := newTree(a)

	code, err := root.Execute(context.Background(), []string{"login"})
	assert.Equal(t, command.ExitFailure, code)
	require.Error(t, err)
	assert.True(t, command.IsFatal(err))
	assert.Contains(t, err.Error(), "codeconv login")
}

// TestConvertEndToEnd runs the real handlers against a fake service.
func TestConvertEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ScriptConvertGemini" || r.Header.Get("Authorization") != "Bearer tok-e2e" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req api.ConvertRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "# " + req.Target + "\n" + req.Content + "\n"})
	}))
	defer srv.Close()

	cfg := httpclient.DefaultConfig()
	cfg.RateLimit = 0
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	hc, err := httpclient.New(cfg)
	require.NoError(t, err)
	client, err := api.New(hc, srv.URL, nil)
	require.NoError(t, err)

	tmp := t.TempDir()
	store := profile.NewStore(filepath.Join(tmp, "profile.json"), profile.FileStore{}, nil)
	require.NoError(t, store.Save(context.Background(), &profile.Profile{ID: "1", UserName: "ada", AccessToken: "tok-e2e"}))

	script := filepath.Join(tmp, "in.sh")
	require.NoError(t, os.WriteFile(script, []byte("echo hi"), 0o600))

	out := &bytes.Buffer{}
	h := handlers.New(handlers.Options{Service: client, Profiles: store, Out: out})
	root := NewRootCommand(h, Options{Name: "codeconv", Out: out})

	code, err := root.Execute(context.Background(), []string{
		"script", "conv", "--from", "bash", "--to", "powershell", "-f", script, "-o", "out.ps1", "-d", tmp,
	})
	require.NoError(t, err)
	require.Equal(t, command.ExitSuccess, code, out.String())

	data, err := os.ReadFile(filepath.Join(tmp, "out.ps1"))
	require.NoError(t, err)
	assert.Equal(t, "# powershell\necho hi", string(data))
	assert.Contains(t, out.String(), "Converted powershell script written to "+filepath.Join(tmp, "out.ps1"))

	out.Reset()
	code, err = root.Execute(context.Background(), []string{"logout"})
	require.NoError(t, err)
	assert.Equal(t, command.ExitSuccess, code)

	out.Reset()
	code, err = root.Execute(context.Background(), []string{"profile", "show"})
	require.NoError(t, err)
	assert.Equal(t, command.ExitFailure, code)
	assert.Contains(t, out.String(), "codeconv: "+handlers.MsgLoginRequired)
	assert.Contains(t, out.String(), "Suggestion: Run 'login' to authenticate")
}
