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
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/tombee/codeconv/internal/handlers"
	"github.com/tombee/codeconv/pkg/command"
)

// Description is the root command's description.
const Description = "A CLI tool for language conversion"

// Actions are the operations the tree dispatches to.
type Actions interface {
	Login(ctx context.Context, args command.Args) error
	Logout(ctx context.Context, args command.Args) error
	ShowProfile(ctx context.Context, args command.Args) error
	Convert(ctx context.Context, args command.Args) error
}

var _ Actions = (*handlers.Handlers)(nil)

// BuildInfo is stamped into the binary at link time.
type BuildInfo struct {
	Version string
	Commit  string
}

func (b BuildInfo) String() string {
	v := b.Version
	if v == "" {
		v = "dev"
	}
	if b.Commit == "" || b.Commit == "unknown" {
		return v
	}
	return fmt.Sprintf("%s (%s)", v, b.Commit)
}

// Options configure NewRootCommand.
type Options struct {
	// Name overrides the root name, which defaults to the executable name.
	Name string

	Build  BuildInfo
	Out    io.Writer
	Logger *slog.Logger
}

// NewRootCommand returns the full command tree wired to actions.
func NewRootCommand(actions Actions, opts Options) *command.Command {
	version := command.NewOption[bool]([]string{"--version", "-v"}, "Show version information")
	settings := []command.Setting{command.WithOptions(version)}
	if opts.Name != "" {
		settings = append(settings, command.WithName(opts.Name))
	}
	root := command.NewRoot(Description, settings...)

	root.SetHandler(func(_ context.Context, args command.Args) error {
		if args.Bool(version.Key()) {
			fmt.Fprintf(root.OutOrStdout(), "%s %s\n", root.Name(), opts.Build)
			return nil
		}
		root.Help("")
		return nil
	})

	if opts.Out != nil {
		root.SetOutput(opts.Out)
	}
	if opts.Logger != nil {
		root.SetLogger(opts.Logger)
	}

	root.AddCommands(
		newLoginCommand(actions),
		newLogoutCommand(actions),
		newProfileCommand(actions),
		newScriptCommand(actions),
	)
	return root
}
