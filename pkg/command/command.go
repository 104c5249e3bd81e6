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

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/tombee/codeconv/internal/log"
)

// Exit codes returned by Execute.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

const helpKey = "help"

// Handler runs a command with its resolved options. args is nil when the
// command was invoked without any tokens.
type Handler func(ctx context.Context, args Args) error

// Setting configures a Command at construction.
type Setting func(*Command)

// WithAliases adds alternate spellings for the command name.
func WithAliases(aliases ...string) Setting {
	return func(c *Command) {
		for _, a := range aliases {
			if strings.TrimSpace(a) == "" || a == c.name || slices.Contains(c.aliases, a) {
				panic(fmt.Sprintf("command: invalid alias %q for %q", a, c.name))
			}
			c.aliases = append(c.aliases, a)
		}
	}
}

// WithRequiresSelection makes a bare invocation an error: the user must pick a
// subcommand or pass options.
func WithRequiresSelection() Setting {
	return func(c *Command) { c.requiresSelection = true }
}

// WithHandler sets the command handler.
func WithHandler(h Handler) Setting {
	return func(c *Command) { c.handler = h }
}

// WithOptions declares options on the command.
func WithOptions(opts ...Option) Setting {
	return func(c *Command) { c.AddOptions(opts...) }
}

// WithName overrides the command name. Mostly useful for roots.
func WithName(name string) Setting {
	return func(c *Command) {
		if strings.TrimSpace(name) == "" {
			panic("command: empty name")
		}
		c.name = name
	}
}

// Command is one node of the command tree. Build the tree once at startup;
// it is read-only while Execute runs.
type Command struct {
	name              string
	aliases           []string
	description       string
	requiresSelection bool

	help     *TypedOption[bool]
	options  []Option
	children []*Command

	// parent is set once by AddCommands and only read afterwards.
	parent *Command
	root   bool

	handler Handler

	out    io.Writer
	logger *slog.Logger
}

// New creates a command node. It panics when name is empty.
func New(name, description string, settings ...Setting) *Command {
	if strings.TrimSpace(name) == "" {
		panic("command: empty name")
	}

	c := &Command{
		name:        name,
		description: description,
		help:        NewOption[bool]([]string{"--help", "-h"}, "Display this help text"),
	}
	for _, apply := range settings {
		apply(c)
	}
	return c
}

// Name returns the command name.
func (c *Command) Name() string { return c.name }

// Aliases returns the alternate spellings of the command name.
func (c *Command) Aliases() []string { return append([]string(nil), c.aliases...) }

// Description returns the command description.
func (c *Command) Description() string { return c.description }

// RequiresSelection reports whether a bare invocation is a usage error.
func (c *Command) RequiresSelection() bool { return c.requiresSelection }

// Parent returns the parent command, or nil for the top of the tree.
func (c *Command) Parent() *Command { return c.parent }

// Commands returns the child commands in declaration order.
func (c *Command) Commands() []*Command { return append([]*Command(nil), c.children...) }

// Options returns the declared options followed by the implicit help option.
func (c *Command) Options() []Option {
	out := make([]Option, 0, len(c.options)+1)
	out = append(out, c.options...)
	return append(out, c.help)
}

// Root walks parent references to the top of the tree.
func (c *Command) Root() *Command {
	n := c
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// SetHandler replaces the command handler.
func (c *Command) SetHandler(h Handler) { c.handler = h }

// SetOutput sets where help is written. Children without their own output
// inherit it.
func (c *Command) SetOutput(w io.Writer) { c.out = w }

// SetLogger sets the logger used for dispatch tracing. Children without their
// own logger inherit it.
func (c *Command) SetLogger(l *slog.Logger) { c.logger = l }

// OutOrStdout returns the nearest configured output, or os.Stdout.
func (c *Command) OutOrStdout() io.Writer {
	for n := c; n != nil; n = n.parent {
		if n.out != nil {
			return n.out
		}
	}
	return os.Stdout
}

func (c *Command) log() *slog.Logger {
	for n := c; n != nil; n = n.parent {
		if n.logger != nil {
			return n.logger
		}
	}
	return slog.Default()
}

// AddOptions declares options. It panics when a spelling or canonical key is
// already taken on this command.
func (c *Command) AddOptions(opts ...Option) {
	for _, opt := range opts {
		if opt == nil {
			panic(fmt.Sprintf("command: nil option on %q", c.name))
		}
		for _, existing := range c.Options() {
			if existing.Key() == opt.Key() {
				panic(fmt.Sprintf("command: option key %q redefined on %q", opt.Key(), c.name))
			}
			for _, n := range opt.Names() {
				if slices.Contains(existing.Names(), n) {
					panic(fmt.Sprintf("command: option %s redefined on %q", n, c.name))
				}
			}
		}
		c.options = append(c.options, opt)
	}
}

// AddCommands attaches children and sets their parent. It panics when a child
// already has a parent, is a root, would create a cycle, or collides with a
// sibling name or alias.
func (c *Command) AddCommands(children ...*Command) {
	for _, child := range children {
		switch {
		case child == nil:
			panic(fmt.Sprintf("command: nil subcommand on %q", c.name))
		case child.root:
			panic(fmt.Sprintf("command: cannot attach root %q to %q", child.name, c.name))
		case child.parent != nil:
			panic(fmt.Sprintf("command: %q already attached to %q", child.name, child.parent.name))
		}
		for n := c; n != nil; n = n.parent {
			if n == child {
				panic(fmt.Sprintf("command: attaching %q to %q creates a cycle", child.name, c.name))
			}
		}
		for _, id := range child.identifiers() {
			if sibling := c.Lookup(id); sibling != nil {
				panic(fmt.Sprintf("command: %q collides with %q under %q", id, sibling.name, c.name))
			}
		}

		child.parent = c
		c.children = append(c.children, child)
	}
}

// Lookup returns the child whose name or alias equals token, first declared
// wins. Matching is exact and case-sensitive.
func (c *Command) Lookup(token string) *Command {
	for _, child := range c.children {
		if child.name == token || slices.Contains(child.aliases, token) {
			return child
		}
	}
	return nil
}

// CommandPath returns the space-joined names from the root to c.
func (c *Command) CommandPath() string {
	var names []string
	for n := c; n != nil; n = n.parent {
		names = append(names, n.name)
	}
	slices.Reverse(names)
	return strings.Join(names, " ")
}

// Execute dispatches tokens through the tree and returns the exit code. The
// error is non-nil only when a handler returned a *CommandError.
func (c *Command) Execute(ctx context.Context, tokens []string) (int, error) {
	logger := log.WithCommand(c.log(), c.CommandPath())

	if len(tokens) == 0 {
		if c.requiresSelection {
			c.Help("Incorrect usage")
			return ExitFailure, nil
		}
		return c.invoke(ctx, nil)
	}

	head := tokens[0]
	if child := c.Lookup(head); child != nil {
		logger.Debug("dispatching subcommand", "subcommand", child.name)
		return child.Execute(ctx, tokens[1:])
	}

	parser := Parse(tokens)
	logger.Debug("parsed options", "flags", parser.Flags())

	args, err := c.resolve(parser)
	if err != nil {
		c.Help(err.Error())
		return ExitFailure, nil
	}

	if args.Bool(helpKey) {
		c.Help("")
		return ExitSuccess, nil
	}

	allRequired := c.requiredSatisfied(args)

	if !c.hasSpelling(head) {
		c.Help(fmt.Sprintf("Unknown %s %s", tokenKind(head), head))
		return ExitFailure, nil
	}
	if !allRequired {
		c.Help("Specify all the required options")
		return ExitFailure, nil
	}

	return c.invoke(ctx, args)
}

// resolve converts every option, help included, into Args.
func (c *Command) resolve(p *Parser) (Args, error) {
	opts := c.Options()
	args := make(Args, len(opts))
	for _, opt := range opts {
		v, err := opt.Resolve(p)
		if err != nil {
			return nil, err
		}
		args[opt.Key()] = v
	}
	return args, nil
}

func (c *Command) requiredSatisfied(args Args) bool {
	for _, opt := range c.options {
		if opt.Required() && args[opt.Key()] == nil {
			return false
		}
	}
	return true
}

func (c *Command) hasSpelling(token string) bool {
	for _, opt := range c.Options() {
		if slices.Contains(opt.Names(), token) {
			return true
		}
	}
	return false
}

func (c *Command) identifiers() []string {
	return append([]string{c.name}, c.aliases...)
}

func (c *Command) invoke(ctx context.Context, args Args) (int, error) {
	if c.handler == nil {
		return ExitSuccess, nil
	}

	logger := log.WithCommand(c.log(), c.CommandPath())
	start := time.Now()
	err := c.handler(ctx, args)
	logger.Debug("handler finished",
		log.DurationKey, time.Since(start).Milliseconds(),
		"failed", err != nil,
	)
	if err == nil {
		return ExitSuccess, nil
	}

	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		if cmdErr.Command == "" {
			cmdErr.Command = c.CommandPath()
		}
		return ExitFailure, err
	}

	c.helpForError(err)
	return ExitFailure, nil
}

// tokenKind names an unmatched token for the usage message. A token
// containing a dash is reported as an option, anything else as a command.
func tokenKind(token string) string {
	if strings.Contains(token, "-") {
		return "option"
	}
	return "command"
}
