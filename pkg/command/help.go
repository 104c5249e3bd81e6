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
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	pkgerrors "github.com/tombee/codeconv/pkg/errors"
)

const minLabelWidth = 20

// errorColor is the foreground of the error line (red).
var errorColor = lipgloss.Color("196")

// Help writes the command's help to its output, preceded by errMsg when set.
func (c *Command) Help(errMsg string) {
	c.RenderHelp(c.OutOrStdout(), errMsg, "")
}

// helpForError shows a handler error with the help block. Errors that carry a
// user-facing message and suggestion are shown with those instead.
func (c *Command) helpForError(err error) {
	msg, suggestion := pkgerrors.UserMessage(err), ""
	var uv pkgerrors.UserVisibleError
	if pkgerrors.As(err, &uv) && uv.IsUserVisible() {
		suggestion = uv.Suggestion()
	}
	c.RenderHelp(c.OutOrStdout(), msg, suggestion)
}

// RenderHelp writes the help block to w. The error line is coloured only when
// w is a terminal that supports it.
func (c *Command) RenderHelp(w io.Writer, errMsg, suggestion string) {
	var b strings.Builder

	if errMsg != "" {
		style := lipgloss.NewRenderer(w).NewStyle().Foreground(errorColor)
		b.WriteString(style.Render(fmt.Sprintf("%s: %s", c.Root().name, errMsg)))
		b.WriteString("\n")
		if suggestion != "" {
			fmt.Fprintf(&b, "Suggestion: %s\n", suggestion)
		}
		b.WriteString("\n")
	}

	path := c.CommandPath()
	fmt.Fprintf(&b, "Command: %s%s\n", path, aliasSuffix(c.aliases))
	fmt.Fprintf(&b, "Description: %s\n\n", c.description)
	fmt.Fprintf(&b, "Usage: %s\n\n", c.usage(path))

	opts := c.Options()
	width := c.labelWidth(opts)

	if len(c.children) > 0 {
		b.WriteString("Commands:\n")
		for _, child := range c.children {
			fmt.Fprintf(&b, "%-*s%s\n", width, child.name+aliasSuffix(child.aliases), child.description)
		}
		b.WriteString("\n")
	}

	b.WriteString("Options:\n")
	for _, opt := range opts {
		marker := ""
		if opt.Required() {
			marker = "[REQUIRED] "
		}
		fmt.Fprintf(&b, "%-*s%s%s\n", width, strings.Join(opt.Names(), " | "), marker, opt.Description())
	}

	_, _ = io.WriteString(w, b.String())
}

func (c *Command) usage(path string) string {
	var parts []string
	if len(c.children) > 0 {
		parts = append(parts, bracket("command", c.requiresSelection))
	}
	anyRequired := false
	for _, opt := range c.options {
		anyRequired = anyRequired || opt.Required()
	}
	parts = append(parts, bracket("option", c.requiresSelection || anyRequired))
	return path + " " + strings.Join(parts, " | ")
}

func (c *Command) labelWidth(opts []Option) int {
	width := minLabelWidth
	grow := func(label string) {
		if len(label)+2 > width {
			width = len(label) + 2
		}
	}
	for _, child := range c.children {
		grow(child.name + aliasSuffix(child.aliases))
	}
	for _, opt := range opts {
		grow(strings.Join(opt.Names(), " | "))
	}
	return width
}

func bracket(tag string, mandatory bool) string {
	if mandatory {
		return "<" + tag + ">"
	}
	return "[" + tag + "]"
}

func aliasSuffix(aliases []string) string {
	if len(aliases) == 0 {
		return ""
	}
	return " | " + strings.Join(aliases, " | ")
}
