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

// Package ui holds the terminal styling and prompts shared by the CLI
// handlers.
package ui

import (
	"io"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Palette colours.
var (
	ColorSuccess = lipgloss.Color("42")
	ColorWarn    = lipgloss.Color("214")
	ColorError   = lipgloss.Color("196")
	ColorPrimary = lipgloss.Color("39")
	ColorMuted   = lipgloss.Color("245")
)

// Status symbols.
const (
	SymbolOK    = "✓"
	SymbolWarn  = "⚠"
	SymbolError = "✗"
	SymbolInfo  = "•"
)

// Styles renders text for one writer. Colour is dropped automatically
// when the writer is not a terminal.
type Styles struct {
	OK     lipgloss.Style
	Warn   lipgloss.Style
	Error  lipgloss.Style
	Info   lipgloss.Style
	Muted  lipgloss.Style
	Bold   lipgloss.Style
	Header lipgloss.Style
}

// NewStyles binds the palette to w.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		OK:     r.NewStyle().Foreground(ColorSuccess),
		Warn:   r.NewStyle().Foreground(ColorWarn),
		Error:  r.NewStyle().Foreground(ColorError),
		Info:   r.NewStyle().Foreground(ColorPrimary),
		Muted:  r.NewStyle().Foreground(ColorMuted),
		Bold:   r.NewStyle().Bold(true),
		Header: r.NewStyle().Bold(true).Foreground(ColorPrimary),
	}
}

// RenderOK prefixes msg with a green check.
func (s Styles) RenderOK(msg string) string {
	return s.OK.Render(SymbolOK) + " " + msg
}

// RenderWarn prefixes msg with an orange warning sign.
func (s Styles) RenderWarn(msg string) string {
	return s.Warn.Render(SymbolWarn) + " " + msg
}

// RenderError prefixes msg with a red cross.
func (s Styles) RenderError(msg string) string {
	return s.Error.Render(SymbolError) + " " + msg
}

// RenderLabel renders a dim key for key: value output.
func (s Styles) RenderLabel(label string) string {
	return s.Muted.Render(label)
}

// Theme is the huh theme used by interactive prompts.
func Theme() *huh.Theme {
	t := huh.ThemeCharm()
	t.Focused.Title = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(ColorError)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF")).Background(ColorPrimary).Padding(0, 1).Bold(true)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(ColorMuted).Padding(0, 1)
	t.Blurred.Title = lipgloss.NewStyle().Foreground(ColorMuted)
	return t
}
