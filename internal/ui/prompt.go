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

package ui

import (
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	codeconverrors "github.com/tombee/codeconv/pkg/errors"
)

// ErrNotInteractive is returned by a Confirmer that cannot ask.
var ErrNotInteractive = codeconverrors.New("not running in an interactive terminal")

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(title, description string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(title, description string) (bool, error)

func (f ConfirmFunc) Confirm(title, description string) (bool, error) {
	return f(title, description)
}

// PromptConfirmer asks on the terminal with a huh form. It refuses with
// ErrNotInteractive when IsInteractive reports false.
type PromptConfirmer struct{}

func (PromptConfirmer) Confirm(title, description string) (bool, error) {
	if !IsInteractive() {
		return false, ErrNotInteractive
	}
	var yes bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes, overwrite").
				Negative("No").
				Value(&yes),
		),
	).WithTheme(Theme())
	if err := form.Run(); err != nil {
		if codeconverrors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return yes, nil
}

// IsInteractive reports whether prompts can be shown: stdin is a
// terminal, CODECONV_NON_INTERACTIVE is not set and no CI marker is
// present.
func IsInteractive() bool {
	if v := os.Getenv("CODECONV_NON_INTERACTIVE"); v == "true" || v == "1" {
		return false
	}
	if isCI() {
		return false
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func isCI() bool {
	for _, k := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "CIRCLECI"} {
		if v := os.Getenv(k); v == "true" || v == "1" {
			return true
		}
	}
	return os.Getenv("JENKINS_HOME") != ""
}
