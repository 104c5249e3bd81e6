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
	"github.com/tombee/codeconv/internal/handlers"
	"github.com/tombee/codeconv/pkg/command"
)

func newLoginCommand(a Actions) *command.Command {
	return command.New("login", "Log in with the device authorization flow",
		command.WithHandler(traced("login", a.Login)))
}

func newLogoutCommand(a Actions) *command.Command {
	return command.New("logout", "Remove the stored profile and token",
		command.WithHandler(traced("logout", a.Logout)))
}

func newProfileCommand(a Actions) *command.Command {
	profile := command.New("profile", "Manage the logged-in profile",
		command.WithRequiresSelection())
	profile.AddCommands(
		command.New("show", "Show the logged-in profile",
			command.WithAliases("view"),
			command.WithHandler(traced("profile show", a.ShowProfile))),
	)
	return profile
}

func newScriptCommand(a Actions) *command.Command {
	script := command.New("script", "Work with scripts",
		command.WithRequiresSelection())
	script.AddCommands(newConvertCommand(a))
	return script
}

func newConvertCommand(a Actions) *command.Command {
	return command.New("convert", "Convert a script from one language to another",
		command.WithAliases("conv"),
		command.WithRequiresSelection(),
		command.WithOptions(
			command.NewOption[string](spellings(handlers.KeyFrom), "Language of the input script", command.Required()),
			command.NewOption[string](spellings(handlers.KeyTo), "Language to convert to", command.Required()),
			command.NewOption[string](spellings(handlers.KeyFile, "-f"), "Path of the script to convert", command.Required()),
			command.NewOption[string](spellings(handlers.KeyOutput, "-o"), "File name to write the result to"),
			command.NewOption[string](spellings(handlers.KeyDir, "-d"), "Directory for the output file (default: current directory)"),
			command.NewOption[bool](spellings(handlers.KeyForce), "Overwrite the output file if it exists"),
		),
		command.WithHandler(traced("script convert", a.Convert)))
}

// spellings returns "--key" followed by any short forms, so the option
// resolves to the key the handler reads.
func spellings(key string, short ...string) []string {
	return append([]string{"--" + key}, short...)
}
