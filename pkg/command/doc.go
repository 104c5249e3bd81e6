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

/*
Package command implements a small recursive command dispatcher.

A program builds a tree of Command nodes once at startup, then hands argv to the
root:

	root := command.NewRoot("Convert scripts between languages")
	script := command.New("script", "Script operations", command.WithRequiresSelection())
	convert := command.New("convert", "Convert a script",
	    command.WithRequiresSelection(),
	    command.WithOptions(
	        command.NewOption[string]([]string{"--from"}, "Source language", command.Required()),
	        command.NewOption[string]([]string{"--file", "-f"}, "Script to convert", command.Required()),
	    ),
	    command.WithHandler(func(ctx context.Context, args command.Args) error {
	        file, _ := args.String("file")
	        ...
	    }),
	)
	script.AddCommands(convert)
	root.AddCommands(script)

	code, err := root.Execute(ctx, os.Args[1:])

# Dispatch

Execute consumes the leading token while it names a child command (by name or
alias, exact match). The remaining tokens are options for the node reached. They
are scanned by Parse, converted by each Option, checked against the required set
and passed to the handler as Args keyed by the option's canonical key (first
spelling, dashes stripped, lower-cased).

Subcommand matching always wins over option parsing at a given position.

# Exit codes

	0  success, or help displayed
	1  usage error, unknown option/command, missing required option,
	   conversion error, or an application error returned by the handler

A handler that returns a *CommandError aborts dispatch: Execute returns that
error so the caller can fail loudly.

# Help

Every node carries an implicit --help/-h option. Help output is written to the
output configured with SetOutput (stdout by default); the error line is coloured
only when the writer is a terminal.
*/
package command
