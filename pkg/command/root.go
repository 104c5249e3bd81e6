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
	"os"
	"path/filepath"
	"strings"
)

// NewRoot creates the top of a command tree. Its name defaults to the
// executable name without extension; pass WithName to override. A root cannot
// be attached under another command.
func NewRoot(description string, settings ...Setting) *Command {
	c := New(executableName(), description, settings...)
	c.root = true
	return c
}

// IsRoot reports whether c was created by NewRoot.
func (c *Command) IsRoot() bool { return c.root }

func executableName() string {
	path, err := os.Executable()
	if err != nil || path == "" {
		if len(os.Args) == 0 || os.Args[0] == "" {
			return "<exec_name>"
		}
		path = os.Args[0]
	}
	base := filepath.Base(path)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" {
		return name
	}
	return base
}
