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

// Package cli assembles the codeconv command tree.
//
// The tree is built from pkg/command and delegates each leaf to an
// Actions implementation, normally *handlers.Handlers:
//
//	codeconv [--version|-v]
//	├── login
//	├── logout
//	├── profile <command>
//	│   └── show | view
//	└── script <command>
//	    └── convert | conv --from --to --file|-f [--output|-o] [--dir|-d] [--force]
package cli
