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
	"sort"

	"go.opentelemetry.io/otel/attribute"

	"github.com/tombee/codeconv/internal/tracing"
	"github.com/tombee/codeconv/pkg/command"
)

const tracerScope = "github.com/tombee/codeconv/internal/cli"

// traced wraps h in a span named after the command path. Only the keys of
// supplied options are recorded, never their values.
func traced(name string, h command.Handler) command.Handler {
	return func(ctx context.Context, args command.Args) error {
		keys := make([]string, 0, len(args))
		for k := range args {
			if args.Has(k) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)

		ctx, span := tracing.Start(ctx, tracerScope, name,
			attribute.String("command", name),
			attribute.StringSlice("command.args", keys),
		)
		err := h(ctx, args)
		tracing.End(span, err)
		return err
	}
}
