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

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tombee/codeconv/internal/ui"
	"github.com/tombee/codeconv/pkg/command"
)

// ShowProfile prints the logged-in profile with the token masked.
func (h *Handlers) ShowProfile(ctx context.Context, _ command.Args) error {
	p, err := h.requireLogin(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(p.Masked(), "", "  ")
	if err != nil {
		return command.WrapAppError(err)
	}
	fmt.Fprintln(h.out, string(data))

	if !p.ExpiresAt.IsZero() {
		s := ui.NewStyles(h.out)
		left := p.ExpiresAt.Sub(h.now()).Round(time.Minute)
		fmt.Fprintf(h.out, "%s %s (in %s)\n", s.RenderLabel("Token expires:"), p.ExpiresAt.Local().Format(time.RFC1123), left)
	}
	return nil
}
