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

import "strings"

// TrueMarker is the raw value recorded for a flag that is not followed by a value.
const TrueMarker = "true"

// Parser holds the raw option map built from a token sequence.
// Keys are flag spellings exactly as they appeared.
type Parser struct {
	values map[string]string
	order  []string
}

// Parse scans tokens once. A token starting with "-" is an option marker; its
// value is the following token unless that token is also a marker or missing,
// in which case the value is TrueMarker. Tokens not consumed as values are
// dropped. A repeated flag keeps its last value.
func Parse(tokens []string) *Parser {
	p := &Parser{values: make(map[string]string, len(tokens))}

	for i, tok := range tokens {
		if !isOptionMarker(tok) {
			continue
		}

		value := TrueMarker
		if i+1 < len(tokens) && !isOptionMarker(tokens[i+1]) {
			value = tokens[i+1]
		}

		if _, seen := p.values[tok]; !seen {
			p.order = append(p.order, tok)
		}
		p.values[tok] = value
	}

	return p
}

// Lookup returns the raw value for an exact flag spelling.
func (p *Parser) Lookup(flag string) (string, bool) {
	if p == nil {
		return "", false
	}
	v, ok := p.values[flag]
	return v, ok
}

// Flags returns the flag spellings seen, in first-seen order.
func (p *Parser) Flags() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Len returns the number of distinct flags seen.
func (p *Parser) Len() int {
	if p == nil {
		return 0
	}
	return len(p.values)
}

func isOptionMarker(tok string) bool {
	return strings.HasPrefix(tok, "-")
}
