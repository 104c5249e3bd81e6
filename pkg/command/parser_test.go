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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   map[string]string
	}{
		{
			name:   "empty",
			tokens: nil,
			want:   map[string]string{},
		},
		{
			name:   "flag followed by value",
			tokens: []string{"--from", "python"},
			want:   map[string]string{"--from": "python"},
		},
		{
			name:   "trailing flag is true",
			tokens: []string{"--from", "python", "--force"},
			want:   map[string]string{"--from": "python", "--force": TrueMarker},
		},
		{
			name:   "flag followed by flag is true",
			tokens: []string{"-h", "--to", "go"},
			want:   map[string]string{"-h": TrueMarker, "--to": "go"},
		},
		{
			name:   "bare tokens are dropped",
			tokens: []string{"stray", "--to", "go", "extra"},
			want:   map[string]string{"--to": "go"},
		},
		{
			name:   "last duplicate wins",
			tokens: []string{"--to", "go", "--to", "rust"},
			want:   map[string]string{"--to": "rust"},
		},
		{
			name:   "short and long spellings stay distinct",
			tokens: []string{"-f", "a.py", "--file", "b.py"},
			want:   map[string]string{"-f": "a.py", "--file": "b.py"},
		},
		{
			name:   "negative number reads as a flag",
			tokens: []string{"--count", "-5"},
			want:   map[string]string{"--count": TrueMarker, "-5": TrueMarker},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Parse(tt.tokens)
			assert.Equal(t, len(tt.want), p.Len())
			for flag, want := range tt.want {
				got, ok := p.Lookup(flag)
				assert.True(t, ok, "flag %s missing", flag)
				assert.Equal(t, want, got, "flag %s", flag)
			}
		})
	}
}

func TestParse_KeysAlwaysStartWithDash(t *testing.T) {
	p := Parse([]string{"a", "-b", "c", "--d", "e", "f", "-"})
	for _, flag := range p.Flags() {
		assert.Equal(t, byte('-'), flag[0])
	}
	assert.Equal(t, []string{"-b", "--d", "-"}, p.Flags())
}

func TestParser_LookupMissing(t *testing.T) {
	p := Parse([]string{"--to", "go"})

	got, ok := p.Lookup("--from")
	assert.False(t, ok)
	assert.Empty(t, got)

	var nilParser *Parser
	_, ok = nilParser.Lookup("--to")
	assert.False(t, ok)
	assert.Nil(t, nilParser.Flags())
}
