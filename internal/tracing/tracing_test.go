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

package tracing

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

func TestConfigEnabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.False(t, Config{Exporter: ExporterNone}.Enabled())
	assert.True(t, Config{Exporter: ExporterConsole}.Enabled())
}

func TestSetup_Disabled(t *testing.T) {
	p, err := Setup(context.Background(), Config{}, "codeconv", "test")
	require.NoError(t, err)
	assert.NoError(t, p.Shutdown(context.Background()))

	// The propagator is installed even without an exporter.
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
}

func TestSetup_UnknownExporter(t *testing.T) {
	_, err := Setup(context.Background(), Config{Exporter: "zipkin"}, "codeconv", "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown exporter type")
}

func TestSetup_ConsoleExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Exporter: ExporterConsole, SampleRate: 1, Writer: &buf}

	p, err := Setup(context.Background(), cfg, "codeconv", "1.2.3")
	require.NoError(t, err)

	_, span := Start(context.Background(), "test", "script convert", attribute.String("command", "script convert"))
	End(span, errors.New("boom"))
	require.NoError(t, p.Shutdown(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "script convert")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "1.2.3")
}

func TestShutdown_NilProvider(t *testing.T) {
	var p *Provider
	assert.NoError(t, p.Shutdown(context.Background()))
}
