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
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Value is the closed set of types an option can convert to.
type Value interface {
	string | bool | int | int64 | float64 | time.Duration
}

// Option describes one flag of a Command.
type Option interface {
	// Names returns every spelling, canonical first.
	Names() []string

	// Key returns the canonical key used in Args.
	Key() string

	Description() string
	Required() bool

	// TypeName names the converted type, for help and errors.
	TypeName() string

	// Resolve returns the converted value, or nil when no spelling is present.
	Resolve(p *Parser) (any, error)
}

// OptionSetting configures a TypedOption at registration.
type OptionSetting func(*optionSettings)

type optionSettings struct {
	required bool
}

// Required marks the option as mandatory for the handler to run.
func Required() OptionSetting {
	return func(s *optionSettings) { s.required = true }
}

// TypedOption is an Option whose raw value converts to T.
type TypedOption[T Value] struct {
	names       []string
	description string
	required    bool
	typeName    string
	convert     func(string) (T, error)
}

// NewOption declares a flag with the given spellings. The converter for T is
// chosen here, once. It panics if names is empty or a name does not start
// with a dash.
func NewOption[T Value](names []string, description string, settings ...OptionSetting) *TypedOption[T] {
	if len(names) == 0 {
		panic("command: option declared without names")
	}
	for _, n := range names {
		if !isOptionMarker(n) || strings.Trim(n, "-") == "" {
			panic(fmt.Sprintf("command: invalid option name %q", n))
		}
	}

	var s optionSettings
	for _, apply := range settings {
		apply(&s)
	}

	typeName, convert := converterFor[T]()

	return &TypedOption[T]{
		names:       append([]string(nil), names...),
		description: description,
		required:    s.required,
		typeName:    typeName,
		convert:     convert,
	}
}

// Names implements Option.
func (o *TypedOption[T]) Names() []string { return append([]string(nil), o.names...) }

// Key implements Option.
func (o *TypedOption[T]) Key() string { return canonicalKey(o.names[0]) }

// Description implements Option.
func (o *TypedOption[T]) Description() string { return o.description }

// Required implements Option.
func (o *TypedOption[T]) Required() bool { return o.required }

// TypeName implements Option.
func (o *TypedOption[T]) TypeName() string { return o.typeName }

// Get returns the converted value of the first spelling present in p.
// The bool result is false when none is present.
func (o *TypedOption[T]) Get(p *Parser) (T, bool, error) {
	var zero T

	for _, name := range o.names {
		raw, ok := p.Lookup(name)
		if !ok {
			continue
		}

		v, err := o.convert(raw)
		if err != nil {
			return zero, true, &ConversionError{Flag: name, Raw: raw, Type: o.typeName, Cause: err}
		}
		return v, true, nil
	}

	return zero, false, nil
}

// Resolve implements Option.
func (o *TypedOption[T]) Resolve(p *Parser) (any, error) {
	v, ok, err := o.Get(p)
	if err != nil || !ok {
		return nil, err
	}
	return v, nil
}

// canonicalKey strips leading dashes and lower-cases a flag spelling.
func canonicalKey(name string) string {
	return strings.ToLower(strings.TrimLeft(name, "-"))
}

// converterFor selects the raw-string converter for T.
func converterFor[T Value]() (string, func(string) (T, error)) {
	var zero T
	var name string
	var fn any

	switch any(zero).(type) {
	case string:
		name = "string"
		fn = func(s string) (string, error) { return s, nil }
	case bool:
		name = "bool"
		fn = parseBool
	case int:
		name = "int"
		fn = strconv.Atoi
	case int64:
		name = "int64"
		fn = func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) }
	case float64:
		name = "float64"
		fn = func(s string) (float64, error) { return strconv.ParseFloat(s, 64) }
	case time.Duration:
		name = "duration"
		fn = time.ParseDuration
	}

	return name, fn.(func(string) (T, error))
}

// parseBool accepts only "true" and "false", ignoring case.
func parseBool(s string) (bool, error) {
	switch {
	case strings.EqualFold(s, "true"):
		return true, nil
	case strings.EqualFold(s, "false"):
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}
