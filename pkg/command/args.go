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

import "time"

// Args maps canonical option keys to converted values. A key whose option was
// not supplied maps to nil. Handlers invoked without any tokens receive a nil
// Args; every accessor is safe on a nil map.
type Args map[string]any

// Has reports whether key was supplied.
func (a Args) Has(key string) bool {
	v, ok := a[key]
	return ok && v != nil
}

// String returns the string value for key.
func (a Args) String(key string) (string, bool) {
	return lookup[string](a, key)
}

// Bool returns the bool value for key. A missing flag reads as false.
func (a Args) Bool(key string) bool {
	v, _ := lookup[bool](a, key)
	return v
}

// Int returns the int value for key.
func (a Args) Int(key string) (int, bool) {
	return lookup[int](a, key)
}

// Int64 returns the int64 value for key.
func (a Args) Int64(key string) (int64, bool) {
	return lookup[int64](a, key)
}

// Float64 returns the float64 value for key.
func (a Args) Float64(key string) (float64, bool) {
	return lookup[float64](a, key)
}

// Duration returns the time.Duration value for key.
func (a Args) Duration(key string) (time.Duration, bool) {
	return lookup[time.Duration](a, key)
}

func lookup[T Value](a Args, key string) (T, bool) {
	v, ok := a[key].(T)
	return v, ok
}
