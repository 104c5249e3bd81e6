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
	"errors"
	"fmt"
)

// ConversionError reports a flag whose raw value cannot be converted to the
// option's declared type. It is a user input error.
type ConversionError struct {
	// Flag is the spelling the user typed (e.g. "--count" or "-c").
	Flag string

	// Raw is the unconverted value.
	Raw string

	// Type names the target type (e.g. "int").
	Type string

	// Cause is the underlying conversion error, if any.
	Cause error
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	return fmt.Sprintf("'%s' is not a valid value for '%s'", e.Raw, e.Flag)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConversionError) Unwrap() error {
	return e.Cause
}

// AppError is returned by handlers for failures the user can fix, such as a
// missing file. Execute shows the message with the node's help and returns 1.
type AppError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates an application error with the given message.
func NewAppError(message string) *AppError {
	return &AppError{Message: message}
}

// AppErrorf creates an application error with a formatted message.
func AppErrorf(format string, args ...any) *AppError {
	return &AppError{Message: fmt.Sprintf(format, args...)}
}

// WrapAppError creates an application error that shows cause's message.
// If cause is nil, returns nil.
func WrapAppError(cause error) error {
	if cause == nil {
		return nil
	}
	return &AppError{Message: cause.Error(), Cause: cause}
}

// CommandError signals misuse of the command tree that cannot be recovered
// locally. Execute stops and returns it to the caller.
type CommandError struct {
	// Command is the path of the node whose handler failed. Filled in by Execute
	// when empty.
	Command string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Command != "" {
		return fmt.Sprintf("%s: %s", e.Command, msg)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CommandError) Unwrap() error {
	return e.Cause
}

// NewCommandError creates a fatal command error.
func NewCommandError(message string, cause error) *CommandError {
	return &CommandError{Message: message, Cause: cause}
}

// CommandErrorf creates a fatal command error with a formatted message.
func CommandErrorf(format string, args ...any) *CommandError {
	return &CommandError{Message: fmt.Sprintf(format, args...)}
}

// IsFatal reports whether err carries a *CommandError.
func IsFatal(err error) bool {
	var cmdErr *CommandError
	return errors.As(err, &cmdErr)
}
