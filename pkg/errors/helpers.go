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

package errors

import (
	"errors"
	"fmt"
)

// Wrap returns err with message prepended, or nil if err is nil.
//
//	if err := store.Save(p); err != nil {
//	    return errors.Wrap(err, "saving profile")
//	}
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted message.
//
//	if err != nil {
//	    return errors.Wrapf(err, "reading %s", path)
//	}
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is wraps errors.Is from the standard library.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As from the standard library.
//
//	var apiErr *APIError
//	if errors.As(err, &apiErr) {
//	    log.Printf("status %d", apiErr.StatusCode)
//	}
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New wraps errors.New from the standard library.
func New(message string) error {
	return errors.New(message)
}

// IsRetryable reports whether any ErrorClassifier in err's chain says the
// operation can be retried.
func IsRetryable(err error) bool {
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		return classifier.IsRetryable()
	}
	return false
}

// UserMessage returns the first user-visible message in err's chain, falling
// back to err.Error(). Returns "" for a nil error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var uv UserVisibleError
	if errors.As(err, &uv) && uv.IsUserVisible() {
		return uv.UserMessage()
	}
	return err.Error()
}
