// Copyright 2025 The Rivaas Authors
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

package compress

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by [ConfigError] so callers can use errors.Is.
var (
	ErrInvalidLevel   = errors.New("compression level must be between 0 and 9")
	ErrInvalidMinSize = errors.New("minimum size must not be negative")
	ErrEmptyMimetype  = errors.New("mimetype must not be empty")
)

// ConfigError represents a configuration error with detailed context.
// It reports which field was rejected and during which operation
// ("merge", "decode" or "validate").
type ConfigError struct {
	Field     string // The settings field at fault (optional)
	Operation string // The operation being performed
	Err       error  // The underlying error
}

// Error returns a formatted error message with context information.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("compress config error in %s during %s: %v", e.Field, e.Operation, e.Err)
	}

	return fmt.Sprintf("compress config error during %s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ConstraintViolation reports that an eligible response body could not be
// compressed. The response must not be sent as-is once this happens: its
// headers may no longer describe its body.
type ConstraintViolation struct {
	Op  string // "write" or "close"
	Err error
}

// Error returns a formatted error message.
func (e *ConstraintViolation) Error() string {
	return fmt.Sprintf("gzip %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConstraintViolation) Unwrap() error {
	return e.Err
}
