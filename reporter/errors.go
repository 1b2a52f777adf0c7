// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package reporter contains the types used for reporting errors and warnings
// found while reading, lexing and parsing BSL sources.
package reporter

import (
	"errors"
	"fmt"

	"github.com/bufbuild/bslcore/source"
)

// ErrInvalidSource is a sentinel error that is returned by a parse when
// errors were reported but the configured reporter chose to continue.
var ErrInvalidSource = errors.New("parse failed: invalid BSL source")

// ErrorWithPos is an error about a source file that includes the range in the
// file that caused it.
//
// The value of Error() contains both the position and the underlying error.
// The value of Unwrap() is only the underlying error.
type ErrorWithPos interface {
	error
	Path() string
	Range() source.Range
	Unwrap() error
}

// Error wraps err with a position.
func Error(path string, rng source.Range, err error) ErrorWithPos {
	return errorWithRange{path: path, rng: rng, underlying: err}
}

// Errorf is like [Error], but formats the underlying error.
func Errorf(path string, rng source.Range, format string, args ...any) ErrorWithPos {
	return errorWithRange{path: path, rng: rng, underlying: fmt.Errorf(format, args...)}
}

type errorWithRange struct {
	underlying error
	path       string
	rng        source.Range
}

func (e errorWithRange) Error() string {
	if e.rng.IsZero() {
		return fmt.Sprintf("%s: %v", e.path, e.underlying)
	}
	loc := e.rng.StartLoc()
	return fmt.Sprintf("%s:%d:%d: %v", e.path, loc.Line, loc.Column, e.underlying)
}

func (e errorWithRange) Path() string {
	return e.path
}

func (e errorWithRange) Range() source.Range {
	return e.rng
}

func (e errorWithRange) Unwrap() error {
	return e.underlying
}

var _ ErrorWithPos = errorWithRange{}
