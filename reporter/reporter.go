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

package reporter

import (
	"errors"
	"sync"

	"github.com/bufbuild/bslcore/source"
)

// ErrorReporter is responsible for reporting the given error. If the reporter
// returns a non-nil error, parsing of the current file aborts with that
// error. If it returns nil, parsing continues where possible so that more
// errors can be found.
type ErrorReporter func(err ErrorWithPos) error

// WarningReporter is responsible for reporting the given warning. Warnings do
// not cause a parse to fail; the details are still supplied as an error type.
type WarningReporter func(ErrorWithPos)

// Reporter is the callback interface through which a parse reports problems.
type Reporter interface {
	Error(ErrorWithPos) error
	Warning(ErrorWithPos)
}

// NewReporter creates a new reporter that invokes the given functions. Either
// may be nil: a nil errs makes every error fatal, and a nil warnings discards
// warnings.
func NewReporter(errs ErrorReporter, warnings WarningReporter) Reporter {
	return reporterFuncs{errs: errs, warnings: warnings}
}

type reporterFuncs struct {
	errs     ErrorReporter
	warnings WarningReporter
}

func (r reporterFuncs) Error(err ErrorWithPos) error {
	if r.errs == nil {
		return err
	}
	return r.errs(err)
}

func (r reporterFuncs) Warning(err ErrorWithPos) {
	if r.warnings != nil {
		r.warnings(err)
	}
}

// Handler tracks the outcome of reporting for a single parse. It remembers
// the first fatal error, after which everything else reported is dropped.
//
// A Handler is safe for concurrent use.
type Handler struct {
	reporter Reporter

	mu           sync.Mutex
	errsReported bool
	err          error
}

// NewHandler returns a handler that reports to rep. A nil rep makes every
// error fatal.
func NewHandler(rep Reporter) *Handler {
	if rep == nil {
		rep = NewReporter(nil, nil)
	}
	return &Handler{reporter: rep}
}

// HandleErrorf reports a formatted error at the given range.
func (h *Handler) HandleErrorf(path string, rng source.Range, format string, args ...any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return h.err
	}
	h.errsReported = true
	err := h.reporter.Error(Errorf(path, rng, format, args...))
	h.err = err
	return err
}

// HandleError reports err. Errors with a position go through the reporter;
// any other error is fatal.
func (h *Handler) HandleError(err error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return h.err
	}
	var ewp ErrorWithPos
	if errors.As(err, &ewp) {
		h.errsReported = true
		err = h.reporter.Error(ewp)
	}
	h.err = err
	return err
}

// HandleWarning reports a warning at the given range.
func (h *Handler) HandleWarning(path string, rng source.Range, err error) {
	// No lock needed; warnings don't touch mutable fields.
	h.reporter.Warning(errorWithRange{path: path, rng: rng, underlying: err})
}

// Error returns the outcome of the parse: the first fatal error, or
// [ErrInvalidSource] if errors were reported but none was fatal.
func (h *Handler) Error() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.errsReported && h.err == nil {
		return ErrInvalidSource
	}
	return h.err
}

// ReporterError returns the error the reporter returned, if any. Unlike
// [Handler.Error], it is nil when errors were reported but tolerated.
func (h *Handler) ReporterError() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.err
}
