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

// Package logging wraps github.com/charmbracelet/log for the CLI and the
// parallel parser.
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Structured field names.
const (
	FieldPath     = "path"
	FieldGrammar  = "grammar"
	FieldEncoding = "encoding"
	FieldTokens   = "tokens"
	FieldNodes    = "nodes"
	FieldFiles    = "files"
	FieldElapsed  = "elapsed"
	FieldRange    = "range"
	FieldError    = "error"
	FieldRegions  = "regions"
	FieldDepth    = "depth"
)

var (
	defaultLogger     *log.Logger
	defaultLoggerOnce sync.Once
)

// New creates a logger writing to w at the given level ("debug", "info",
// "warn" or "error"; anything else means "info").
func New(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "bslcore"})
	SetLoggerLevel(logger, level)
	return logger
}

// SetLoggerLevel parses level and applies it to logger.
func SetLoggerLevel(logger *log.Logger, level string) {
	if strings.EqualFold(level, "warning") {
		level = "warn"
	}
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
}

// Default returns the process-wide logger, which writes to stderr.
func Default() *log.Logger {
	defaultLoggerOnce.Do(func() {
		if defaultLogger == nil {
			defaultLogger = New(os.Stderr, "info")
		}
	})
	return defaultLogger
}

type contextKey struct{}

// FromContext returns the logger attached to ctx, or [Default].
func FromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(contextKey{}).(*log.Logger); ok && logger != nil {
			return logger
		}
	}
	return Default()
}

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}
