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

package bslcore

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Resolver locates the sources named by the paths given to
// [Parser.ParseAll].
type Resolver interface {
	// FindFileByPath opens the source at path. The caller closes it.
	FindFileByPath(path string) (io.ReadCloser, error)
}

// ResolverFunc is a simple function type that implements [Resolver].
type ResolverFunc func(string) (io.ReadCloser, error)

var _ Resolver = ResolverFunc(nil)

// FindFileByPath implements the Resolver interface.
func (f ResolverFunc) FindFileByPath(path string) (io.ReadCloser, error) {
	return f(path)
}

// CompositeResolver tries each resolver in turn and returns the first
// successful result. If none succeeds, it returns the first error.
type CompositeResolver []Resolver

var _ Resolver = CompositeResolver(nil)

// FindFileByPath implements the Resolver interface.
func (f CompositeResolver) FindFileByPath(path string) (io.ReadCloser, error) {
	if len(f) == 0 {
		return nil, fs.ErrNotExist
	}
	var firstErr error
	for _, res := range f {
		r, err := res.FindFileByPath(path)
		if err == nil {
			return r, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// SourceResolver opens sources from the file system, or from wherever its
// Accessor reads.
type SourceResolver struct {
	// Directories to search, in order. If empty, paths are opened as given.
	SearchPaths []string
	// Opens a source. If nil, [os.Open] is used.
	Accessor func(path string) (io.ReadCloser, error)
}

var _ Resolver = (*SourceResolver)(nil)

// FindFileByPath implements the Resolver interface.
func (r *SourceResolver) FindFileByPath(path string) (io.ReadCloser, error) {
	if len(r.SearchPaths) == 0 {
		return r.open(path)
	}

	var e error
	for _, dir := range r.SearchPaths {
		reader, err := r.open(filepath.Join(dir, path))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				e = err
				continue
			}
			return nil, err
		}
		return reader, nil
	}
	return nil, e
}

func (r *SourceResolver) open(path string) (io.ReadCloser, error) {
	if r.Accessor != nil {
		return r.Accessor(path)
	}
	return os.Open(path)
}

// SourceAccessorFromMap returns an Accessor for [SourceResolver] that serves
// the given path-to-contents map. Paths not in the map report
// [fs.ErrNotExist].
func SourceAccessorFromMap(srcs map[string]string) func(string) (io.ReadCloser, error) {
	return func(path string) (io.ReadCloser, error) {
		src, ok := srcs[path]
		if !ok {
			return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
		}
		return io.NopCloser(strings.NewReader(src)), nil
	}
}
