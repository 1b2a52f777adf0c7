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

// Package corpora runs golden-file tests: each input file in a directory is a
// test case, and its expected outputs sit next to it.
package corpora

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/go-cmp/cmp"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"
)

// Corpus describes a directory of test cases.
type Corpus struct {
	// The test data directory, relative to the file that calls [Corpus.Run].
	Root string

	// An environment variable holding a glob of test names whose outputs
	// should be rewritten rather than checked.
	Refresh string

	// The file extension (without a dot) of input files, e.g. "bsl".
	Extension string

	// The outputs of each test. For an input "foo.bsl" and an output with
	// extension "yaml", the expected output is in "foo.bsl.yaml". A missing
	// file is expected to be empty.
	Outputs []Output

	// Test runs one case on the raw bytes of its input and returns one string
	// per element of Outputs.
	Test func(t *testing.T, path string, input []byte) []string
}

// Output is one output of a test case.
type Output struct {
	// Suffix appended to the input file name, without a dot.
	Extension string

	// How to compare outputs. If nil, they must match byte for byte.
	Compare Compare
}

// Compare compares a test output against the expected one. It returns an
// empty string if they match, or a description of the mismatch.
type Compare func(got, want string) string

// Run runs every test case in the corpus as a subtest.
func (c Corpus) Run(t *testing.T) {
	t.Helper()
	testDir := callerDir(0)
	root := filepath.Join(testDir, c.Root)

	var tests []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(p) == "."+c.Extension {
			tests = append(tests, p)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("corpora: walking %q: %v", root, err)
	}
	if len(tests) == 0 {
		t.Fatalf("corpora: no .%s files in %q", c.Extension, root)
	}

	var refresh string
	if c.Refresh != "" {
		refresh = os.Getenv(c.Refresh)
		if !doublestar.ValidatePattern(refresh) {
			t.Fatalf("corpora: invalid glob in %s: %q", c.Refresh, refresh)
		}
	}
	if refresh != "" {
		t.Logf("corpora: refreshing test data because %s=%s", c.Refresh, refresh)
		t.Fail()
	}

	for _, input := range tests {
		name, _ := filepath.Rel(testDir, input)
		name = filepath.ToSlash(name)
		t.Run(name, func(t *testing.T) {
			data, err := os.ReadFile(input)
			if err != nil {
				t.Fatalf("corpora: loading %q: %v", input, err)
			}

			results := c.Test(t, name, data)
			if len(results) != len(c.Outputs) {
				t.Fatalf("corpora: test returned %d outputs, want %d", len(results), len(c.Outputs))
			}

			rewrite, _ := doublestar.Match(refresh, name)
			for i, output := range c.Outputs {
				path := fmt.Sprint(input, ".", output.Extension)
				if rewrite {
					if err := write(path, results[i]); err != nil {
						t.Errorf("corpora: refreshing %q: %v", path, err)
					}
					continue
				}

				want, err := os.ReadFile(path)
				if err != nil && !errors.Is(err, fs.ErrNotExist) {
					t.Errorf("corpora: loading %q: %v", path, err)
					continue
				}
				compare := output.Compare
				if compare == nil {
					compare = CompareText
				}
				if diff := compare(results[i], string(want)); diff != "" {
					t.Errorf("output mismatch for %q:\n%s", path, diff)
				}
			}
		})
	}
}

func write(path, output string) error {
	if output == "" {
		err := os.Remove(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.WriteFile(path, []byte(output), 0o600)
}

// CompareText compares outputs byte for byte and reports a unified diff.
func CompareText(got, want string) string {
	if got == want {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}

	// Colorize added and removed lines.
	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+"):
			lines[i] = "\033[1;92m" + line + "\033[0m"
		case strings.HasPrefix(line, "-"):
			lines[i] = "\033[1;91m" + line + "\033[0m"
		}
	}
	return strings.Join(lines, "\n")
}

// CompareYAML compares outputs as YAML documents, ignoring formatting.
func CompareYAML(got, want string) string {
	var g, w any
	if err := yaml.Unmarshal([]byte(got), &g); err != nil {
		return fmt.Sprintf("invalid YAML output: %v", err)
	}
	if err := yaml.Unmarshal([]byte(want), &w); err != nil {
		return fmt.Sprintf("invalid YAML in expected output: %v", err)
	}
	if diff := cmp.Diff(w, g); diff != "" {
		return fmt.Sprintf("(-want +got)\n%s", diff)
	}
	return ""
}

func callerDir(skip int) string {
	_, file, _, ok := runtime.Caller(skip + 2)
	if !ok {
		panic("corpora: could not determine test file's directory")
	}
	return filepath.Dir(file)
}
