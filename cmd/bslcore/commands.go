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

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bufbuild/bslcore"
	"github.com/bufbuild/bslcore/internal/logging"
	"github.com/bufbuild/bslcore/internal/minibsl"
	"github.com/bufbuild/bslcore/preproc"
	"github.com/bufbuild/bslcore/query"
	"github.com/bufbuild/bslcore/reporter"
	"github.com/bufbuild/bslcore/source"
	"github.com/bufbuild/bslcore/token"
	"github.com/bufbuild/bslcore/tree"
)

type options struct {
	logLevel string
	encoding string
	jobs     int
	strict   bool
}

func newRootCommand() *cobra.Command {
	opts := new(options)
	root := &cobra.Command{
		Use:   "bslcore",
		Short: "Inspect how BSL modules are read, tokenized and parsed",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger := logging.New(cmd.ErrOrStderr(), opts.logLevel)
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	flags.StringVar(&opts.encoding, "encoding", "", "declared source encoding, e.g. windows-1251 (default: detect)")
	flags.IntVar(&opts.jobs, "jobs", 0, "files to parse at once (default: number of CPUs)")
	flags.BoolVar(&opts.strict, "strict", false, "fail on the first syntax error")

	root.AddCommand(
		newParseCommand(opts),
		newTokensCommand(opts),
		newTreeCommand(opts),
		newAtCommand(opts),
		newRegionsCommand(opts),
	)
	return root
}

// parser returns a parser that logs problems, and fails on errors only in
// strict mode.
func (o *options) parser(cmd *cobra.Command) (*bslcore.Parser, error) {
	enc := source.Unknown
	if o.encoding != "" {
		var err error
		if enc, err = source.ParseEncoding(o.encoding); err != nil {
			return nil, err
		}
	}
	logger := logging.FromContext(cmd.Context())
	rep := reporter.NewReporter(
		func(err reporter.ErrorWithPos) error {
			if o.strict {
				return err
			}
			logger.Error(err.Unwrap().Error(), logging.FieldPath, err.Path(), logging.FieldRange, err.Range())
			return nil
		},
		func(err reporter.ErrorWithPos) {
			logger.Warn(err.Unwrap().Error(), logging.FieldPath, err.Path())
		},
	)
	return &bslcore.Parser{
		Grammar:        minibsl.Grammar{},
		Encoding:       enc,
		MaxParallelism: o.jobs,
		Reporter:       rep,
	}, nil
}

func (o *options) parseOne(cmd *cobra.Command, path string) (*bslcore.Result, error) {
	p, err := o.parser(cmd)
	if err != nil {
		return nil, err
	}
	results, err := p.ParseAll(cmd.Context(), path)
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

func newParseCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parse FILE...",
		Short: "Parse files and summarize the results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.parser(cmd)
			if err != nil {
				return err
			}
			results, err := p.ParseAll(cmd.Context(), args...)
			if err != nil {
				return err
			}

			type summary struct {
				Path     string `yaml:"path"`
				Encoding string `yaml:"encoding"`
				BOM      bool   `yaml:"bom,omitempty"`
				Tokens   int    `yaml:"tokens"`
				Nodes    int    `yaml:"nodes"`
				Partial  string `yaml:"partial,omitempty"`
			}
			out := make([]summary, len(results))
			for i, res := range results {
				out[i] = summary{
					Path:     res.File.Path(),
					Encoding: res.File.Encoding().String(),
					BOM:      res.File.HadBOM(),
					Tokens:   res.Tokens.Len(),
					Nodes:    res.Tree.Len(),
				}
				if rest, ok := res.Tree.Partial(); ok {
					out[i].Partial = rest.String()
				}
			}
			return writeYAML(cmd.OutOrStdout(), out)
		},
	}
}

func newTokensCommand(opts *options) *cobra.Command {
	var channels []string
	cmd := &cobra.Command{
		Use:   "tokens FILE",
		Short: "List the tokens of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter []token.Channel
			for _, name := range channels {
				c, err := token.ParseChannel(name)
				if err != nil {
					return err
				}
				filter = append(filter, c)
			}
			if len(filter) == 0 {
				filter = []token.Channel{token.Code, token.Comment, token.Preprocessor, token.Hidden}
			}

			res, err := opts.parseOne(cmd, args[0])
			if err != nil {
				return err
			}
			type tok struct {
				Index   int    `yaml:"index"`
				Kind    string `yaml:"kind"`
				Channel string `yaml:"channel"`
				Range   string `yaml:"range"`
				Text    string `yaml:"text"`
			}
			var out []tok
			for t := range res.Tokens.View(filter...).All() {
				out = append(out, tok{
					Index:   t.Index(),
					Kind:    res.Tokens.Table().KindName(t.Kind()),
					Channel: t.Channel().String(),
					Range:   t.Range().String(),
					Text:    t.Text(),
				})
			}
			return writeYAML(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringSliceVar(&channels, "channel", nil, "only list tokens on these channels")
	return cmd
}

func newTreeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tree FILE",
		Short: "Print the parse tree of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.parseOne(cmd, args[0])
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), minibsl.Outline(res.Tree))
			return err
		},
	}
}

func newAtCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "at FILE OFFSET",
		Short: "Describe the node at a byte offset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			offset, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid offset %q: %w", args[1], err)
			}
			res, err := opts.parseOne(cmd, args[0])
			if err != nil {
				return err
			}

			n := query.NodeAt(res.Tree, offset)
			if n.IsZero() {
				return fmt.Errorf("offset %d is outside of %s", offset, res.File.Path())
			}

			type desc struct {
				Kind      string   `yaml:"kind"`
				Range     string   `yaml:"range"`
				Text      string   `yaml:"text"`
				Line      string   `yaml:"line"`
				Ancestors []string `yaml:"ancestors,omitempty"`
				Before    string   `yaml:"before,omitempty"`
				After     string   `yaml:"after,omitempty"`
				Regions   []string `yaml:"regions,omitempty"`
			}
			out := desc{
				Kind:  minibsl.KindName(n),
				Range: n.Range().String(),
				Text:  query.TextOf(n),
				Line:  strings.TrimRight(res.File.Line(n.Range().StartLine), "\r\n"),
			}
			for a := range query.Ancestors(n) {
				out.Ancestors = append(out.Ancestors, minibsl.KindName(a))
			}
			if t, ok := query.NearestTerminal(res.Tree, n.Range().Start, query.Before); ok {
				out.Before = query.TextOf(t)
			}
			if t, ok := query.NearestTerminal(res.Tree, n.Range().End, query.After); ok {
				out.After = query.TextOf(t)
			}
			idx, err := preproc.Build(res.Tokens, minibsl.Directives...)
			if err != nil {
				logging.FromContext(cmd.Context()).Warn("preprocessor regions unavailable",
					logging.FieldPath, res.File.Path(), logging.FieldError, err)
			} else {
				for r := range idx.Containing(offset) {
					out.Regions = append(out.Regions, r.Open.Text())
				}
			}
			return writeYAML(cmd.OutOrStdout(), out)
		},
	}
}

func newRegionsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "regions FILE",
		Short: "List the preprocessor regions of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.parseOne(cmd, args[0])
			if err != nil {
				return err
			}
			idx, err := preproc.Build(res.Tokens, minibsl.Directives...)
			if err != nil {
				return err
			}
			logging.FromContext(cmd.Context()).Debug("regions",
				logging.FieldPath, res.File.Path(), logging.FieldRegions, idx.Len(), logging.FieldDepth, idx.Depth())

			type region struct {
				Open       string `yaml:"open"`
				Close      string `yaml:"close"`
				Range      string `yaml:"range"`
				Depth      int    `yaml:"depth"`
				Statements int    `yaml:"statements"`
			}
			var out []region
			for r := range idx.Regions() {
				out = append(out, region{
					Open:       r.Open.Text(),
					Close:      r.Close.Text(),
					Range:      r.Range().String(),
					Depth:      r.Depth,
					Statements: countWithin(res.Tree, r.Range()),
				})
			}
			return writeYAML(cmd.OutOrStdout(), out)
		},
	}
}

// countWithin counts the statements that lie entirely within rng.
func countWithin(t *tree.Tree, rng source.Range) int {
	var n int
	statements := query.OfKind(minibsl.IfStmt, minibsl.Assignment, minibsl.Statement, minibsl.EmptyStmt)
	for node := range query.FindDescendants(t.Root(), statements) {
		if r := node.Range(); r.Start >= rng.Start && r.End <= rng.End {
			n++
		}
	}
	return n
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
