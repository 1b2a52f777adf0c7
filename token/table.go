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

package token

import (
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// UnregisteredGrammarError indicates that a grammar was integrated without
// registering its channel table. It is a programming error: it should surface
// when wiring a grammar up, not while lexing a particular file.
type UnregisteredGrammarError struct {
	Grammar string // May be empty if the grammar is unknown.
	Kind    Kind   // The kind being classified; zero when the table was only checked.
}

// Error implements [error].
func (e *UnregisteredGrammarError) Error() string {
	grammar := e.Grammar
	if grammar == "" {
		grammar = "<unnamed>"
	}
	if e.Kind == 0 {
		return fmt.Sprintf("bslcore/token: grammar %s has no registered channel table", grammar)
	}
	return fmt.Sprintf("bslcore/token: grammar %s has no registered channel table (classifying kind %d)", grammar, e.Kind)
}

// TableConfig describes which channels a grammar's token kinds belong to.
//
// Kinds not listed anywhere are on the [Code] channel.
type TableConfig struct {
	Grammar string `yaml:"grammar"`

	Comment      []Kind `yaml:"comment"`
	Preprocessor []Kind `yaml:"preprocessor"`
	Hidden       []Kind `yaml:"hidden"`

	// Symbolic names for kinds, used when printing tokens. Optional.
	Names map[Kind]string `yaml:"-"`
}

// Table is a grammar's channel classification table.
//
// Tables are immutable once created and may be shared between any number of
// concurrent streams. A nil *Table is an unregistered grammar.
type Table struct {
	grammar  string
	channels map[Kind]Channel
	names    map[Kind]string
}

// NewTable builds a table from a configuration.
//
// Returns an error if a kind is assigned to more than one channel, or if the
// configuration does not name its grammar.
func NewTable(config TableConfig) (*Table, error) {
	if config.Grammar == "" {
		return nil, fmt.Errorf("bslcore/token: channel table without a grammar name")
	}

	t := &Table{
		grammar:  config.Grammar,
		channels: make(map[Kind]Channel),
		names:    maps.Clone(config.Names),
	}
	for channel, kinds := range map[Channel][]Kind{
		Comment:      config.Comment,
		Preprocessor: config.Preprocessor,
		Hidden:       config.Hidden,
	} {
		for _, k := range kinds {
			if prev, ok := t.channels[k]; ok && prev != channel {
				return nil, fmt.Errorf("bslcore/token: %s: kind %s assigned to both %s and %s channels",
					config.Grammar, t.KindName(k), prev, channel)
			}
			t.channels[k] = channel
		}
	}
	t.channels[EOF] = Hidden
	return t, nil
}

// ParseTable parses a YAML channel table, such as
//
//	grammar: bsl
//	comment: [LINE_COMMENT]
//	preprocessor: [PREPROC_IF, PREPROC_ENDIF]
//	hidden: [WHITESPACE]
//
// vocabulary maps the symbolic kind names used in the document to kinds; it
// also becomes the table's [TableConfig.Names].
func ParseTable(data []byte, vocabulary map[string]Kind) (*Table, error) {
	var doc struct {
		Grammar      string   `yaml:"grammar"`
		Comment      []string `yaml:"comment"`
		Preprocessor []string `yaml:"preprocessor"`
		Hidden       []string `yaml:"hidden"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("bslcore/token: parsing channel table: %w", err)
	}

	resolve := func(names []string) ([]Kind, error) {
		kinds := make([]Kind, 0, len(names))
		for _, name := range names {
			k, ok := vocabulary[name]
			if !ok {
				return nil, fmt.Errorf("bslcore/token: %s: unknown token kind %q", doc.Grammar, name)
			}
			kinds = append(kinds, k)
		}
		return kinds, nil
	}

	config := TableConfig{
		Grammar: doc.Grammar,
		Names:   make(map[Kind]string, len(vocabulary)),
	}
	for name, k := range vocabulary {
		config.Names[k] = name
	}

	var err error
	if config.Comment, err = resolve(doc.Comment); err != nil {
		return nil, err
	}
	if config.Preprocessor, err = resolve(doc.Preprocessor); err != nil {
		return nil, err
	}
	if config.Hidden, err = resolve(doc.Hidden); err != nil {
		return nil, err
	}
	return NewTable(config)
}

// Grammar returns the name of the grammar this table belongs to.
func (t *Table) Grammar() string {
	if t == nil {
		return ""
	}
	return t.grammar
}

// Check returns an [*UnregisteredGrammarError] if t is nil.
func (t *Table) Check() error {
	if t == nil {
		return &UnregisteredGrammarError{}
	}
	return nil
}

// Classify returns the channel a token kind belongs to.
//
// Panics with an [*UnregisteredGrammarError] if t is nil.
func (t *Table) Classify(kind Kind) Channel {
	if t == nil {
		panic(&UnregisteredGrammarError{Kind: kind})
	}
	return t.channels[kind] // Zero value is Code.
}

// Kinds returns the kinds explicitly assigned to a channel, in ascending
// order.
func (t *Table) Kinds(channel Channel) []Kind {
	var kinds []Kind
	for k, c := range t.channels {
		if c == channel {
			kinds = append(kinds, k)
		}
	}
	slices.Sort(kinds)
	return kinds
}

// KindName returns the symbolic name of a kind, falling back to its number.
func (t *Table) KindName(kind Kind) string {
	if kind == EOF {
		return "EOF"
	}
	if t != nil {
		if name, ok := t.names[kind]; ok {
			return name
		}
	}
	return fmt.Sprint(int32(kind))
}
