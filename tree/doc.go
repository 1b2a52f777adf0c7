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

// Package tree is a grammar-agnostic representation of BSL parse trees.
//
// A [Tree] stores its nodes in a single arena; a [Node] is a small handle
// (tree pointer plus index). Children and parents are indices into the same
// arena, so the only ownership edge is from the tree to its nodes, and
// dropping the tree releases everything at once.
//
// Grammars build trees bottom-up with a [Builder], which checks the
// structural invariants as each rule node is created: children are ordered
// and do not overlap, a rule's range is exactly the union of its children's,
// and every node has at most one parent. Violations are reported as
// [*MalformedTreeError]s at construction, never patched up later.
//
// Finished trees are immutable and safe for concurrent reads.
package tree
