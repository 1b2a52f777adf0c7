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

// Package query provides read-only navigation over [tree.Tree]s: ancestor and
// descendant search, position lookup and text extraction.
//
// None of these functions mutate the tree, so they may be called concurrently
// on the same tree. A lookup that finds nothing is reported through an ok
// result or a zero [tree.Node], never as an error.
package query
