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

// Command bslcore inspects how BSL modules are read, tokenized and parsed.
package main

import (
	"context"
	"os"

	"github.com/bufbuild/bslcore/internal/logging"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		logging.Default().Error("command failed", logging.FieldError, err)
		os.Exit(1)
	}
}
