// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tokenizer splits segment text into comparable token sequences.
//
// Tokenizers are pure functions of their input: no I/O, no shared mutable
// state, safe for concurrent use. Two families are provided:
//   - DefaultTokenizer: language-agnostic, splits on non-letter boundaries
//   - StemmingTokenizer: default segmentation followed by Snowball stemming
//
// The Table type maps language base codes to tokenizers. It is an explicit
// value handed to whoever builds a search; nothing is registered globally.
package tokenizer
