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

// Package matching finds and ranks fuzzy translation-memory matches.
//
// A Finder searches a fixed set of memory Sources for a query segment:
//   - candidates are pulled from every source in priority order, project
//     memory first, and classified by the language of their translation
//   - each candidate's source text is tokenized and scored against the
//     query with a token-level edit distance
//   - scored candidates are filtered, deduplicated, ranked and truncated
//
// Searches never fail. Cancellation through a Probe returns the results
// gathered so far.
package matching
