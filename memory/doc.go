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

// Package memory provides the translation memories a search reads from.
//
// Every memory implements Source. Two implementations exist:
//   - ProjectMemory: the project's own, mutable memory. Searches read an
//     immutable Snapshot so concurrent confirmations never disturb them.
//   - ExternalMemory: an immutable memory loaded from a file at project open.
//
// Sources fail closed: a source that cannot produce records yields nothing.
package memory
