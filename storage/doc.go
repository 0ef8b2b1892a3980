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

// Package storage provides the persistence abstraction for translation memories.
//
// The matching engine never touches storage: memories are loaded into
// memory.Source implementations at project open, and confirmations are
// written back through MemoryRepository.
//
// # Constructor Return Type Pattern
//
// Public constructors of backend packages return the MemoryRepository
// interface so callers are not coupled to a particular backend:
//
//	repo, err := badger.NewMemoryRepository(backend)
//
// # Encoding
//
// Values are encoded with MUS (github.com/mus-format/mus-go). The
// serializers in codec.go are written by hand; field order is the wire
// order.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
