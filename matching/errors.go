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

package matching

import "errors"

var (
	// ErrTokenizerRequired is returned when no source-language tokenizer is provided.
	ErrTokenizerRequired = errors.New("tokenizer required")

	// ErrInvalidMaxResults is returned when the result bound is not positive.
	ErrInvalidMaxResults = errors.New("max results must be positive")

	// ErrInvalidMinScore is returned when the minimum score is outside [0,100].
	ErrInvalidMinScore = errors.New("min score must be between 0 and 100")

	// ErrNilSource is returned when a context lists a nil memory source.
	ErrNilSource = errors.New("memory source is nil")
)
