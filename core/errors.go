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

package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidRecord indicates a TranslationRecord failed validation.
	ErrInvalidRecord = errors.New("invalid translation record")

	// ErrEmptySource indicates the Source field is empty.
	ErrEmptySource = errors.New("source text cannot be empty")

	// ErrEmptyTranslation indicates the Translation field is empty.
	ErrEmptyTranslation = errors.New("translation text cannot be empty")

	// ErrInvalidLanguage indicates a language code could not be used.
	ErrInvalidLanguage = errors.New("invalid language")

	// ErrInvalidOriginKind indicates an OriginKind outside the known values.
	ErrInvalidOriginKind = errors.New("invalid origin kind")
)
