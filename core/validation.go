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

import (
	"fmt"
	"strings"
)

// ValidateTranslationRecord validates a TranslationRecord according to domain rules.
//
// Validation rules:
//   - Source must not be empty or whitespace
//   - Translation must not be empty
//   - Declared languages, when present, must have a primary subtag
//
// NOT validated:
//   - ID (computed by the owning memory)
//   - Timestamps (TMX files routinely omit them)
func ValidateTranslationRecord(record *TranslationRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if strings.TrimSpace(record.Source) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptySource)
	}

	if record.Translation == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyTranslation)
	}

	if err := ValidateLanguage(record.SourceLanguage, true); err != nil {
		return fmt.Errorf("%w: source %w", ErrInvalidRecord, err)
	}
	if err := ValidateLanguage(record.TargetLanguage, true); err != nil {
		return fmt.Errorf("%w: target %w", ErrInvalidRecord, err)
	}

	return nil
}

// ValidateLanguage checks that a language code is usable.
// allowEmpty permits the undeclared zero value.
func ValidateLanguage(lang Language, allowEmpty bool) error {
	if lang.IsZero() {
		if allowEmpty {
			return nil
		}
		return fmt.Errorf("%w: empty code", ErrInvalidLanguage)
	}
	if lang.Base() == "" {
		return fmt.Errorf("%w: %q has no primary subtag", ErrInvalidLanguage, lang)
	}
	return nil
}

// ValidateOriginKind validates that an OriginKind has a valid value.
func ValidateOriginKind(kind OriginKind) error {
	if kind != OriginProject && kind != OriginExternal {
		return fmt.Errorf("%w: value %d", ErrInvalidOriginKind, kind)
	}
	return nil
}
