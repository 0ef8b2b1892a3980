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

package tmatch

import "errors"

var (
	// ErrInvalidProperties is returned when a project is opened without a
	// usable language pair.
	ErrInvalidProperties = errors.New("invalid project properties")

	// ErrReservedMemoryID is returned when an external memory would take the
	// project memory's ID, or when the project memory is removed.
	ErrReservedMemoryID = errors.New("memory ID is reserved for the project memory")

	// ErrEmptyTranslation is returned when confirming an empty translation.
	ErrEmptyTranslation = errors.New("translation is empty")
)
