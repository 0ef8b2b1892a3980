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

package storage

import (
	"fmt"

	"github.com/poiesic/tmatch/core"
)

// MarshalTranslationRecord serializes a TranslationRecord to bytes.
func MarshalTranslationRecord(record *core.TranslationRecord) []byte {
	buf := make([]byte, TranslationRecordMUS.Size(*record))
	TranslationRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalTranslationRecord deserializes a TranslationRecord from bytes.
func UnmarshalTranslationRecord(data []byte) (*core.TranslationRecord, error) {
	record, _, err := TranslationRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}

// MarshalMemoryInfo serializes a MemoryInfo to bytes.
func MarshalMemoryInfo(info *core.MemoryInfo) []byte {
	buf := make([]byte, MemoryInfoMUS.Size(*info))
	MemoryInfoMUS.Marshal(*info, buf)
	return buf
}

// UnmarshalMemoryInfo deserializes a MemoryInfo from bytes.
func UnmarshalMemoryInfo(data []byte) (*core.MemoryInfo, error) {
	info, _, err := MemoryInfoMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &info, nil
}
