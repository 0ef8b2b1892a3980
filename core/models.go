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
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// OriginKind identifies which kind of translation memory produced a record.
type OriginKind int

const (
	// OriginProject is the project's own translation memory.
	OriginProject OriginKind = iota + 1
	// OriginExternal is an externally loaded translation memory.
	OriginExternal
)

func (k OriginKind) String() string {
	switch k {
	case OriginProject:
		return "project"
	case OriginExternal:
		return "external"
	default:
		return "unknown"
	}
}

// EntryKey identifies a source segment within a project.
// Prev and Next carry the neighbouring segments' source text and are used
// to distinguish alternative translations of the same source text.
type EntryKey struct {
	File       string
	SourceText string
	ID         string
	Path       string
	Prev       string
	Next       string
}

// SourceTextEntry is one segment to translate.
type SourceTextEntry struct {
	Key     EntryKey
	Number  int // 1-based position in the project
	Comment string
}

// TranslationRecord is a single (source, translation) pair held by a translation memory.
// Empty language fields inherit the owning memory's nominal languages.
type TranslationRecord struct {
	Id             ID
	Source         string
	Translation    string
	SourceLanguage Language
	TargetLanguage Language
	Creator        string
	Changer        string
	CreatedAt      time.Time
	ChangedAt      time.Time
	Properties     map[string]string
	Alternative    *EntryKey // Set when the record is an alternative translation of a specific entry
}

// RecordID computes the content ID of a record within the named memory.
func RecordID(memoryID string, r *TranslationRecord) ID {
	alt := ""
	if r.Alternative != nil {
		k := r.Alternative
		alt = k.File + "\x00" + k.ID + "\x00" + k.Path + "\x00" + k.Prev + "\x00" + k.Next
	}
	return IDFromContent(memoryID + "\x00" + r.Source + "\x00" + r.Translation + "\x00" +
		r.TargetLanguage.String() + "\x00" + alt)
}

// NearString is a single match result.
type NearString struct {
	Source      string
	Translation string
	Score       int // 0-100, 100 means identical token sequences
	Similarity  int // 0-100, character-weighted Score ordering equal scores
	Origin      string
	OriginKind  OriginKind
	Priority    int // 0 for the project memory, 1+ for external memories in declaration order
	Language    Language
	Kind        MatchKind
	Creator     string
	ChangedAt   time.Time
	Properties  map[string]string
	Key         *EntryKey
}

// MemoryInfo describes a stored translation memory.
type MemoryInfo struct {
	Id             string
	Kind           OriginKind
	SourceLanguage Language
	TargetLanguage Language
	Path           string
	Position       int // Declaration order, assigned on first save
	RecordCount    int
	UpdatedAt      time.Time
}
