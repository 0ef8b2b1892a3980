package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "simple content", content: "test content"},
		{name: "empty string", content: ""},
		{name: "long content", content: "This is a much longer piece of content that should still hash consistently"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestRecordID(t *testing.T) {
	base := TranslationRecord{Source: "Hello", Translation: "Hola", TargetLanguage: "es"}

	same := base
	if RecordID("tm", &base) != RecordID("tm", &same) {
		t.Error("RecordID() should be stable for identical records")
	}

	if RecordID("tm", &base) == RecordID("other", &base) {
		t.Error("RecordID() should depend on the memory ID")
	}

	alt := base
	alt.Alternative = &EntryKey{File: "a.txt", SourceText: "Hello", Prev: "Before"}
	if RecordID("tm", &base) == RecordID("tm", &alt) {
		t.Error("RecordID() should distinguish alternative translations")
	}
}

func TestOriginKind_String(t *testing.T) {
	tests := []struct {
		kind OriginKind
		want string
	}{
		{OriginProject, "project"},
		{OriginExternal, "external"},
		{OriginKind(0), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("OriginKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
