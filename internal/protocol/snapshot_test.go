package protocol

import (
	"reflect"
	"testing"
)

func TestBuildSnapshotSortsCursors(t *testing.T) {
	s := BuildSnapshot([]string{"a", "bb"}, []CursorEntry{
		{Line: 1, Column: 0, ID: 5},
		{Line: 0, Column: 1, ID: 1},
		{Line: 0, Column: 0, ID: 2},
	})
	want := []CursorEntry{
		{Line: 0, Column: 0, ID: 2},
		{Line: 0, Column: 1, ID: 1},
		{Line: 1, Column: 0, ID: 5},
	}
	if !reflect.DeepEqual(s.Cursors, want) {
		t.Fatalf("Cursors = %v, want %v", s.Cursors, want)
	}
}

func TestSerializeExactBytes(t *testing.T) {
	// Scenario S1 from the spec: single client hello.
	s := BuildSnapshot([]string{""}, []CursorEntry{{Line: 0, Column: 0, ID: 0}})
	got := string(s.Serialize())
	want := "1\n0 0 0\n1\n\n"
	if got != want {
		t.Fatalf("Serialize() = %q, want %q", got, want)
	}
}

func TestSerializeExactBytesScenarioS3(t *testing.T) {
	s := BuildSnapshot([]string{"a", "b"}, []CursorEntry{{Line: 1, Column: 1, ID: 0}})
	got := string(s.Serialize())
	want := "1\n1 1 0\n2\na\nb\n"
	if got != want {
		t.Fatalf("Serialize() = %q, want %q", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	lines := []string{"hello world", "", "second line", "trailing"}
	cursors := []CursorEntry{
		{Line: 2, Column: 3, ID: 7},
		{Line: 0, Column: 11, ID: 0},
		{Line: 0, Column: 0, ID: 2},
	}

	s := BuildSnapshot(lines, cursors)
	data := s.Serialize()

	parsed, err := ParseSnapshot(data)
	if err != nil {
		t.Fatalf("ParseSnapshot: %v", err)
	}

	if !reflect.DeepEqual(parsed.Lines, lines) {
		t.Fatalf("Lines = %v, want %v", parsed.Lines, lines)
	}
	if !reflect.DeepEqual(parsed.Cursors, s.Cursors) {
		t.Fatalf("Cursors = %v, want %v", parsed.Cursors, s.Cursors)
	}
}

func TestRoundTripEmptyDocument(t *testing.T) {
	s := BuildSnapshot([]string{""}, nil)
	data := s.Serialize()

	parsed, err := ParseSnapshot(data)
	if err != nil {
		t.Fatalf("ParseSnapshot: %v", err)
	}
	if len(parsed.Cursors) != 0 {
		t.Fatalf("Cursors = %v, want empty", parsed.Cursors)
	}
	if !reflect.DeepEqual(parsed.Lines, []string{""}) {
		t.Fatalf("Lines = %v, want [\"\"]", parsed.Lines)
	}
}

func TestParseSnapshotRejectsGarbage(t *testing.T) {
	if _, err := ParseSnapshot([]byte("not a number\n")); err == nil {
		t.Fatal("expected error parsing garbage input")
	}
}

func TestParseSnapshotRejectsTruncatedInput(t *testing.T) {
	if _, err := ParseSnapshot([]byte("2\n0 0 0\n")); err == nil {
		t.Fatal("expected error parsing truncated cursor list")
	}
}
