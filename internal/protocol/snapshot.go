package protocol

import (
	"bufio"
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// CursorEntry is one row of a snapshot's cursor list: a cursor's
// position plus the client id that owns it.
type CursorEntry struct {
	Line   int
	Column int
	ID     uint64
}

// Snapshot is a document image: every line of text plus every live
// cursor's position. Serialize encodes it in the canonical form
// broadcast to clients (see grammar below).
type Snapshot struct {
	Lines   []string
	Cursors []CursorEntry
}

// BuildSnapshot sorts cursors ascending by (line, column) and produces
// a Snapshot ready to serialize. The input slices are not retained.
func BuildSnapshot(lines []string, cursors []CursorEntry) *Snapshot {
	sorted := make([]CursorEntry, len(cursors))
	copy(sorted, cursors)
	sortCursors(sorted)

	linesCopy := make([]string, len(lines))
	copy(linesCopy, lines)

	return &Snapshot{Lines: linesCopy, Cursors: sorted}
}

func sortCursors(cursors []CursorEntry) {
	sort.SliceStable(cursors, func(i, j int) bool {
		if cursors[i].Line != cursors[j].Line {
			return cursors[i].Line < cursors[j].Line
		}
		return cursors[i].Column < cursors[j].Column
	})
}

// Serialize encodes the snapshot per the wire grammar:
//
//	<cursor_count> "\n"
//	{ <line> " " <column> " " <id> "\n" }  x cursor_count
//	<line_count> "\n"
//	{ <line_bytes> "\n" }                    x line_count
//
// Lines are written verbatim; the grammar relies on lines never
// containing a newline byte, which the Document primitives guarantee.
func (s *Snapshot) Serialize() []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%d\n", len(s.Cursors))
	for _, c := range s.Cursors {
		fmt.Fprintf(&buf, "%d %d %d\n", c.Line, c.Column, c.ID)
	}

	fmt.Fprintf(&buf, "%d\n", len(s.Lines))
	for _, line := range s.Lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}

// ParseSnapshot decodes the wire grammar produced by Serialize.
// Cursors are re-sorted on the way out, matching BuildSnapshot.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	r := bufio.NewReader(bytes.NewReader(data))

	cursorCount, err := readCount(r)
	if err != nil {
		return nil, fmt.Errorf("read cursor count: %w", err)
	}

	cursors := make([]CursorEntry, 0, cursorCount)
	for i := 0; i < cursorCount; i++ {
		line, err := readLine(r)
		if err != nil {
			return nil, fmt.Errorf("read cursor entry %d: %w", i, err)
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("cursor entry %d: expected 3 fields, got %d", i, len(fields))
		}
		entryLine, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("cursor entry %d: bad line: %w", i, err)
		}
		entryColumn, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("cursor entry %d: bad column: %w", i, err)
		}
		entryID, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cursor entry %d: bad id: %w", i, err)
		}
		cursors = append(cursors, CursorEntry{Line: entryLine, Column: entryColumn, ID: entryID})
	}

	lineCount, err := readCount(r)
	if err != nil {
		return nil, fmt.Errorf("read line count: %w", err)
	}

	lines := make([]string, 0, lineCount)
	for i := 0; i < lineCount; i++ {
		line, err := readLine(r)
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", i, err)
		}
		lines = append(lines, line)
	}

	sortCursors(cursors)
	return &Snapshot{Lines: lines, Cursors: cursors}, nil
}

func readCount(r *bufio.Reader) (int, error) {
	line, err := readLine(r)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("not a count: %q: %w", line, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count: %d", n)
	}
	return n, nil
}

// readLine reads raw bytes up to (and excluding) the next newline.
// Unlike bufio.Scanner it never imposes an escaping rule: whatever
// bytes preceded the '\n' are returned verbatim.
func readLine(r *bufio.Reader) (string, error) {
	s, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(s, "\n"), nil
}
