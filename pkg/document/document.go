// Package document implements the shared line-oriented text buffer and
// the per-client cursors that mutate it.
package document

// Document is an ordered sequence of lines. It is never empty: a fresh
// or fully-cleared document holds exactly one empty line.
type Document struct {
	lines []string
}

// New returns an empty document: a single empty line.
func New() *Document {
	return &Document{lines: make([]string, 1)}
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// LineLength returns the length of line L, or 0 if L is out of range.
func (d *Document) LineLength(line int) int {
	if line < 0 || line >= len(d.lines) {
		return 0
	}
	return len(d.lines[line])
}

// Lines returns the current lines. The caller must not mutate the
// returned slice or its elements.
func (d *Document) Lines() []string {
	return d.lines
}

// InsertLine inserts content as a new line before index line. An index
// at or past LineCount appends.
func (d *Document) InsertLine(line int, content string) {
	if line > len(d.lines) {
		line = len(d.lines)
	}
	if line < 0 {
		line = 0
	}
	d.lines = append(d.lines, "")
	copy(d.lines[line+1:], d.lines[line:])
	d.lines[line] = content
}

// DeleteLine removes line if in range. It is a no-op if line is out of
// range, and a no-op when line is the only remaining line, preserving
// the LineCount >= 1 invariant.
func (d *Document) DeleteLine(line int) {
	if line < 0 || line >= len(d.lines) {
		return
	}
	if len(d.lines) == 1 {
		return
	}
	d.lines = append(d.lines[:line], d.lines[line+1:]...)
}

// BreakLine splits line at column: the suffix becomes a new line
// immediately after it, and line keeps the prefix. A no-op if line is
// out of range; column is assumed in range.
func (d *Document) BreakLine(line, column int) {
	if line < 0 || line >= len(d.lines) {
		return
	}
	content := d.lines[line]
	d.lines[line] = content[:column]
	d.InsertLine(line+1, content[column:])
}

// InsertChar inserts a single byte into line at column. A no-op if
// line is out of range.
func (d *Document) InsertChar(line, column int, ch byte) {
	if line < 0 || line >= len(d.lines) {
		return
	}
	content := d.lines[line]
	d.lines[line] = content[:column] + string(ch) + content[column:]
}

// DeleteChar deletes the byte at (line, column). If column is past the
// end of the last line, it is a no-op. If column is at the end of a
// non-last line, the next line is joined onto it. A no-op if line is
// out of range.
func (d *Document) DeleteChar(line, column int) {
	if line < 0 || line >= len(d.lines) {
		return
	}
	lineLen := len(d.lines[line])
	if column == lineLen && line+1 < len(d.lines) {
		d.lines[line] += d.lines[line+1]
		d.lines = append(d.lines[:line+1], d.lines[line+2:]...)
		return
	}
	if column < lineLen {
		d.lines[line] = d.lines[line][:column] + d.lines[line][column+1:]
	}
}
