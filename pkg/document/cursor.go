package document

// Cursor is a (line, column) position bound to a Document. Every
// public operation synchronizes the position to the current document
// state before acting, so a Cursor is always valid on return even if
// the document changed underneath it between calls.
type Cursor struct {
	Line, Column int
	doc          *Document
}

// NewCursor returns a cursor at (0, 0) bound to doc.
func NewCursor(doc *Document) *Cursor {
	return &Cursor{doc: doc}
}

// sync clamps the cursor to a valid position for the document's
// current state. If Line is past the last line, the cursor resets to
// the end of the last line; otherwise Column is clamped to the
// current line's length. Sync is idempotent.
func (c *Cursor) sync() {
	lastLine := c.doc.LineCount() - 1
	if c.Line > lastLine {
		c.Line = lastLine
		c.Column = c.doc.LineLength(lastLine)
		return
	}
	if c.Column > c.doc.LineLength(c.Line) {
		c.Column = c.doc.LineLength(c.Line)
	}
}

// Home moves to the start of the current line.
func (c *Cursor) Home() {
	c.sync()
	c.Column = 0
}

// End moves to the end of the current line.
func (c *Cursor) End() {
	c.sync()
	c.Column = c.doc.LineLength(c.Line)
}

// Up moves one line up, clamping the column; on the first line it
// behaves as Home.
func (c *Cursor) Up() {
	c.sync()
	if c.Line == 0 {
		c.Home()
		return
	}
	c.Line--
	c.sync()
}

// Down moves one line down, clamping both line and column.
func (c *Cursor) Down() {
	c.sync()
	c.Line++
	c.sync()
}

// Left moves one column left, wrapping to the end of the previous
// line at the start of a line.
func (c *Cursor) Left() {
	c.sync()
	if c.Column > 0 {
		c.Column--
		return
	}
	if c.Line > 0 {
		c.Up()
		c.End()
	}
}

// Right moves one column right, wrapping to the start of the next
// line at the end of a line.
func (c *Cursor) Right() {
	c.sync()
	if c.Column < c.doc.LineLength(c.Line) {
		c.Column++
		return
	}
	if c.Line != c.doc.LineCount()-1 {
		c.Down()
		c.Home()
	}
}

// Write inserts ch at the current position and advances past it.
func (c *Cursor) Write(ch byte) {
	c.sync()
	c.doc.InsertChar(c.Line, c.Column, ch)
	c.Right()
}

// Del deletes the byte at the current position (or joins lines, per
// Document.DeleteChar).
func (c *Cursor) Del() {
	c.sync()
	c.doc.DeleteChar(c.Line, c.Column)
}

// Backspace deletes the byte before the current position. A no-op at
// the very start of the document.
func (c *Cursor) Backspace() {
	if c.Line == 0 && c.Column == 0 {
		return
	}
	c.sync()
	c.Left()
	c.Del()
}

// BreakLine splits the current line at the cursor and moves to the
// start of the new line.
func (c *Cursor) BreakLine() {
	c.sync()
	c.doc.BreakLine(c.Line, c.Column)
	c.Down()
	c.Home()
}

// Tab inserts spaces up to the next width-4 tab stop.
func (c *Cursor) Tab() {
	c.sync()
	spaces := ((c.Column+4)/4)*4 - c.Column
	for i := 0; i < spaces; i++ {
		c.Write(' ')
	}
}
