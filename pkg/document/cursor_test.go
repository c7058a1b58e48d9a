package document

import "testing"

// assertValid checks invariant 1: after every operation, the cursor's
// position is valid for the current document.
func assertValid(t *testing.T, d *Document, c *Cursor) {
	t.Helper()
	if c.Line < 0 || c.Line >= d.LineCount() {
		t.Fatalf("cursor line %d out of range [0, %d)", c.Line, d.LineCount())
	}
	if c.Column < 0 || c.Column > d.LineLength(c.Line) {
		t.Fatalf("cursor column %d out of range [0, %d]", c.Column, d.LineLength(c.Line))
	}
}

func TestCursorHomeEnd(t *testing.T) {
	d := New()
	c := NewCursor(d)
	c.Write('h')
	c.Write('i')
	assertValid(t, d, c)

	c.Home()
	assertValid(t, d, c)
	if c.Column != 0 {
		t.Fatalf("Column = %d, want 0", c.Column)
	}

	c.End()
	assertValid(t, d, c)
	if c.Column != 2 {
		t.Fatalf("Column = %d, want 2", c.Column)
	}
}

func TestCursorUpAtFirstLineGoesHome(t *testing.T) {
	d := New()
	c := NewCursor(d)
	c.Write('a')
	c.Up()
	assertValid(t, d, c)
	if c.Line != 0 || c.Column != 0 {
		t.Fatalf("Up on first line = (%d,%d), want (0,0)", c.Line, c.Column)
	}
}

func TestCursorLeftRightAcrossLines(t *testing.T) {
	d := New()
	c := NewCursor(d)
	c.Write('a')
	c.BreakLine()
	c.Write('b')
	assertValid(t, d, c)

	// cursor now at (1,1); left at column 0 of line 1 wraps to end of line 0
	c.Home()
	assertValid(t, d, c)
	c.Left()
	assertValid(t, d, c)
	if c.Line != 0 || c.Column != 1 {
		t.Fatalf("Left wrap = (%d,%d), want (0,1)", c.Line, c.Column)
	}

	c.Right()
	assertValid(t, d, c)
	if c.Line != 1 || c.Column != 0 {
		t.Fatalf("Right wrap = (%d,%d), want (1,0)", c.Line, c.Column)
	}
}

func TestCursorLeftAtDocumentStartIsNoOp(t *testing.T) {
	d := New()
	c := NewCursor(d)
	c.Left()
	assertValid(t, d, c)
	if c.Line != 0 || c.Column != 0 {
		t.Fatalf("Left at start = (%d,%d), want (0,0)", c.Line, c.Column)
	}
}

func TestCursorBackspaceAtStartIsNoOp(t *testing.T) {
	d := New()
	c := NewCursor(d)
	c.Backspace()
	assertValid(t, d, c)
	if d.LineCount() != 1 || d.LineLength(0) != 0 {
		t.Fatalf("document mutated by no-op backspace: %v", d.Lines())
	}
}

func TestCursorBackspaceJoinsLines(t *testing.T) {
	d := New()
	c := NewCursor(d)
	c.Write('a')
	c.BreakLine()
	c.Write('b')
	assertValid(t, d, c)

	c.Home()
	c.Backspace()
	assertValid(t, d, c)

	if d.LineCount() != 1 {
		t.Fatalf("LineCount() = %d, want 1", d.LineCount())
	}
	if d.Lines()[0] != "ab" {
		t.Fatalf("lines[0] = %q, want \"ab\"", d.Lines()[0])
	}
	if c.Line != 0 || c.Column != 1 {
		t.Fatalf("cursor after backspace = (%d,%d), want (0,1)", c.Line, c.Column)
	}
}

func TestCursorTabAdvancesToTabStop(t *testing.T) {
	d := New()
	c := NewCursor(d)
	c.Tab()
	assertValid(t, d, c)
	if c.Column != 4 {
		t.Fatalf("Column = %d, want 4", c.Column)
	}
	if d.Lines()[0] != "    " {
		t.Fatalf("lines[0] = %q, want 4 spaces", d.Lines()[0])
	}

	c.Tab()
	if c.Column != 8 {
		t.Fatalf("Column = %d, want 8", c.Column)
	}
}

func TestCursorSyncClampsAfterExternalDocumentShrink(t *testing.T) {
	d := New()
	c1 := NewCursor(d)
	c2 := NewCursor(d)

	c1.Write('a')
	c1.BreakLine()
	c1.Write('b')
	c1.Write('c')

	// c2 still thinks it's at (0,0); move it to the end of line 1 via cursor motion
	c2.Down()
	c2.End()
	assertValid(t, d, c2)

	// Now collapse line 1 away from under c2.
	d.DeleteLine(1)
	c2.Home() // triggers sync against the now-shorter document
	assertValid(t, d, c2)
}

func TestCursorWriteThenDeleteSequencePreservesValidity(t *testing.T) {
	d := New()
	c := NewCursor(d)
	ops := []func(){
		func() { c.Write('x') },
		func() { c.Write('y') },
		c.Left,
		c.BreakLine,
		func() { c.Write('z') },
		c.Up,
		c.End,
		c.Del,
		c.Backspace,
		c.Tab,
		c.Down,
		c.Home,
	}
	for _, op := range ops {
		op()
		assertValid(t, d, c)
	}
}
