// Package server implements the collaborative line-editor's
// authoritative document handler, TCP server, and per-client
// connections.
package server

import (
	"sync"

	"lineforge/internal/protocol"
	"lineforge/pkg/document"
	"lineforge/pkg/logger"
)

// DocumentHandler owns the single shared Document and the map from
// client id to that client's Cursor. All mutation and all reads go
// through the handler's lock, matching the single-writer concurrency
// model in the spec: operations are O(document size) and non-blocking,
// so one mutex around the whole handler is sufficient.
type DocumentHandler struct {
	mu      sync.Mutex
	doc     *document.Document
	cursors map[uint64]*document.Cursor
}

// NewDocumentHandler creates a handler around a fresh, empty document.
func NewDocumentHandler() *DocumentHandler {
	return &DocumentHandler{
		doc:     document.New(),
		cursors: make(map[uint64]*document.Cursor),
	}
}

// AddCursor registers a fresh cursor at (0,0) for id. If id is already
// registered, this logs and does nothing.
func (h *DocumentHandler) AddCursor(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.cursors[id]; exists {
		logger.Error("cursor with id %d already exists", id)
		return
	}
	h.cursors[id] = document.NewCursor(h.doc)
}

// RemoveCursor removes id's cursor, if present. Silent otherwise.
func (h *DocumentHandler) RemoveCursor(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.cursors, id)
}

// ProcessMessage interprets a 2-byte intent frame addressed to id. It
// reports false, performing no document mutation, when id has no
// registered cursor or the opcode is unrecognized.
func (h *DocumentHandler) ProcessMessage(id uint64, msg [2]byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	cursor, ok := h.cursors[id]
	if !ok {
		logger.Frame(id, msg, "unknown cursor id")
		return false
	}

	switch msg[0] {
	case protocol.OpWrite:
		cursor.Write(msg[1])
		return true
	case protocol.OpVerb:
		switch msg[1] {
		case protocol.VerbUp:
			cursor.Up()
		case protocol.VerbDown:
			cursor.Down()
		case protocol.VerbRight:
			cursor.Right()
		case protocol.VerbLeft:
			cursor.Left()
		case protocol.VerbHome:
			cursor.Home()
		case protocol.VerbEnd:
			cursor.End()
		case protocol.VerbBreakLine:
			cursor.BreakLine()
		case protocol.VerbDelete:
			cursor.Del()
		case protocol.VerbBackspace:
			cursor.Backspace()
		case protocol.VerbTab:
			cursor.Tab()
		default:
			logger.Frame(id, msg, "unrecognized verb")
			return false
		}
		return true
	default:
		logger.Frame(id, msg, "unrecognized opcode")
		return false
	}
}

// Snapshot builds a document image from the current document and
// every registered cursor's position.
func (h *DocumentHandler) Snapshot() *protocol.Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := make([]protocol.CursorEntry, 0, len(h.cursors))
	for id, cursor := range h.cursors {
		entries = append(entries, protocol.CursorEntry{
			Line:   cursor.Line,
			Column: cursor.Column,
			ID:     id,
		})
	}

	return protocol.BuildSnapshot(h.doc.Lines(), entries)
}

// Serialize returns the wire encoding of the current snapshot.
func (h *DocumentHandler) Serialize() []byte {
	return h.Snapshot().Serialize()
}
