// Package protocol defines the wire protocol between client and server:
// opcodes, frame sizes, and the snapshot grammar.
package protocol

const (
	// Port is the server's default TCP listen port.
	Port = "6969"

	// FrameSize is the fixed size in bytes of every client-to-server frame.
	FrameSize = 2

	// DefaultReadBufferSize is the client's default read buffer size for
	// snapshot broadcasts. The protocol has no length prefix, so the
	// client assumes one snapshot arrives per read of a buffer this size.
	DefaultReadBufferSize = 10000
)

// Opcodes used in the first byte of a 2-byte client frame.
const (
	OpWrite = 'W' // msg[1] is the byte to insert at the cursor
	OpVerb  = 'S' // msg[1] selects a motion/edit verb below
)

// Verb codes used in the second byte of an "S" frame.
const (
	VerbUp        = 'U'
	VerbDown      = 'D'
	VerbRight     = 'R'
	VerbLeft      = 'L'
	VerbHome      = 'H'
	VerbEnd       = 'E'
	VerbBreakLine = 'B'
	VerbDelete    = 'X'
	VerbBackspace = 'A'
	VerbTab       = 'T'
)

// Hello is the literal two-byte frame a client sends immediately after
// reading its handshake id, requesting an initial snapshot broadcast.
// The transport layer intercepts it before it ever reaches the handler.
const Hello = "DD"
