// Command client is the terminal front-end for lineforge: it puts the
// controlling terminal into raw mode, turns keystrokes into 2-byte
// intent frames, and renders whatever snapshot the server last
// broadcast.
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"golang.org/x/term"

	"lineforge/internal/protocol"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: client <host>")
		os.Exit(1)
	}

	addr := net.JoinHostPort(os.Args[1], protocol.Port)
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to %s: %v\n", addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	id, err := readHandshake(conn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "handshake: %v\n", err)
		os.Exit(1)
	}

	if _, err := conn.Write([]byte(protocol.Hello)); err != nil {
		fmt.Fprintf(os.Stderr, "send hello: %v\n", err)
		os.Exit(1)
	}

	fd := int(os.Stdin.Fd())
	var oldState *term.State
	if term.IsTerminal(fd) {
		oldState, err = term.MakeRaw(fd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "raw mode: %v\n", err)
			os.Exit(1)
		}
		defer term.Restore(fd, oldState)
	}

	v := newViewer(id)
	done := make(chan struct{})

	go func() {
		defer close(done)
		readSnapshots(conn, v)
	}()

	readKeystrokes(conn, oldState, fd)
	<-done
}

// readHandshake reads whatever the first read returns (the protocol's
// handshake carries no delimiter) and parses the leading run of
// decimal digits, stopping at the first non-digit or buffer end.
func readHandshake(conn net.Conn) (uint64, error) {
	buf := make([]byte, 32)
	n, err := conn.Read(buf)
	if err != nil {
		return 0, fmt.Errorf("read: %w", err)
	}

	end := 0
	for end < n && buf[end] >= '0' && buf[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, fmt.Errorf("no digits in handshake %q", buf[:n])
	}
	return strconv.ParseUint(string(buf[:end]), 10, 64)
}

// readSnapshots reads broadcast snapshots off conn and renders each
// one. Per spec §6/§9, the wire protocol has no length prefix, so a
// single read of the default buffer size is assumed to hold one whole
// snapshot.
func readSnapshots(conn net.Conn, v *viewer) {
	buf := make([]byte, protocol.DefaultReadBufferSize)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		snap, err := protocol.ParseSnapshot(buf[:n])
		if err != nil {
			continue
		}
		v.render(snap)
	}
}

// readKeystrokes translates raw terminal input into 2-byte intent
// frames and writes them to conn until stdin closes, the peer drops
// the read side, or the user presses Ctrl-C.
func readKeystrokes(conn net.Conn, oldState *term.State, fd int) {
	r := bufio.NewReader(os.Stdin)
	for {
		b, err := r.ReadByte()
		if err != nil {
			return
		}

		frame, quit := translateKey(b, r)
		if quit {
			if oldState != nil {
				term.Restore(fd, oldState)
			}
			return
		}
		if frame == nil {
			continue
		}
		if _, err := conn.Write(frame); err != nil {
			return
		}
	}
}

// translateKey maps one leading input byte (consuming further bytes
// from r for escape sequences) to a 2-byte frame. It mirrors the
// original ncurses client's switch over KEY_* constants.
func translateKey(b byte, r *bufio.Reader) (frame []byte, quit bool) {
	switch b {
	case 0x03: // Ctrl-C
		return nil, true
	case '\r', '\n':
		return []byte{protocol.OpVerb, protocol.VerbBreakLine}, false
	case 0x7f, 0x08:
		return []byte{protocol.OpVerb, protocol.VerbBackspace}, false
	case '\t':
		return []byte{protocol.OpVerb, protocol.VerbTab}, false
	case 0x1b:
		return translateEscape(r)
	default:
		return []byte{protocol.OpWrite, b}, false
	}
}

// translateEscape consumes a CSI escape sequence ("\x1b[...") and maps
// the common arrow/home/end/delete keys emitted by xterm-family
// terminals to their verb frames. Unrecognized sequences are dropped.
func translateEscape(r *bufio.Reader) (frame []byte, quit bool) {
	b1, err := r.ReadByte()
	if err != nil || b1 != '[' {
		return nil, false
	}
	b2, err := r.ReadByte()
	if err != nil {
		return nil, false
	}

	switch b2 {
	case 'A':
		return []byte{protocol.OpVerb, protocol.VerbUp}, false
	case 'B':
		return []byte{protocol.OpVerb, protocol.VerbDown}, false
	case 'C':
		return []byte{protocol.OpVerb, protocol.VerbRight}, false
	case 'D':
		return []byte{protocol.OpVerb, protocol.VerbLeft}, false
	case 'H':
		return []byte{protocol.OpVerb, protocol.VerbHome}, false
	case 'F':
		return []byte{protocol.OpVerb, protocol.VerbEnd}, false
	case '1', '3', '4', '7', '8':
		// Numbered CSI sequences ("\x1b[3~" for Delete, etc.) carry a
		// trailing '~' that must still be consumed.
		tail, err := r.ReadByte()
		if err != nil {
			return nil, false
		}
		if tail != '~' {
			return nil, false
		}
		switch b2 {
		case '3':
			return []byte{protocol.OpVerb, protocol.VerbDelete}, false
		case '1', '7':
			return []byte{protocol.OpVerb, protocol.VerbHome}, false
		case '4', '8':
			return []byte{protocol.OpVerb, protocol.VerbEnd}, false
		}
	}
	return nil, false
}
