package server

import (
	"io"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"lineforge/internal/protocol"
	"lineforge/pkg/logger"
)

// connState tracks a Connection's place in the NEW -> ALIVE -> EXPIRED
// lifecycle described in the spec. Writes are only enqueued while ALIVE.
type connState int32

const (
	connNew connState = iota
	connAlive
	connExpired
)

// Connection is a single accepted client. A writer goroutine drains a
// per-connection outbound queue while the reader loop (run on the
// caller's goroutine) pulls fixed-size frames off the socket, so
// concurrent broadcasts never interleave writes on the same socket.
type Connection struct {
	id     uint64
	conn   net.Conn
	server *Server

	state      atomic.Int32
	outbound   chan []byte
	writerDone chan struct{}

	// sendMu serializes every enqueue onto outbound against the single
	// close(outbound) in cleanup, so a broadcast from another
	// connection's goroutine can never land on a closed channel.
	sendMu sync.Mutex
	closed bool
}

func newConnection(id uint64, conn net.Conn, s *Server) *Connection {
	return &Connection{
		id:         id,
		conn:       conn,
		server:     s,
		outbound:   make(chan []byte, s.broadcastBufferSize),
		writerDone: make(chan struct{}),
	}
}

// start registers the connection's cursor, marks it ALIVE, sends the
// handshake, and runs the writer goroutine and the read loop. It
// returns once the connection has fully expired and cleaned up.
func (c *Connection) start() {
	c.server.handler.AddCursor(c.id)
	c.state.Store(int32(connAlive))

	logger.Info("client connected, id=%d", c.id)

	go c.writeLoop()

	// The handshake is just the first outbound message, so it goes
	// through the same single-producer outbound queue every broadcast
	// does — never a direct write racing the writer goroutine.
	c.send([]byte(strconv.FormatUint(c.id, 10)))

	c.readLoop()
	c.cleanup()
}

// readLoop posts successive fixed-size frame reads until the first
// read error, which marks the connection EXPIRED.
func (c *Connection) readLoop() {
	frame := make([]byte, protocol.FrameSize)
	for {
		if _, err := io.ReadFull(c.conn, frame); err != nil {
			logger.Debug("read error on id=%d: %v", c.id, err)
			c.state.Store(int32(connExpired))
			return
		}
		c.handleFrame([2]byte{frame[0], frame[1]})
	}
}

// handleFrame dispatches one inbound frame per the spec's §4.5 rules:
// "DD" triggers a broadcast without touching the handler; anything
// else is routed to the handler, and a broadcast follows only if the
// handler accepted it.
func (c *Connection) handleFrame(frame [2]byte) {
	if string(frame[:]) == protocol.Hello {
		c.server.broadcast(c.server.handler.Serialize())
		return
	}

	if ok := c.server.handler.ProcessMessage(c.id, frame); ok {
		c.server.broadcast(c.server.handler.Serialize())
	}
}

// writeLoop drains the outbound queue and writes each message to the
// socket. Write errors are logged but never change liveness: only
// read errors do, per the spec's conservative liveness policy.
func (c *Connection) writeLoop() {
	defer close(c.writerDone)
	for data := range c.outbound {
		if err := c.writeDirect(data); err != nil {
			logger.Error("write error on id=%d: %v", c.id, err)
		}
	}
}

func (c *Connection) writeDirect(data []byte) error {
	if c.server.writeTimeout > 0 {
		c.conn.SetWriteDeadline(time.Now().Add(c.server.writeTimeout))
	}
	_, err := c.conn.Write(data)
	return err
}

// send enqueues data for this connection if it is ALIVE; otherwise the
// message is dropped and logged. Holding sendMu across the liveness
// check and the enqueue keeps this serialized against cleanup's
// close(c.outbound): either this runs first and the value is queued
// before the channel closes, or cleanup runs first and closed is
// already true by the time send observes it.
func (c *Connection) send(data []byte) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed || connState(c.state.Load()) != connAlive {
		logger.Debug("dropping write to non-alive connection id=%d", c.id)
		return
	}
	select {
	case c.outbound <- data:
	default:
		logger.Error("outbound queue full for id=%d, dropping broadcast", c.id)
	}
}

// expired reports whether the connection has transitioned out of ALIVE.
func (c *Connection) expired() bool {
	return connState(c.state.Load()) == connExpired
}

// cleanup removes the client's cursor from the handler, stops the
// writer goroutine, and closes the socket. Mirrors the destructor
// behavior in the spec's Connection lifecycle. Closing outbound under
// sendMu, rather than bare, is what keeps a concurrent broadcast's
// send() from ever reaching a send on a closed channel.
func (c *Connection) cleanup() {
	logger.Info("client disconnected, id=%d", c.id)
	c.server.handler.RemoveCursor(c.id)

	c.sendMu.Lock()
	c.closed = true
	close(c.outbound)
	c.sendMu.Unlock()

	<-c.writerDone
	c.conn.Close()
	c.server.removeConnection(c.id)
}
