package server

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"lineforge/pkg/logger"
)

// Server owns the TCP acceptor, the single shared document handler,
// and the live connection table. Ids are assigned from a monotonic
// counter and are never reused.
type Server struct {
	handler *DocumentHandler

	mu          sync.Mutex
	connections map[uint64]*Connection
	nextID      atomic.Uint64

	listener net.Listener

	broadcastBufferSize int
	writeTimeout        time.Duration
}

// NewServer creates a server around a fresh document. broadcastBufferSize
// is the per-connection outbound queue depth; writeTimeout bounds each
// individual snapshot write.
func NewServer(broadcastBufferSize int, writeTimeout time.Duration) *Server {
	return &Server{
		handler:             NewDocumentHandler(),
		connections:         make(map[uint64]*Connection),
		broadcastBufferSize: broadcastBufferSize,
		writeTimeout:        writeTimeout,
	}
}

// ListenAndServe binds addr and accepts connections until the listener
// is closed. A persistent accept failure is logged on every attempt;
// the loop otherwise keeps running, matching the "not explicitly
// handled but not fatal" accept-error policy.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.listener = ln

	logger.Info("server listening on %s", addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			logger.Error("accept error: %v", err)
			continue
		}
		s.accept(conn)
	}
}

// accept assigns the next client id to conn, registers its connection
// object, and starts it on its own goroutine so the caller can go on
// accepting.
func (s *Server) accept(conn net.Conn) {
	id := s.nextID.Add(1) - 1

	c := newConnection(id, conn, s)

	s.mu.Lock()
	s.connections[id] = c
	s.mu.Unlock()

	go c.start()
}

// broadcast iterates the connection table; expired connections are
// reaped, and the message is enqueued for every connection that
// remains, including the one that triggered the broadcast.
func (s *Server) broadcast(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range s.connections {
		if c.expired() {
			delete(s.connections, id)
			continue
		}
		c.send(data)
	}
}

// removeConnection drops id from the connection table. Called once a
// connection has fully cleaned up (cursor removed, reader stopped).
func (s *Server) removeConnection(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.connections, id)
}

// Shutdown closes the listener, refusing further accepts. In-flight
// connections are left to terminate on their own next read error,
// matching the spec's "no graceful close protocol" resource model.
func (s *Server) Shutdown() error {
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}
