package server

import (
	"io"
	"net"
	"sync"

	"github.com/tindrew/lanchat/pkg/protocol"
)

// transport is the connection surface the server needs from a client link.
// *net.TCPConn satisfies it directly; the websocket adapter satisfies it for
// /ws clients.
type transport interface {
	io.ReadWriteCloser
	RemoteAddr() net.Addr
}

// SafeConn wraps a transport with automatic write synchronization.
//
// Multiple goroutines write to the same connection: the session's own handler
// (notices) and every other session doing broadcast or group fan-out. Without
// synchronization their lines interleave mid-text on the wire. SafeConn
// encapsulates the connection and its write mutex so it is impossible to
// write without holding the lock.
type SafeConn struct {
	conn transport
	mu   sync.Mutex // protects writes to conn
}

// NewSafeConn wraps a transport with write synchronization.
func NewSafeConn(conn transport) *SafeConn {
	return &SafeConn{conn: conn}
}

// WriteLine sends one delimited protocol line. This and WriteRaw are the only
// ways to write to the connection - the raw conn is private.
func (sc *SafeConn) WriteLine(text string) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return protocol.WriteLine(sc.conn, text)
}

// WriteRaw sends text without a delimiter. Used for the auth prompts, which
// leave the client cursor on the prompt line.
func (sc *SafeConn) WriteRaw(text string) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	_, err := io.WriteString(sc.conn, text)
	return err
}

// Reader exposes the read side. Reads happen on a single goroutine (the
// connection handler) and need no synchronization.
func (sc *SafeConn) Reader() io.Reader {
	return sc.conn
}

// Close closes the underlying connection.
func (sc *SafeConn) Close() error {
	return sc.conn.Close()
}

// RemoteAddr returns the remote network address.
func (sc *SafeConn) RemoteAddr() net.Addr {
	return sc.conn.RemoteAddr()
}
