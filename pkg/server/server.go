package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tindrew/lanchat/pkg/credentials"
	"github.com/tindrew/lanchat/pkg/protocol"
)

var (
	errorLog = log.New(os.Stderr, "ERROR: ", log.LstdFlags)
	debugLog = log.New(io.Discard, "DEBUG: ", log.LstdFlags)
)

// EnableDebugLogging turns on per-connection debug logging to stderr.
func EnableDebugLogging() {
	debugLog = log.New(os.Stderr, "DEBUG: ", log.LstdFlags)
}

// Server is the chat server: one accept loop, one goroutine per connection,
// shared state confined to the session and group registries.
type Server struct {
	config   ServerConfig
	creds    *credentials.Store
	sessions *SessionManager
	groups   *GroupRegistry
	metrics  *Metrics

	listener      net.Listener
	wsServer      *http.Server
	metricsServer *http.Server

	shutdown  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	startTime time.Time
}

// NewServer creates a server instance over a preloaded credential store.
func NewServer(creds *credentials.Store, config ServerConfig) *Server {
	metrics := NewMetrics(prometheus.NewRegistry())

	sessions := NewSessionManager()
	sessions.SetMetrics(metrics)

	groups := NewGroupRegistry()
	groups.SetMetrics(metrics)

	return &Server{
		config:    config,
		creds:     creds,
		sessions:  sessions,
		groups:    groups,
		metrics:   metrics,
		shutdown:  make(chan struct{}),
		startTime: time.Now(),
	}
}

// Start binds the listeners and launches the accept loop. A bind or listen
// failure is fatal and returned to the caller; everything after that is
// handled per connection.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.TCPPort)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	log.Printf("%s listening on %s (%d known users)", s.config.ServerName, listener.Addr(), s.creds.Len())

	if s.config.MetricsPort > 0 {
		mux := http.NewServeMux()
		mux.Handle("/metrics", s.metrics.Handler())
		mux.HandleFunc("/health", s.HealthHandler)
		s.metricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", s.config.MetricsPort),
			Handler: mux,
		}
		go func() {
			log.Printf("Metrics server listening on :%d (/metrics, /health) - INTERNAL ONLY", s.config.MetricsPort)
			if err := s.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errorLog.Printf("Metrics server error: %v", err)
			}
		}()
	}

	if s.config.WSPort > 0 {
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", s.HandleWebSocket)
		s.wsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", s.config.WSPort),
			Handler: mux,
		}
		go func() {
			log.Printf("WebSocket server listening on :%d (/ws)", s.config.WSPort)
			if err := s.wsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errorLog.Printf("WebSocket server error: %v", err)
			}
		}()
	}

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// Addr returns the bound TCP listener address. Useful when the configured
// port is 0 (tests).
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Stop gracefully stops the server: stop accepting, notify and close every
// session, wait for all connection handlers to finish.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		log.Println("Graceful shutdown initiated...")
		close(s.shutdown)

		if s.listener != nil {
			s.listener.Close()
		}
		if s.wsServer != nil {
			s.wsServer.Close()
		}
		if s.metricsServer != nil {
			s.metricsServer.Close()
		}

		for _, sess := range s.sessions.Snapshot() {
			// Best effort; the connection may already be gone.
			_ = sess.Conn.WriteLine(protocol.ShutdownNotice)
		}
		s.sessions.CloseAll()

		s.wg.Wait()
		log.Println("Graceful shutdown complete")
	})
}

// HealthHandler reports liveness plus a few gauges.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","uptime_seconds":%d,"sessions":%d,"groups":%d}`,
		int64(time.Since(s.startTime).Seconds()), s.sessions.Count(), s.groups.Count())
	fmt.Fprintln(w)
}

// acceptLoop accepts incoming TCP connections until shutdown. A failed
// accept is logged and the loop continues; it is never fatal.
func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return
			default:
				errorLog.Printf("Accept error: %v", err)
				continue
			}
		}

		if tcpConn, ok := conn.(*net.TCPConn); ok {
			tcpConn.SetNoDelay(true)
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn, "tcp")
		}()
	}
}

// handleConnection runs the full lifecycle of one client connection:
// authenticate, register, serve commands, tear down. Shared by the TCP and
// websocket transports.
func (s *Server) handleConnection(conn transport, transportName string) {
	sc := NewSafeConn(conn)
	defer sc.Close()

	s.metrics.RecordConnection(transportName)
	debugLog.Printf("new %s connection from %s", transportName, sc.RemoteAddr())

	reader := protocol.NewLineReader(sc.Reader(), s.config.MaxLineLength)

	username, ok := s.authenticate(sc, reader)
	if !ok {
		return
	}

	sess, evicted := s.sessions.Register(username, sc, transportName)
	if evicted != nil {
		debugLog.Printf("session %d: evicted by new login for %q (session %d)", evicted.ID, username, sess.ID)
		_ = evicted.Conn.WriteLine(protocol.EvictedNotice)
		evicted.Conn.Close()
	}

	s.notice(sess, protocol.AuthSuccessNotice)
	s.broadcastExcept(username, protocol.JoinedChat(username))
	debugLog.Printf("session %d: %s authenticated from %s (%s)", sess.ID, username, sess.RemoteAddr, transportName)

	s.messageLoop(sess, reader)

	// An evicted session's successor owns the username now; only the current
	// index holder tears down user-visible state.
	if s.sessions.Remove(sess.ID) {
		s.groups.RemoveMemberEverywhere(username)
		s.broadcastExcept(username, protocol.LeftChat(username))
		s.metrics.RecordDisconnect()
		debugLog.Printf("session %d: %s disconnected", sess.ID, username)
	}
}

// authenticate runs the two-prompt handshake against the credential store.
// Any failure (transport or credentials) notifies the client where possible
// and reports false; there is no retry.
func (s *Server) authenticate(sc *SafeConn, reader *protocol.LineReader) (string, bool) {
	if err := sc.WriteRaw(protocol.UsernamePrompt); err != nil {
		return "", false
	}
	username, err := reader.ReadLine()
	if err != nil {
		return "", false
	}

	if err := sc.WriteRaw(protocol.PasswordPrompt); err != nil {
		return "", false
	}
	password, err := reader.ReadLine()
	if err != nil {
		return "", false
	}

	if !s.creds.Verify(username, password) {
		s.metrics.RecordAuth("failure")
		debugLog.Printf("auth failure for %q from %s", username, sc.RemoteAddr())
		_ = sc.WriteLine(protocol.AuthFailureNotice)
		return "", false
	}

	s.metrics.RecordAuth("success")
	return username, true
}

// messageLoop reads and dispatches commands until the connection dies.
// Commands from one connection are processed strictly sequentially, which is
// what preserves per-sender message ordering.
func (s *Server) messageLoop(sess *Session, reader *protocol.LineReader) {
	for {
		line, err := reader.ReadLine()
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				debugLog.Printf("session %d: client disconnected", sess.ID)
			case errors.Is(err, protocol.ErrLineTooLong):
				errorLog.Printf("session %d: dropping connection: %v", sess.ID, err)
			default:
				debugLog.Printf("session %d: read error: %v", sess.ID, err)
			}
			return
		}

		s.dispatchCommand(sess, protocol.ParseCommand(line))
	}
}
