package server

import (
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The chat protocol carries no cookies or ambient credentials, so
	// cross-origin browser clients are allowed.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades an HTTP request and runs the standard connection
// lifecycle over it. Websocket clients speak the same protocol as TCP
// clients: each text message is one line.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		errorLog.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	s.wg.Add(1)
	defer s.wg.Done()
	s.handleConnection(newWSConn(ws), "ws")
}

// wsConn adapts a websocket connection to the byte-stream transport the
// server core reads and writes. Inbound, every message is terminated with an
// injected '\n' so the line framer sees message boundaries. Outbound, each
// write (always a single prompt or line) becomes one text message, with the
// delimiter stripped.
type wsConn struct {
	ws     *websocket.Conn
	reader io.Reader // current inbound message, nil between messages
}

func newWSConn(ws *websocket.Conn) *wsConn {
	return &wsConn{ws: ws}
}

func (c *wsConn) Read(p []byte) (int, error) {
	for {
		if c.reader == nil {
			msgType, r, err := c.ws.NextReader()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
					return 0, io.EOF
				}
				return 0, err
			}
			if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
				continue
			}
			c.reader = io.MultiReader(r, strings.NewReader("\n"))
		}

		n, err := c.reader.Read(p)
		if err == io.EOF {
			c.reader = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (c *wsConn) Write(p []byte) (int, error) {
	text := strings.TrimSuffix(string(p), "\n")
	if err := c.ws.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *wsConn) Close() error {
	return c.ws.Close()
}

func (c *wsConn) RemoteAddr() net.Addr {
	return c.ws.RemoteAddr()
}
