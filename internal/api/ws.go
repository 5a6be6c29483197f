package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talgya/hexworld/internal/hexgrid"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 1024
)

// wsMessage is a client request. Type is "select", "hover", "clear" or "ping".
type wsMessage struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// wsReply answers one wsMessage. Type is "selection", "path", "pong" or
// "error"; fields that do not apply are omitted.
type wsReply struct {
	Type     string          `json:"type"`
	Selected *hexgrid.Point  `json:"selected,omitempty"`
	Path     []hexgrid.Point `json:"path,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// session is one websocket client.
type session struct {
	ws     *websocket.Conn
	server *Server
	send   chan wsReply
	done   chan struct{} // closed when writePump exits
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("websocket upgrade failed", "error", err)
		return
	}
	sess := &session{ws: ws, server: s, send: make(chan wsReply, 16), done: make(chan struct{})}
	slog.Debug("websocket connected", "remote", r.RemoteAddr)

	sess.ws.SetReadLimit(maxMessageSize)
	sess.ws.SetReadDeadline(time.Now().Add(pongWait))
	sess.ws.SetPongHandler(func(string) error {
		sess.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go sess.writePump()
	sess.readPump()
}

// checkOrigin admits clients without an Origin header, same-host pages, and
// the origins allowed by CORS.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || s.origins[origin] {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && strings.EqualFold(u.Host, r.Host)
}

// readPump handles client messages until the connection closes.
func (c *session) readPump() {
	defer close(c.send)

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket read error", "error", err)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			msg.Type = "invalid"
		}
		wsMessages.WithLabelValues(messageLabel(msg.Type)).Inc()
		select {
		case c.send <- c.handle(msg):
		case <-c.done:
			return
		}
	}
}

func (c *session) handle(msg wsMessage) wsReply {
	p := hexgrid.Point{X: msg.X, Y: msg.Y}
	s := c.server

	switch msg.Type {
	case "select":
		s.mu.Lock()
		s.Map.SelectHex(p)
		selected := pointOrNil(s.Map.Selection())
		s.mu.Unlock()
		return wsReply{Type: "selection", Selected: selected}

	case "hover":
		start := time.Now()
		s.mu.Lock()
		blocked := !s.Map.IsWalkable(s.Map.Selection()) || !s.Map.IsWalkable(p)
		path := s.Map.HoverHex(p)
		hexes := s.Map.HighlightedHexes()
		selected := pointOrNil(s.Map.Selection())
		s.mu.Unlock()
		observePath(start, path, blocked)
		return wsReply{Type: "path", Selected: selected, Path: hexes}

	case "clear":
		s.mu.Lock()
		s.Map.ClearHighlight()
		selected := pointOrNil(s.Map.Selection())
		s.mu.Unlock()
		return wsReply{Type: "path", Selected: selected}

	case "ping":
		return wsReply{Type: "pong"}

	case "invalid":
		return wsReply{Type: "error", Error: "invalid message"}

	default:
		return wsReply{Type: "error", Error: "unknown message type " + msg.Type}
	}
}

// writePump sends replies and keepalive pings. It owns all writes to ws.
func (c *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.done)
		c.ws.Close()
	}()

	for {
		select {
		case reply, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteJSON(reply); err != nil {
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// messageLabel bounds the metric label set to the known message types.
func messageLabel(t string) string {
	switch t {
	case "select", "hover", "clear", "ping", "invalid":
		return t
	}
	return "unknown"
}
