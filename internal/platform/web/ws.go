package web

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	maxMessageSize = 512
	sendBuffer     = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// CameraMessage is a client frame: the camera position to cull around.
type CameraMessage struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// connection streams visible tiles to one WebSocket client.
type connection struct {
	ws   *websocket.Conn
	send chan any
	seen mapset.Set[uint32] // Distinct tiles shown on this connection
}

// serveWS handles GET /ws.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("cannot upgrade connection", "error", err)
		return
	}

	c := &connection{
		ws:   ws,
		send: make(chan any, sendBuffer),
		seen: mapset.New[uint32](),
	}
	s.logger.Debug("websocket connected", "remote", r.RemoteAddr)

	go c.writePump(s.pongWait * 9 / 10)
	s.readPump(c)
	s.logger.Debug("websocket closed", "remote", r.RemoteAddr, "seen", c.seen.Size())
}

// readPump answers each camera frame with the tiles visible from it. It owns
// the seen set and closes send on exit. A client that stops answering pings
// is dropped after pongWait.
func (s *Server) readPump(c *connection) {
	defer close(c.send)
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(s.pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(s.pongWait))
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		var msg CameraMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.send <- map[string]string{"error": "invalid JSON"}
			continue
		}
		if msg.X == nil || msg.Y == nil || !finite(*msg.X) || !finite(*msg.Y) {
			c.send <- map[string]string{"error": "x and y are required numbers"}
			continue
		}

		tiles := s.viewport.Visible(s.dungeon, *msg.X, *msg.Y)
		for _, t := range tiles {
			c.seen.Put(t.ID)
		}
		if tiles == nil {
			tiles = []dungeon.Tile{}
		}
		c.send <- TilesResponse{Tiles: tiles, Seen: c.seen.Size()}
	}
}

// writePump writes queued responses until send is closed and pings the
// client every pingPeriod.
func (c *connection) writePump(pingPeriod time.Duration) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.ws.WriteJSON(msg); err != nil {
				c.abort()
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.abort()
				return
			}
		}
	}
}

// abort closes the socket to unblock readPump and drains send so it never
// blocks on a dead writer.
func (c *connection) abort() {
	c.ws.Close()
	for range c.send {
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
