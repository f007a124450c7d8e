package server

import (
	"net/http"
	"papertrader/types"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = 30 * time.Second
	sendBufSize = 16
)

// priceFrame is what a stream subscriber receives on every tick.
type priceFrame struct {
	Type string `json:"type"`
	types.PriceTick
}

type streamClient struct {
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

func (c *streamClient) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// hub fans price frames out to websocket clients. A client whose buffer is
// full misses that frame.
type hub struct {
	log *zap.Logger

	mu      sync.RWMutex
	clients map[*streamClient]struct{}
	closed  bool
}

func newHub(log *zap.Logger) *hub {
	return &hub{
		log:     log,
		clients: make(map[*streamClient]struct{}),
	}
}

func encodeTick(tick types.PriceTick) ([]byte, error) {
	return json.Marshal(priceFrame{Type: "prices", PriceTick: tick})
}

func (h *hub) add(c *streamClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *hub) remove(c *streamClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
}

func (h *hub) broadcast(tick types.PriceTick) {
	msg, err := encodeTick(tick)
	if err != nil {
		h.log.Error("encode price frame", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.log.Debug("stream client too slow, frame dropped", zap.Int64("seq", tick.Seq))
		}
	}
}

func (h *hub) size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// close disconnects every client and refuses new ones.
func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// serveStream upgrades the request and sends the current prices, then one
// frame per tick until the client goes away.
func (s *Server) serveStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", zap.Error(err))
		return
	}

	client := &streamClient{conn: conn, send: make(chan []byte, sendBufSize)}
	if msg, err := encodeTick(s.feed.Tick()); err == nil {
		client.send <- msg
	}
	if !s.hub.add(client) {
		_ = conn.Close()
		return
	}
	s.log.Info("stream client connected", zap.String(requestIDKey, c.GetString(requestIDKey)), zap.Int("clients", s.hub.size()))

	go client.writePump(s.log)
	client.readPump()

	s.hub.remove(client)
	s.log.Info("stream client disconnected", zap.String(requestIDKey, c.GetString(requestIDKey)))
}

func (c *streamClient) writePump(log *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Debug("stream write", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards client messages and returns once the connection fails.
func (c *streamClient) readPump() {
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
