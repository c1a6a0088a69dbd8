package web

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
	"github.com/NewLifeSMP/NewLifeBotGo/pkg/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// liveClient is one /api/live connection. A nil filter receives everything.
type liveClient struct {
	conn   *websocket.Conn
	send   chan []byte
	filter map[models.EventType]bool
}

func (c *liveClient) wants(t models.EventType) bool {
	return c.filter == nil || c.filter[t]
}

type liveMsg struct {
	typ  models.EventType
	data []byte
}

// Hub streams moderation events to websocket clients.
type Hub struct {
	register   chan *liveClient
	unregister chan *liveClient
	broadcast  chan liveMsg
	done       chan struct{}

	mu      sync.RWMutex
	clients map[*liveClient]bool
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *liveClient),
		unregister: make(chan *liveClient),
		broadcast:  make(chan liveMsg, 256),
		done:       make(chan struct{}),
		clients:    make(map[*liveClient]bool),
	}
}

// Run serves the hub until ctx ends, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.drop(c)

		case msg := <-h.broadcast:
			var slow []*liveClient
			h.mu.RLock()
			for c := range h.clients {
				if !c.wants(msg.typ) {
					continue
				}
				select {
				case c.send <- msg.data:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.RUnlock()
			for _, c := range slow {
				h.drop(c)
			}
		}
	}
}

func (h *Hub) drop(c *liveClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish queues an event for every interested client. A full queue drops
// the event.
func (h *Hub) Publish(ev models.ModerationEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		logger.Error("Could not encode live event: "+err.Error(), "WebServer")
		return
	}
	select {
	case h.broadcast <- liveMsg{typ: ev.Type, data: data}:
	default:
		logger.Warn("Live event queue full, dropping "+string(ev.Type), "WebServer")
	}
}

// parseFilter reads "?types=ban,kick" into a set.
func parseFilter(raw string) map[models.EventType]bool {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	out := make(map[models.EventType]bool)
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(strings.ToLower(t)); t != "" {
			out[models.EventType(t)] = true
		}
	}
	return out
}

// ServeLive upgrades the request and streams events until the client leaves.
func (h *Hub) ServeLive(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("Websocket upgrade failed: "+err.Error(), "WebServer")
		return
	}
	client := &liveClient{
		conn:   conn,
		send:   make(chan []byte, 64),
		filter: parseFilter(c.Query("types")),
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go h.writePump(client)
	go h.readPump(client)
}

// readPump only watches for the close and keeps the pong deadline.
func (h *Hub) readPump(c *liveClient) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("Live client closed: "+err.Error(), "WebServer")
			}
			return
		}
	}
}

func (h *Hub) writePump(c *liveClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
