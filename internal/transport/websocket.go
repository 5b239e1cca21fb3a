package transport

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"drawsync/internal/engine"
	"drawsync/internal/middleware"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	pongWait     = 60 * time.Second
	pingPeriod   = (pongWait * 9) / 10 // send pings at 90% of the pong deadline
	writeTimeout = 10 * time.Second
)

// Handler upgrades HTTP requests to WebSocket connections and runs the
// per-connection message loop. It owns connection identity and in-order
// delivery; all session semantics live in the engine.
type Handler struct {
	engine    *engine.Engine
	connLimit *middleware.ConnLimiter
	limits    *middleware.Limits
	upgrader  websocket.Upgrader
}

func NewHandler(eng *engine.Engine, connLimit *middleware.ConnLimiter, limits *middleware.Limits, allowedOrigins []string) *Handler {
	return &Handler{
		engine:    eng,
		connLimit: connLimit,
		limits:    limits,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(allowedOrigins),
		},
	}
}

// originChecker allows any origin when no allowlist is configured (local
// development), otherwise requires an exact match.
func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		if len(allowed) == 0 {
			return true
		}
		origin := r.Header.Get("Origin")
		for _, a := range allowed {
			if origin == a {
				return true
			}
		}
		return false
	}
}

// ClientIP extracts the peer address. RemoteAddr only; forwarded headers
// can be spoofed by the client.
func ClientIP(r *http.Request) string {
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// wsConn serializes writes to one websocket connection. gorilla permits
// only one concurrent writer, and the broadcaster and ping loop both send.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) Send(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

// ServeHTTP upgrades the request and hands the connection to the engine.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clientIP := ClientIP(r)
	if !h.connLimit.Allow(clientIP) {
		log.Printf("connection rate limit exceeded for IP %s", clientIP)
		http.Error(w, "Too many connections", http.StatusTooManyRequests)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ws := &wsConn{conn: conn}
	client := h.engine.NewClient(ws)
	defer h.engine.Disconnect(client)

	h.run(conn, ws, client)
}

// run is the per-connection read loop. The transport guarantees in-order,
// one-at-a-time delivery per connection, which keeps each engine event
// atomic with respect to this client.
func (h *Handler) run(conn *websocket.Conn, ws *wsConn, client *engine.Client) {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	conn.SetReadLimit(int64(h.limits.MaxMessageSize))

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case <-pingTicker.C:
				if err := ws.ping(); err != nil {
					return // connection dead, read loop will notice
				}
			case <-done:
				return
			}
		}
	}()

	limiter := rate.NewLimiter(rate.Limit(h.limits.MessagesPerSec), h.limits.BurstSize)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("read error for client %s: %v", client.ID, err)
			}
			return
		}

		if !h.limits.ValidateMessageSize(len(msg)) {
			log.Printf("message too large from client %s: %d bytes", client.ID, len(msg))
			continue
		}

		if !limiter.Allow() {
			log.Printf("message rate limit exceeded for client %s", client.ID)
			continue
		}

		if err := h.engine.Route(client, msg); err != nil {
			log.Printf("dropping message from client %s: %v", client.ID, err)
			continue
		}
	}
}
