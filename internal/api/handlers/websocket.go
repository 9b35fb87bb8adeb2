package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/screener/internal/report"
	"github.com/wonny/screener/pkg/logger"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage is the envelope pushed to clients
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// RankingUpdate is the payload of a ranking_updated message
type RankingUpdate struct {
	GeneratedAt  time.Time    `json:"generated_at"`
	Ranked       int          `json:"ranked"`
	Failures     int          `json:"failures"`
	TopSafety    []report.Row `json:"top_safety"`
	TopPotential []report.Row `json:"top_potential"`
}

// WebSocketHub tracks connected clients and pushes ranking updates
// ⭐ SSOT: 웹소켓 브로드캐스트는 여기서만
type WebSocketHub struct {
	logger  *logger.Logger
	clients map[*websocket.Conn]*sync.Mutex
	mu      sync.RWMutex
}

// NewWebSocketHub creates an empty hub
func NewWebSocketHub(log *logger.Logger) *WebSocketHub {
	return &WebSocketHub{
		logger:  log,
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// HandleWebSocket upgrades the connection and keeps it until the client leaves
// GET /ws
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Error("Failed to upgrade WebSocket connection")
		return
	}

	h.mu.Lock()
	h.clients[conn] = &sync.Mutex{}
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.WithField("clients", total).Debug("WebSocket client connected")

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		remaining := len(h.clients)
		h.mu.Unlock()

		conn.Close()
		h.logger.WithField("clients", remaining).Debug("WebSocket client disconnected")
	}()

	// Read until the client disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.WithError(err).Warn("WebSocket error")
			}
			return
		}
	}
}

// Clients returns the number of connected clients
func (h *WebSocketHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastReport pushes a ranking_updated message to every client
func (h *WebSocketHub) BroadcastReport(rep *report.Report) {
	h.Broadcast(WSMessage{
		Type: "ranking_updated",
		Payload: RankingUpdate{
			GeneratedAt:  rep.GeneratedAt,
			Ranked:       len(rep.Rows),
			Failures:     len(rep.Failures),
			TopSafety:    rep.TopSafety,
			TopPotential: rep.TopPotential,
		},
	})
}

// Broadcast sends msg to all connected clients
func (h *WebSocketHub) Broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal websocket message")
		return
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	mutexes := make([]*sync.Mutex, 0, len(h.clients))
	for conn, mu := range h.clients {
		conns = append(conns, conn)
		mutexes = append(mutexes, mu)
	}
	h.mu.RUnlock()

	for i, conn := range conns {
		mutexes[i].Lock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		err := conn.WriteMessage(websocket.TextMessage, data)
		mutexes[i].Unlock()

		if err != nil {
			h.logger.WithError(err).Warn("Failed to send message to client")
		}
	}
}
