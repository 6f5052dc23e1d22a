package sync

import (
	"encoding/json"
	"log"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 2 * time.Second
	// backlogSize is how many recent messages a new subscriber is replayed.
	backlogSize = 32
)

// Hub fans newline-delimited JSON messages out to TCP and websocket
// subscribers. Slow or broken subscribers are dropped on the first failed
// write.
type Hub struct {
	Logger *log.Logger

	mu        sync.Mutex
	clients   map[net.Conn]struct{}
	wsClients map[*websocket.Conn]struct{}
	backlog   [][]byte
}

type Stats struct {
	TCPClients int `json:"tcp_clients"`
	WSClients  int `json:"ws_clients"`
	Backlog    int `json:"backlog"`
}

type welcome struct {
	Type      string `json:"type"`
	Transport string `json:"transport"`
	Clients   int    `json:"clients"`
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		Logger:    logger,
		clients:   make(map[net.Conn]struct{}),
		wsClients: make(map[*websocket.Conn]struct{}),
	}
}

// Add registers conn, greets it and replays the backlog.
func (h *Hub) Add(conn net.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = struct{}{}

	greeting := h.welcomeLocked("tcp")
	if err := writeConn(conn, greeting); err != nil {
		delete(h.clients, conn)
		_ = conn.Close()
		return
	}
	for _, msg := range h.backlog {
		if err := writeConn(conn, msg); err != nil {
			delete(h.clients, conn)
			_ = conn.Close()
			return
		}
	}
}

func (h *Hub) Remove(conn net.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

// AddWS registers ws, greets it and replays the backlog.
func (h *Hub) AddWS(ws *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.wsClients[ws] = struct{}{}

	greeting := h.welcomeLocked("websocket")
	if err := writeWS(ws, greeting); err != nil {
		delete(h.wsClients, ws)
		_ = ws.Close()
		return
	}
	for _, msg := range h.backlog {
		if err := writeWS(ws, msg); err != nil {
			delete(h.wsClients, ws)
			_ = ws.Close()
			return
		}
	}
}

func (h *Hub) RemoveWS(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.wsClients, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

// BroadcastJSON sends v to every subscriber and appends it to the backlog.
func (h *Hub) BroadcastJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.Logger.Printf("[hub] marshal broadcast: %v", err)
		return
	}
	b = append(b, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	h.backlog = append(h.backlog, b)
	if len(h.backlog) > backlogSize {
		h.backlog = h.backlog[len(h.backlog)-backlogSize:]
	}

	for c := range h.clients {
		if err := writeConn(c, b); err != nil {
			h.Logger.Printf("[hub] dropping tcp client %s: %v", c.RemoteAddr(), err)
			_ = c.Close()
			delete(h.clients, c)
		}
	}

	for ws := range h.wsClients {
		if err := writeWS(ws, b); err != nil {
			h.Logger.Printf("[hub] dropping ws client %s: %v", ws.RemoteAddr(), err)
			_ = ws.Close()
			delete(h.wsClients, ws)
		}
	}
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		TCPClients: len(h.clients),
		WSClients:  len(h.wsClients),
		Backlog:    len(h.backlog),
	}
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		_ = c.Close()
		delete(h.clients, c)
	}
	for ws := range h.wsClients {
		_ = ws.Close()
		delete(h.wsClients, ws)
	}
}

func (h *Hub) welcomeLocked(transport string) []byte {
	b, _ := json.Marshal(welcome{
		Type:      "welcome",
		Transport: transport,
		Clients:   len(h.clients) + len(h.wsClients),
	})
	return append(b, '\n')
}

func writeConn(c net.Conn, b []byte) error {
	_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
	_, err := c.Write(b)
	return err
}

func writeWS(ws *websocket.Conn, b []byte) error {
	_ = ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return ws.WriteMessage(websocket.TextMessage, b)
}
