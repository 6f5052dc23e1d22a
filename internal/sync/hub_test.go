package sync

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietHub() *Hub {
	return NewHub(log.New(io.Discard, "", 0))
}

func readEvent(t *testing.T, r *bufio.Reader, conn net.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	line, err := r.ReadBytes('\n')
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(line, &m))
	return m
}

func TestServer_WelcomeReplayAndBroadcast(t *testing.T) {
	hub := quietHub()
	hub.BroadcastJSON(SyncEvent{Type: SyncedEventType, Key: "Boise, ID", Count: 2})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewServer("", hub).Serve(ctx, ln) }()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	r := bufio.NewReader(conn)

	hello := readEvent(t, r, conn)
	assert.Equal(t, "welcome", hello["type"])
	assert.Equal(t, "tcp", hello["transport"])

	replayed := readEvent(t, r, conn)
	assert.Equal(t, SyncedEventType, replayed["type"])
	assert.Equal(t, "Boise, ID", replayed["key"])

	assert.Equal(t, Stats{TCPClients: 1, Backlog: 1}, hub.Stats())

	hub.BroadcastJSON(SyncEvent{Type: SyncedEventType, Key: "Reno, NV", Error: "boom"})
	live := readEvent(t, r, conn)
	assert.Equal(t, "Reno, NV", live["key"])
	assert.Equal(t, "boom", live["error"])

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestHub_BacklogIsBounded(t *testing.T) {
	hub := quietHub()
	for i := 0; i < backlogSize+10; i++ {
		hub.BroadcastJSON(map[string]int{"n": i})
	}
	assert.Equal(t, backlogSize, hub.Stats().Backlog)
	assert.JSONEq(t, `{"n":10}`, strings.TrimSpace(string(hub.backlog[0])))
}

func TestHub_DropsBrokenClient(t *testing.T) {
	hub := quietHub()
	server, client := net.Pipe()
	go func() { _, _ = io.Copy(io.Discard, client) }()
	hub.Add(server)
	require.Equal(t, 1, hub.Stats().TCPClients)

	_ = client.Close()
	hub.BroadcastJSON(map[string]string{"type": "ping"})
	assert.Equal(t, 0, hub.Stats().TCPClients)
}

func TestWSHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := quietHub()
	r := gin.New()
	r.GET("/ws", WSHandler(hub))
	r.GET("/events/stats", StatsHandler(hub))
	srv := httptest.NewServer(r)
	defer srv.Close()
	defer hub.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer ws.Close()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))

	var hello welcome
	require.NoError(t, ws.ReadJSON(&hello))
	assert.Equal(t, "websocket", hello.Transport)

	resp, err := http.Get(srv.URL + "/events/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	var stats Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, 1, stats.WSClients)

	hub.BroadcastJSON(SyncEvent{Type: SyncedEventType, Key: "Austin, TX", Count: 9})
	var ev SyncEvent
	require.NoError(t, ws.ReadJSON(&ev))
	assert.Equal(t, "Austin, TX", ev.Key)
	assert.Equal(t, 9, ev.Count)
}
