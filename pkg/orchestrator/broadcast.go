package orchestrator

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/gridward/adequacy_sim/pkg/progressfeed"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the feed is read-only progress data
	},
}

// Broadcaster fans progress events out to attached websocket clients.
// writeMutex serializes every connection write: batch workers publish
// concurrently, and gorilla/websocket supports at most one concurrent
// writer per connection.
type Broadcaster struct {
	clients      map[*websocket.Conn]bool
	clientsMutex sync.RWMutex
	writeMutex   sync.Mutex
	lastEvent    *progressfeed.ProgressEvent
	log          zerolog.Logger
}

func NewBroadcaster(log zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		clients: make(map[*websocket.Conn]bool),
		log:     log,
	}
}

// Broadcast sends the event to every attached client, dropping clients
// whose connection has gone away.
func (b *Broadcaster) Broadcast(event *progressfeed.ProgressEvent) {
	b.clientsMutex.Lock()
	b.lastEvent = event
	clients := make([]*websocket.Conn, 0, len(b.clients))
	for client := range b.clients {
		clients = append(clients, client)
	}
	b.clientsMutex.Unlock()

	data := event.ToJsonBytes()
	if data == nil {
		return
	}
	b.writeMutex.Lock()
	defer b.writeMutex.Unlock()
	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			b.RemoveClient(client)
		}
	}
}

func (b *Broadcaster) AddClient(conn *websocket.Conn) {
	b.clientsMutex.Lock()
	b.clients[conn] = true
	b.clientsMutex.Unlock()
}

func (b *Broadcaster) RemoveClient(conn *websocket.Conn) {
	b.clientsMutex.Lock()
	delete(b.clients, conn)
	b.clientsMutex.Unlock()
	conn.Close()
}

// HandleWs upgrades an HTTP request to a feed subscription, replaying
// the latest event so late joiners see current progress immediately.
func (b *Broadcaster) HandleWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	b.AddClient(conn)

	// Replay under the write lock so the snapshot cannot interleave
	// with a broadcast in flight on another goroutine.
	b.writeMutex.Lock()
	b.clientsMutex.RLock()
	last := b.lastEvent
	b.clientsMutex.RUnlock()
	if last != nil {
		if data := last.ToJsonBytes(); data != nil {
			conn.WriteMessage(websocket.TextMessage, data)
		}
	}
	b.writeMutex.Unlock()

	// Keep the connection open until the client goes away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				b.RemoveClient(conn)
				return
			}
		}
	}()
}
