// Package stream pushes live tick events to websocket clients. Each
// connection subscribes to its zone's bus subject; targeted events are
// filtered to the connected player before they leave the server.
package stream

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	natsbus "monsterforge/internal/adapter/bus/nats"
	"monsterforge/internal/domain/forge"
)

const writeWait = 10 * time.Second

// Subscriber is the bus surface the gateway needs; the embedded NATS
// server satisfies it.
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// Frame is what a client receives: one zone tick's events, already
// filtered to that client's player.
type Frame struct {
	ZoneID string        `json:"zone_id"`
	Tick   int64         `json:"tick"`
	Events []forge.Event `json:"events"`
}

type Gateway struct {
	bus      Subscriber
	logger   *log.Logger
	upgrader websocket.Upgrader
}

func NewGateway(bus Subscriber, logger *log.Logger) *Gateway {
	if logger == nil {
		logger = log.Default()
	}
	return &Gateway{
		bus:    bus,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("player_id")
	zoneID := r.URL.Query().Get("zone_id")
	if playerID == "" || zoneID == "" {
		http.Error(w, "player_id and zone_id query params required", http.StatusBadRequest)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Printf("stream upgrade failed for %s: %v", playerID, err)
		return
	}

	var writeMu sync.Mutex
	unsubscribe, err := g.bus.Subscribe(natsbus.SubjectForZone(zoneID), func(data []byte) {
		var frame natsbus.TickFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			g.logger.Printf("stream: bad tick frame on zone %s: %v", zoneID, err)
			return
		}
		visible := forge.VisibleTo(frame.Events, playerID)
		if len(visible) == 0 {
			return
		}
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(Frame{ZoneID: frame.ZoneID, Tick: frame.Tick, Events: visible}); err != nil {
			_ = conn.Close()
		}
	})
	if err != nil {
		g.logger.Printf("stream subscribe failed for zone %s: %v", zoneID, err)
		_ = conn.Close()
		return
	}
	defer unsubscribe()
	defer conn.Close()

	// Clients never send payloads; the read loop only notices the
	// connection going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
