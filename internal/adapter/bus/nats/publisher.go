package natsbus

import (
	"context"
	"encoding/json"
	"strings"

	"monsterforge/internal/domain/forge"
)

// TickFrame is the wire form of one zone tick's events.
type TickFrame struct {
	ZoneID string        `json:"zone_id"`
	Tick   int64         `json:"tick"`
	Events []forge.Event `json:"events"`
}

// Publisher fans a tick's events out on the zone's subject.
type Publisher struct {
	server *Server
}

func NewPublisher(server *Server) *Publisher {
	return &Publisher{server: server}
}

func (p *Publisher) PublishTick(_ context.Context, zoneID string, tick int64, events []forge.Event) error {
	data, err := json.Marshal(TickFrame{
		ZoneID: zoneID,
		Tick:   tick,
		Events: events,
	})
	if err != nil {
		return err
	}
	return p.server.Publish(SubjectForZone(zoneID), data)
}

// SubjectForZone maps a zone id onto its event subject. Dots would
// split NATS subject tokens, so they are flattened.
func SubjectForZone(zoneID string) string {
	return "zone." + strings.ReplaceAll(zoneID, ".", "_") + ".events"
}
