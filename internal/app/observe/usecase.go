// Package observe projects a zone's persisted state into one player's
// view: their monsters and commune, every entity on the grid, and the
// recent events addressed to them.
package observe

import (
	"context"
	"errors"
	"strings"
	"time"

	"monsterforge/internal/app/ports"
	"monsterforge/internal/domain/forge"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 200
)

var (
	ErrPlayerRequired = errors.New("player id required")
	ErrZoneRequired   = errors.New("zone id required")
)

type UseCase struct {
	Entities ports.EntityRepository
	Events   ports.EventRepository
	Clock    ports.ZoneClockRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.PlayerID = strings.TrimSpace(req.PlayerID)
	req.ZoneID = strings.TrimSpace(req.ZoneID)
	if req.PlayerID == "" {
		return Response{}, ErrPlayerRequired
	}
	if req.ZoneID == "" {
		return Response{}, ErrZoneRequired
	}
	limit := req.EventLimit
	if limit <= 0 {
		limit = defaultEventLimit
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}

	tick, err := u.Clock.LastTick(ctx, req.ZoneID)
	if err != nil {
		return Response{}, err
	}
	records, err := u.Entities.ListByZone(ctx, req.ZoneID)
	if err != nil {
		return Response{}, err
	}
	events, err := u.Events.ListForPlayer(ctx, req.ZoneID, req.PlayerID, limit)
	if err != nil {
		return Response{}, err
	}

	resp := Response{
		PlayerID: req.PlayerID,
		ZoneID:   req.ZoneID,
		Tick:     tick,
		Monsters: []EntityView{},
		Entities: []EntityView{},
		Events:   make([]EventView, 0, len(events)),
	}
	for _, rec := range records {
		view := entityView(rec)
		switch {
		case rec.Kind == string(forge.KindMonster) && rec.Owner == req.PlayerID:
			resp.Monsters = append(resp.Monsters, view)
		case rec.Kind == string(forge.KindCommune) && rec.Owner == req.PlayerID:
			v := view
			resp.Commune = &v
		default:
			resp.Entities = append(resp.Entities, view)
		}
	}
	for _, ev := range events {
		resp.Events = append(resp.Events, eventView(ev))
	}
	return resp, nil
}

func entityView(rec forge.Record) EntityView {
	return EntityView{
		ID:    rec.ID,
		Kind:  rec.Kind,
		X:     rec.X,
		Y:     rec.Y,
		W:     rec.W,
		H:     rec.H,
		Owner: rec.Owner,
		Meta:  rec.Meta,
	}
}

func eventView(ev ports.EventRecord) EventView {
	at := ""
	if !ev.OccurredAt.IsZero() {
		at = ev.OccurredAt.UTC().Format(time.RFC3339)
	}
	return EventView{
		Tick:    ev.Tick,
		Type:    ev.Type,
		Message: ev.Message,
		Data:    ev.Data,
		At:      at,
	}
}
