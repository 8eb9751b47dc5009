package status

import (
	"context"
	"errors"
	"strings"

	"monsterforge/internal/app/ports"
	"monsterforge/internal/domain/world"
)

var ErrInvalidRequest = errors.New("invalid status request")

type UseCase struct {
	Entities  ports.EntityRepository
	Intents   ports.IntentRepository
	Clock     ports.ZoneClockRepository
	GameClock world.Clock
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.ZoneID) == "" {
		return Response{}, ErrInvalidRequest
	}
	tick, err := u.Clock.LastTick(ctx, req.ZoneID)
	if err != nil {
		return Response{}, err
	}
	records, err := u.Entities.ListByZone(ctx, req.ZoneID)
	if err != nil {
		return Response{}, err
	}
	pending, err := u.Intents.CountByZone(ctx, req.ZoneID)
	if err != nil {
		return Response{}, err
	}

	byKind := map[string]int{}
	for _, rec := range records {
		byKind[rec.Kind]++
	}
	return Response{
		ZoneID:         req.ZoneID,
		Tick:           tick,
		GameDays:       float64(tick) * u.GameClock.TickGameSeconds() / world.SecondsPerGameDay,
		Entities:       len(records),
		ByKind:         byKind,
		PendingIntents: pending,
	}, nil
}
