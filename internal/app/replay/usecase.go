// Package replay serves a zone's event history over a tick window,
// paired with the newest archived snapshot inside that window so a
// caller can reconstruct the zone as of any past tick.
package replay

import (
	"context"
	"errors"
	"strings"

	"monsterforge/internal/app/ports"
)

var ErrInvalidRequest = errors.New("invalid replay request")

const defaultLimit = 200

type UseCase struct {
	Events  ports.EventRepository
	Archive ports.SnapshotArchiver
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.ZoneID) == "" {
		return Response{}, ErrInvalidRequest
	}
	if req.ToTick > 0 && req.FromTick > req.ToTick {
		return Response{}, ErrInvalidRequest
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	events, err := u.Events.ListByZone(ctx, req.ZoneID, req.FromTick, req.ToTick, limit)
	if err != nil {
		return Response{}, err
	}
	resp := Response{ZoneID: req.ZoneID, Events: events}

	if u.Archive != nil {
		snapTick, records, err := u.Archive.Latest(ctx, req.ZoneID, req.ToTick)
		if err != nil && err != ports.ErrNotFound {
			return Response{}, err
		}
		if err == nil {
			resp.SnapshotTick = snapTick
			resp.Snapshot = records
		}
	}
	return resp, nil
}
