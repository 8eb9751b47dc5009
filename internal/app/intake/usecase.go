// Package intake validates player intents at the API boundary and
// queues them for the owning zone's next tick.
package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"monsterforge/internal/app/ports"
	"monsterforge/internal/domain/forge"
)

const (
	StatusQueued    = "queued"
	StatusDuplicate = "duplicate"
)

var (
	ErrPlayerRequired = errors.New("player id required")
	ErrZoneRequired   = errors.New("zone id required")
	ErrInvalidIntent  = errors.New("invalid intent")
)

type Request struct {
	PlayerID       string
	ZoneID         string
	IdempotencyKey string
	Action         string
	Data           map[string]any
}

type Response struct {
	IntentID string `json:"intent_id"`
	Status   string `json:"status"`
}

type UseCase struct {
	Intents   ports.IntentRepository
	TxManager ports.TxManager
	Metrics   ports.TickMetrics
	NewID     func() string
	Now       func() time.Time
}

// Execute validates the intent and enqueues it. Re-submitting the same
// idempotency key returns the original intent id without queueing a
// second copy.
func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.PlayerID = strings.TrimSpace(req.PlayerID)
	req.ZoneID = strings.TrimSpace(req.ZoneID)
	if req.PlayerID == "" {
		return Response{}, ErrPlayerRequired
	}
	if req.ZoneID == "" {
		return Response{}, ErrZoneRequired
	}
	if _, err := forge.ParseIntent(req.PlayerID, req.Action, req.Data); err != nil {
		if u.Metrics != nil {
			u.Metrics.RecordIntentRejected()
		}
		return Response{}, fmt.Errorf("%w: %v", ErrInvalidIntent, err)
	}

	now := time.Now
	if u.Now != nil {
		now = u.Now
	}

	var resp Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if req.IdempotencyKey != "" {
			prior, err := u.Intents.GetByIdempotencyKey(txCtx, req.PlayerID, req.IdempotencyKey)
			if err != nil && err != ports.ErrNotFound {
				return err
			}
			if prior != nil {
				resp = Response{IntentID: prior.ID, Status: StatusDuplicate}
				return nil
			}
		}
		rec := ports.IntentRecord{
			ID:             u.NewID(),
			ZoneID:         req.ZoneID,
			PlayerID:       req.PlayerID,
			IdempotencyKey: req.IdempotencyKey,
			Action:         req.Action,
			Data:           req.Data,
			EnqueuedAt:     now().UTC(),
		}
		if err := u.Intents.Enqueue(txCtx, rec); err != nil {
			return err
		}
		resp = Response{IntentID: rec.ID, Status: StatusQueued}
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	if u.Metrics != nil && resp.Status == StatusQueued {
		u.Metrics.RecordIntentAccepted(forge.NormalizeKey(req.Action))
	}
	return resp, nil
}
