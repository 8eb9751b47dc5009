// Package tick advances zones. Each tick drains the zone's queued
// intents, runs the deterministic engine over the zone's entities, and
// persists the resulting diff, events, and clock in one transaction.
package tick

import (
	"context"
	"errors"
	"fmt"
	"time"

	"monsterforge/internal/app/ports"
	"monsterforge/internal/domain/forge"
)

var ErrZoneRequired = errors.New("zone id required")

// Result reports one completed tick. Records holds the zone's full
// contents after the diff was applied, for snapshotting.
type Result struct {
	ZoneID  string
	Tick    int64
	Intents int
	Diff    forge.RecordDiff
	Records []forge.Record
}

type UseCase struct {
	Engine    *forge.Engine
	Entities  ports.EntityRepository
	Intents   ports.IntentRepository
	Events    ports.EventRepository
	Clock     ports.ZoneClockRepository
	TxManager ports.TxManager
	Metrics   ports.TickMetrics
	Now       func() time.Time
}

func (u UseCase) Execute(ctx context.Context, zoneID string) (Result, error) {
	if zoneID == "" {
		return Result{}, ErrZoneRequired
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	started := nowFn()

	var res Result
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		last, err := u.Clock.LastTick(txCtx, zoneID)
		if err != nil {
			return err
		}
		tick := last + 1

		queued, err := u.Intents.DrainZone(txCtx, zoneID)
		if err != nil {
			return err
		}
		intents := make([]forge.Intent, 0, len(queued))
		for _, q := range queued {
			in, err := forge.ParseIntent(q.PlayerID, q.Action, q.Data)
			if err != nil {
				// Intents were validated at intake; a parse failure
				// here means a corrupt row, which we drop.
				continue
			}
			intents = append(intents, in)
		}

		records, err := u.Entities.ListByZone(txCtx, zoneID)
		if err != nil {
			return err
		}

		diff, err := u.Engine.TickRecords(zoneID, records, intents, tick)
		if err != nil {
			return err
		}

		if err := u.Entities.ApplyDiff(txCtx, zoneID, diff); err != nil {
			return err
		}
		if len(diff.Events) > 0 {
			if err := u.Events.Append(txCtx, zoneID, tick, started.UTC(), diff.Events); err != nil {
				return err
			}
		}
		if err := u.Clock.SetLastTick(txCtx, zoneID, tick); err != nil {
			return err
		}

		after, err := u.Entities.ListByZone(txCtx, zoneID)
		if err != nil {
			return err
		}
		res = Result{ZoneID: zoneID, Tick: tick, Intents: len(queued), Diff: diff, Records: after}
		return nil
	})
	if err != nil {
		if u.Metrics != nil {
			u.Metrics.RecordTickFailure(zoneID)
		}
		return Result{}, fmt.Errorf("tick zone %s: %w", zoneID, err)
	}

	if u.Metrics != nil {
		u.Metrics.RecordTick(ports.TickStats{
			ZoneID:  res.ZoneID,
			Tick:    res.Tick,
			Intents: res.Intents,
			Creates: len(res.Diff.Creates),
			Updates: len(res.Diff.Updates),
			Deletes: len(res.Diff.Deletes),
			Events:  len(res.Diff.Events),
			Elapsed: nowFn().Sub(started),
		})
	}
	return res, nil
}
