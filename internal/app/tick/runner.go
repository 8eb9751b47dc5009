package tick

import (
	"context"
	"log"
	"time"

	"monsterforge/internal/app/ports"
	"monsterforge/internal/domain/forge"
)

type Ticker interface {
	Execute(ctx context.Context, zoneID string) (Result, error)
}

// Runner drives every configured zone at a fixed real-time interval.
// One runner goroutine serves all zones; zones advance sequentially so
// a single tx pool ordering holds.
type Runner struct {
	Ticker        Ticker
	Zones         []string
	Interval      time.Duration
	Bus           ports.EventPublisher
	Archive       ports.SnapshotArchiver
	SnapshotEvery int64
	Logger        *log.Logger
}

func (r *Runner) Run(ctx context.Context) error {
	interval := r.Interval
	if interval <= 0 {
		interval = time.Second
	}
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}

	tk := time.NewTicker(interval)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tk.C:
			r.step(ctx, logger)
		}
	}
}

func (r *Runner) step(ctx context.Context, logger *log.Logger) {
	for _, zoneID := range r.Zones {
		res, err := r.Ticker.Execute(ctx, zoneID)
		if err != nil {
			logger.Printf("tick failed zone=%s: %v", zoneID, err)
			continue
		}
		if r.Bus != nil && len(res.Diff.Events) > 0 {
			if err := r.Bus.PublishTick(ctx, res.ZoneID, res.Tick, res.Diff.Events); err != nil {
				logger.Printf("event publish failed zone=%s tick=%d: %v", res.ZoneID, res.Tick, err)
			}
		}
		if r.Archive != nil && r.SnapshotEvery > 0 && res.Tick%r.SnapshotEvery == 0 {
			if err := r.Archive.Save(ctx, res.ZoneID, res.Tick, res.Records); err != nil {
				logger.Printf("snapshot failed zone=%s tick=%d: %v", res.ZoneID, res.Tick, err)
			}
		}
	}
}

type RestoreDeps struct {
	Archive   ports.SnapshotArchiver
	Entities  ports.EntityRepository
	Clock     ports.ZoneClockRepository
	TxManager ports.TxManager
}

// RestoreZone reloads the newest archived snapshot into a zone that
// has never ticked. Zones with live state are left alone. Reports
// whether a snapshot was loaded.
func RestoreZone(ctx context.Context, zoneID string, deps RestoreDeps) (bool, error) {
	if deps.Archive == nil {
		return false, nil
	}
	last, err := deps.Clock.LastTick(ctx, zoneID)
	if err != nil {
		return false, err
	}
	if last > 0 {
		return false, nil
	}
	tick, records, err := deps.Archive.Latest(ctx, zoneID, 0)
	if err != nil {
		if err == ports.ErrNotFound {
			return false, nil
		}
		return false, err
	}

	err = deps.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		diff := forgeCreates(records)
		if err := deps.Entities.ApplyDiff(txCtx, zoneID, diff); err != nil {
			return err
		}
		return deps.Clock.SetLastTick(txCtx, zoneID, tick)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func forgeCreates(records []forge.Record) forge.RecordDiff {
	return forge.RecordDiff{Creates: append([]forge.Record(nil), records...)}
}
