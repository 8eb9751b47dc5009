// Package inmemory keeps tick and intent KPIs in process memory for
// the /ops/kpi endpoint. Counters reset on restart.
package inmemory

import (
	"sync"
	"time"

	"monsterforge/internal/app/ports"
)

type ZoneSnapshot struct {
	LastTick       int64   `json:"last_tick"`
	Ticks          uint64  `json:"ticks"`
	Failures       uint64  `json:"failures"`
	Intents        uint64  `json:"intents"`
	Creates        uint64  `json:"creates"`
	Updates        uint64  `json:"updates"`
	Deletes        uint64  `json:"deletes"`
	Events         uint64  `json:"events"`
	LastElapsedMs  float64 `json:"last_elapsed_ms"`
	TotalElapsedMs float64 `json:"total_elapsed_ms"`
}

type Snapshot struct {
	TickTotal       uint64                  `json:"tick_total"`
	TickFailures    uint64                  `json:"tick_failures"`
	IntentsAccepted uint64                  `json:"intents_accepted"`
	IntentsRejected uint64                  `json:"intents_rejected"`
	IntentsByAction map[string]uint64       `json:"intents_by_action"`
	Zones           map[string]ZoneSnapshot `json:"zones"`
}

type Recorder struct {
	mu       sync.Mutex
	ticks    uint64
	failures uint64
	accepted uint64
	rejected uint64
	byAction map[string]uint64
	zones    map[string]ZoneSnapshot
}

func NewRecorder() *Recorder {
	return &Recorder{
		byAction: map[string]uint64{},
		zones:    map[string]ZoneSnapshot{},
	}
}

func (r *Recorder) RecordTick(stats ports.TickStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks++
	z := r.zones[stats.ZoneID]
	z.LastTick = stats.Tick
	z.Ticks++
	z.Intents += uint64(stats.Intents)
	z.Creates += uint64(stats.Creates)
	z.Updates += uint64(stats.Updates)
	z.Deletes += uint64(stats.Deletes)
	z.Events += uint64(stats.Events)
	z.LastElapsedMs = float64(stats.Elapsed) / float64(time.Millisecond)
	z.TotalElapsedMs += z.LastElapsedMs
	r.zones[stats.ZoneID] = z
}

func (r *Recorder) RecordTickFailure(zoneID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures++
	z := r.zones[zoneID]
	z.Failures++
	r.zones[zoneID] = z
}

func (r *Recorder) RecordIntentAccepted(action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accepted++
	r.byAction[action]++
}

func (r *Recorder) RecordIntentRejected() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		TickTotal:       r.ticks,
		TickFailures:    r.failures,
		IntentsAccepted: r.accepted,
		IntentsRejected: r.rejected,
		IntentsByAction: make(map[string]uint64, len(r.byAction)),
		Zones:           make(map[string]ZoneSnapshot, len(r.zones)),
	}
	for k, v := range r.byAction {
		out.IntentsByAction[k] = v
	}
	for k, v := range r.zones {
		out.Zones[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
