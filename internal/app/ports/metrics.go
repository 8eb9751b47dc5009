package ports

import "time"

// TickStats summarizes one completed zone tick for the KPI surface.
type TickStats struct {
	ZoneID  string
	Tick    int64
	Intents int
	Creates int
	Updates int
	Deletes int
	Events  int
	Elapsed time.Duration
}

type TickMetrics interface {
	RecordTick(stats TickStats)
	RecordTickFailure(zoneID string)
	RecordIntentAccepted(action string)
	RecordIntentRejected()
}
