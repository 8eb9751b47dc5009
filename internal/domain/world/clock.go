package world

import "time"

const (
	// GameSecondsPerRealSecond fixes the game-time scale: one real
	// second of simulation covers thirty in-game seconds.
	GameSecondsPerRealSecond = 30

	SecondsPerGameDay = 86400
)

type ClockConfig struct {
	Epoch        time.Time
	TickInterval time.Duration
	GameScale    int
}

// Clock converts real elapsed time into game time. One tick advances
// the world by TickInterval of real time.
type Clock struct {
	cfg ClockConfig
}

func NewClock(cfg ClockConfig) Clock {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.GameScale <= 0 {
		cfg.GameScale = GameSecondsPerRealSecond
	}
	if cfg.Epoch.IsZero() {
		cfg.Epoch = time.Unix(0, 0)
	}
	return Clock{cfg: cfg}
}

func DefaultClock() Clock {
	return NewClock(ClockConfig{})
}

func (c Clock) TickInterval() time.Duration {
	return c.cfg.TickInterval
}

func (c Clock) GameSeconds(real time.Duration) float64 {
	if real < 0 {
		real = 0
	}
	return real.Seconds() * float64(c.cfg.GameScale)
}

func (c Clock) GameDays(real time.Duration) float64 {
	return c.GameSeconds(real) / SecondsPerGameDay
}

// TickGameSeconds is the span of game time one tick covers.
func (c Clock) TickGameSeconds() float64 {
	return c.GameSeconds(c.cfg.TickInterval)
}

// AgeDays is an entity's age in game days at the given instant.
func (c Clock) AgeDays(createdAt, now time.Time) float64 {
	return c.GameDays(now.Sub(createdAt))
}
