package forge

import (
	"errors"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"monsterforge/internal/domain/world"
)

var ErrZoneRequired = errors.New("zone id required")

// StartingRenown is a fresh commune's opening balance.
const StartingRenown = 1000

type Config struct {
	Catalog Catalog
	Zones   []world.ZoneDef
	Clock   world.Clock
	Seed    int64
	NewID   func() string
	Now     func() time.Time
}

// Engine is the per-zone tick simulation. One instance serves many
// zones; catalogs are read-only after construction and the per-zone
// maps are mutex-guarded, so zones may tick concurrently.
type Engine struct {
	catalog Catalog
	clock   world.Clock
	seed    int64
	newID   func() string
	now     func() time.Time

	mu          sync.Mutex
	zones       map[string]world.ZoneDef
	initialized map[string]bool
}

func NewEngine(cfg Config) *Engine {
	if cfg.Catalog.Goods == nil && cfg.Catalog.Monsters == nil {
		cfg.Catalog = DefaultCatalog()
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	e := &Engine{
		catalog:     cfg.Catalog,
		clock:       cfg.Clock,
		seed:        cfg.Seed,
		newID:       cfg.NewID,
		now:         cfg.Now,
		zones:       make(map[string]world.ZoneDef),
		initialized: make(map[string]bool),
	}
	if e.clock == (world.Clock{}) {
		e.clock = world.DefaultClock()
	}
	for _, z := range cfg.Zones {
		if z.ID != "" {
			e.zones[z.ID] = z
		}
	}
	return e
}

// EnsureZone registers a zone definition before its first tick. Zones
// never registered fall back to the built-in default on demand.
func (e *Engine) EnsureZone(def world.ZoneDef) {
	if def.ID == "" {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.zones[def.ID]; !ok {
		e.zones[def.ID] = def
	}
}

func (e *Engine) zoneDef(zoneID string) world.ZoneDef {
	e.mu.Lock()
	defer e.mu.Unlock()
	if def, ok := e.zones[zoneID]; ok {
		return def
	}
	def := world.DefaultZone(zoneID)
	e.zones[zoneID] = def
	return def
}

func (e *Engine) Catalog() Catalog { return e.catalog }

func (e *Engine) Clock() world.Clock { return e.clock }

// Tick advances one zone by one step: bootstrap if this is the zone's
// first tick, then intents in order, then autorepeat playback, crafting
// progress, and the economy pass. The diff is accumulated and returned
// atomically; the input entities are never mutated.
func (e *Engine) Tick(zoneID string, entities []*Entity, intents []Intent, tick int64) (TickResult, error) {
	if zoneID == "" {
		return TickResult{}, ErrZoneRequired
	}
	st := newTickState(e, zoneID, entities, tick)
	e.bootstrapZone(st)
	for _, in := range intents {
		e.dispatch(st, in)
	}
	e.stepAutorepeat(st)
	e.stepCrafting(st)
	e.stepEconomy(st)
	return st.result(), nil
}

// TickRecords is Tick at the boundary: records in, diff of records out.
func (e *Engine) TickRecords(zoneID string, records []Record, intents []Intent, tick int64) (RecordDiff, error) {
	entities := make([]*Entity, 0, len(records))
	for _, rec := range records {
		entities = append(entities, DecodeEntity(rec))
	}
	res, err := e.Tick(zoneID, entities, intents, tick)
	if err != nil {
		return RecordDiff{}, err
	}
	return res.Encode(), nil
}

type intentHandler func(*Engine, *tickState, Intent)

var intentHandlers = map[IntentType]intentHandler{
	IntentMove:           (*Engine).handleMove,
	IntentSpawnMonster:   (*Engine).handleSpawnMonster,
	IntentStartRecording: (*Engine).handleStartRecording,
	IntentStopRecording:  (*Engine).handleStopRecording,
	IntentStartPlayback:  (*Engine).handleStartPlayback,
	IntentStopPlayback:   (*Engine).handleStopPlayback,
	IntentSelectRecipe:   (*Engine).handleSelectRecipe,
	IntentInteract:       (*Engine).handleInteract,
	IntentHitchWagon:     (*Engine).handleHitchWagon,
	IntentUnhitchWagon:   (*Engine).handleUnhitchWagon,
	IntentUnloadWagon:    (*Engine).handleUnloadWagon,
	IntentDisconnect:     (*Engine).handleDisconnect,
}

func (e *Engine) dispatch(st *tickState, in Intent) {
	h, ok := intentHandlers[in.Type]
	if !ok {
		return
	}
	h(e, st, in)
}

// tickRand derives the tick's random stream from the engine seed, the
// zone, and the tick number: reproducible for a fixed seed and safe
// when zones tick in parallel.
func (e *Engine) tickRand(zoneID string, tick int64) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(zoneID))
	return rand.New(rand.NewSource(e.seed ^ int64(h.Sum64()) ^ tick*0x9E3779B9))
}

// ageBonus is the monster's current age bonus in ability points.
func (e *Engine) ageBonus(st *tickState, m *MonsterData) int {
	if m.CreatedAt.IsZero() {
		return 0
	}
	return m.AgeBonus(e.clock.AgeDays(m.CreatedAt, st.now))
}

// effectiveStrength is carry capacity: strength plus age bonus.
func (e *Engine) effectiveStrength(st *tickState, m *MonsterData) float64 {
	return float64(m.Abilities.Strength + e.ageBonus(st, m))
}

func (e *Engine) markInitialized(zoneID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.initialized[zoneID] {
		return false
	}
	e.initialized[zoneID] = true
	return true
}
