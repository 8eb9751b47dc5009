package world

const (
	DefaultZoneID   = "starting_village"
	DefaultZoneName = "Starting Village"
	DefaultZoneW    = 60
	DefaultZoneH    = 20
)

// StaticEntity is a zone-definition entity in boundary form. The kind
// and metadata are interpreted by the simulation layer on bootstrap.
type StaticEntity struct {
	Kind  string         `json:"kind"`
	X     int            `json:"x"`
	Y     int            `json:"y"`
	W     int            `json:"w,omitempty"`
	H     int            `json:"h,omitempty"`
	Owner string         `json:"owner,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
}

type ZoneDef struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	W            int            `json:"w"`
	H            int            `json:"h"`
	SpawnPoints  []Point        `json:"spawn_points,omitempty"`
	BlockedCells []Point        `json:"blocked_cells,omitempty"`
	Entities     []StaticEntity `json:"entities,omitempty"`
}

// DefaultZone is the fallback when no zone definition is on disk.
func DefaultZone(id string) ZoneDef {
	if id == "" {
		id = DefaultZoneID
	}
	return ZoneDef{
		ID:          id,
		Name:        DefaultZoneName,
		W:           DefaultZoneW,
		H:           DefaultZoneH,
		SpawnPoints: []Point{{X: 5, Y: 10}},
	}
}

func (z ZoneDef) Bounds() Rect {
	return RectAt(0, 0, z.W, z.H)
}

// InBounds reports whether the footprint lies entirely inside the zone.
func (z ZoneDef) InBounds(r Rect) bool {
	return r.Pos.X >= 0 && r.Pos.Y >= 0 &&
		r.Pos.X+r.Size.W <= z.W && r.Pos.Y+r.Size.H <= z.H
}

// BlocksFootprint reports whether any statically blocked cell falls
// inside the footprint.
func (z ZoneDef) BlocksFootprint(r Rect) bool {
	for _, c := range z.BlockedCells {
		if r.Contains(c) {
			return true
		}
	}
	return false
}

// Spawn returns the zone's first spawn point, or the zone center when
// none is configured.
func (z ZoneDef) Spawn() Point {
	if len(z.SpawnPoints) > 0 {
		return z.SpawnPoints[0]
	}
	return Point{X: z.W / 2, Y: z.H / 2}
}
