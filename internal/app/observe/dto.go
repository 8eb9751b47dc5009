package observe

type Request struct {
	PlayerID   string
	ZoneID     string
	EventLimit int
}

type Response struct {
	PlayerID string       `json:"player_id"`
	ZoneID   string       `json:"zone_id"`
	Tick     int64        `json:"tick"`
	Monsters []EntityView `json:"monsters"`
	Commune  *EntityView  `json:"commune,omitempty"`
	Entities []EntityView `json:"entities"`
	Events   []EventView  `json:"events"`
}

type EntityView struct {
	ID    string         `json:"id"`
	Kind  string         `json:"kind"`
	X     int            `json:"x"`
	Y     int            `json:"y"`
	W     int            `json:"w,omitempty"`
	H     int            `json:"h,omitempty"`
	Owner string         `json:"owner,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
}

type EventView struct {
	Tick    int64          `json:"tick"`
	Type    string         `json:"type"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	At      string         `json:"at"`
}
