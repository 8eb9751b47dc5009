package status

type Request struct {
	ZoneID string
}

type Response struct {
	ZoneID         string         `json:"zone_id"`
	Tick           int64          `json:"tick"`
	GameDays       float64        `json:"game_days"`
	Entities       int            `json:"entities"`
	ByKind         map[string]int `json:"by_kind"`
	PendingIntents int64          `json:"pending_intents"`
}
