package forge

const (
	EventError            = "error"
	EventBlocked          = "blocked"
	EventPush             = "push"
	EventCraftingBlocked  = "crafting_blocked"
	EventCraftingComplete = "crafting_complete"
	EventDelivery         = "delivery"
	EventMonsterSpawned   = "monster_spawned"
	EventToolDepleted     = "tool_depleted"
	EventUpkeepDue        = "upkeep_due"
	EventInfo             = "info"
)

// Event is a player-visible occurrence. A set TargetPlayerID means the
// event is private: collaborators must filter before delivery.
type Event struct {
	Type           string         `json:"type"`
	Message        string         `json:"message,omitempty"`
	TargetPlayerID string         `json:"target_player_id,omitempty"`
	Tick           int64          `json:"tick"`
	Data           map[string]any `json:"data,omitempty"`
}

// TickResult is one tick's atomic diff: typed entities for creates and
// updates (creation ids already minted), deletion ids, and events.
type TickResult struct {
	Creates []*Entity
	Updates []*Entity
	Deletes []string
	Events  []Event
}

// RecordDiff is the boundary form of a TickResult.
type RecordDiff struct {
	Creates []Record `json:"creates"`
	Updates []Record `json:"updates"`
	Deletes []string `json:"deletes"`
	Events  []Event  `json:"events"`
}

func (r TickResult) Encode() RecordDiff {
	diff := RecordDiff{Deletes: append([]string(nil), r.Deletes...), Events: r.Events}
	for _, e := range r.Creates {
		diff.Creates = append(diff.Creates, e.Encode())
	}
	for _, e := range r.Updates {
		diff.Updates = append(diff.Updates, e.Encode())
	}
	return diff
}

// VisibleTo filters events for one player: broadcast events plus the
// ones targeted at them.
func VisibleTo(events []Event, playerID string) []Event {
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		if ev.TargetPlayerID == "" || ev.TargetPlayerID == playerID {
			out = append(out, ev)
		}
	}
	return out
}
