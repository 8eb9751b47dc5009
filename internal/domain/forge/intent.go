package forge

import (
	"errors"
	"fmt"
)

type IntentType string

const (
	IntentMove           IntentType = "move"
	IntentSpawnMonster   IntentType = "spawn_monster"
	IntentStartRecording IntentType = "start_recording"
	IntentStopRecording  IntentType = "stop_recording"
	IntentStartPlayback  IntentType = "start_playback"
	IntentStopPlayback   IntentType = "stop_playback"
	IntentSelectRecipe   IntentType = "select_recipe"
	IntentInteract       IntentType = "interact"
	IntentHitchWagon     IntentType = "hitch_wagon"
	IntentUnhitchWagon   IntentType = "unhitch_wagon"
	IntentUnloadWagon    IntentType = "unload_wagon"
	IntentDisconnect     IntentType = "owner_disconnect"
)

// Intent is the closed union of player actions. Only the fields its
// Type names are meaningful; the rest stay zero.
type Intent struct {
	PlayerID string     `json:"player_id"`
	Type     IntentType `json:"type"`

	EntityID  string `json:"entity_id,omitempty"`
	Direction string `json:"direction,omitempty"`
	DX        int    `json:"dx,omitempty"`
	DY        int    `json:"dy,omitempty"`

	MonsterType  string   `json:"monster_type,omitempty"`
	MonsterName  string   `json:"monster_name,omitempty"`
	Transferable []string `json:"transferable_skills,omitempty"`

	WorkshopID string `json:"workshop_id,omitempty"`
	RecipeID   string `json:"recipe_id,omitempty"`
	CrafterID  string `json:"crafter_id,omitempty"`

	TargetID string `json:"target_id,omitempty"`
	WagonID  string `json:"wagon_id,omitempty"`
}

var ErrUnknownAction = errors.New("unknown action")

var intentTypes = map[IntentType]bool{
	IntentMove:           true,
	IntentSpawnMonster:   true,
	IntentStartRecording: true,
	IntentStopRecording:  true,
	IntentStartPlayback:  true,
	IntentStopPlayback:   true,
	IntentSelectRecipe:   true,
	IntentInteract:       true,
	IntentHitchWagon:     true,
	IntentUnhitchWagon:   true,
	IntentUnloadWagon:    true,
	IntentDisconnect:     true,
}

// ParseIntent validates an action name and its loose data map once at
// the boundary, producing the typed union. Inside the engine a bad
// field is a silent no-op; here an unknown action is an error so the
// transport can reject it outright.
func ParseIntent(playerID, action string, data map[string]any) (Intent, error) {
	t := IntentType(NormalizeKey(action))
	if !intentTypes[t] {
		return Intent{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	in := Intent{PlayerID: playerID, Type: t}
	switch t {
	case IntentMove:
		in.EntityID = metaString(data, "entity_id")
		in.Direction = metaString(data, "direction")
		in.DX = metaInt(data, "dx", 0)
		in.DY = metaInt(data, "dy", 0)
	case IntentSpawnMonster:
		in.MonsterType = metaString(data, "monster_type")
		in.MonsterName = metaString(data, "name")
		in.Transferable = metaStrings(data, "transferable_skills")
	case IntentStartRecording, IntentStopRecording, IntentStartPlayback, IntentStopPlayback:
		in.EntityID = metaString(data, "entity_id")
	case IntentSelectRecipe:
		in.WorkshopID = metaString(data, "workshop_id")
		in.RecipeID = metaString(data, "recipe_id")
		in.CrafterID = metaString(data, "monster_id")
	case IntentInteract:
		in.EntityID = metaString(data, "entity_id")
		in.TargetID = metaString(data, "target_id")
	case IntentHitchWagon:
		in.EntityID = metaString(data, "entity_id")
		in.WagonID = metaString(data, "wagon_id")
	case IntentUnhitchWagon:
		in.EntityID = metaString(data, "entity_id")
	case IntentUnloadWagon:
		in.WagonID = metaString(data, "wagon_id")
	case IntentDisconnect:
		// Player id alone identifies the target.
	}
	return in, nil
}
