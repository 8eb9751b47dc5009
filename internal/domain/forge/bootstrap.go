package forge

import "monsterforge/internal/domain/world"

// bootstrapZone lays down the zone furniture on the first tick this
// process sees for a zone: a world marker, four boundary walls, and the
// zone definition's static entities. The initialized set makes this a
// once-per-process pass; the marker check catches zones bootstrapped by
// an earlier process.
func (e *Engine) bootstrapZone(st *tickState) {
	if !e.markInitialized(st.zoneID) {
		return
	}
	for _, id := range st.ids() {
		if st.entities[id].Kind == KindWorldMarker {
			return
		}
	}

	z := st.zone
	st.create(&Entity{
		Kind:   KindWorldMarker,
		Size:   world.Size{W: 1, H: 1},
		Marker: &WorldMarkerData{ZoneName: z.Name, W: z.W, H: z.H},
	}, e.newID)

	walls := []world.Rect{
		world.RectAt(0, 0, z.W, 1),
		world.RectAt(0, z.H-1, z.W, 1),
		world.RectAt(0, 0, 1, z.H),
		world.RectAt(z.W-1, 0, 1, z.H),
	}
	for _, w := range walls {
		st.create(&Entity{Kind: KindTerrainBlock, Pos: w.Pos, Size: w.Size}, e.newID)
	}

	for _, s := range z.Entities {
		ent := DecodeEntity(Record{
			Kind:  s.Kind,
			X:     s.X,
			Y:     s.Y,
			W:     s.W,
			H:     s.H,
			Owner: s.Owner,
			Meta:  s.Meta,
		})
		st.create(ent, e.newID)
	}
}
