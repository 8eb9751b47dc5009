package gormrepo

import (
	"context"
	"encoding/json"
	"time"

	"monsterforge/internal/adapter/repo/gorm/model"
	"monsterforge/internal/domain/forge"

	"gorm.io/gorm"
)

type EntityRepo struct {
	db *gorm.DB
}

func NewEntityRepo(db *gorm.DB) EntityRepo {
	return EntityRepo{db: db}
}

// ListByZone returns the zone's records ordered by id. The order is
// arbitrary but stable, which keeps replayed ticks deterministic.
func (r EntityRepo) ListByZone(ctx context.Context, zoneID string) ([]forge.Record, error) {
	rows := []model.ZoneEntity{}
	err := getDBFromCtx(ctx, r.db).
		Where(&model.ZoneEntity{ZoneID: zoneID}).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]forge.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, recordFromRow(row))
	}
	return out, nil
}

func (r EntityRepo) ApplyDiff(ctx context.Context, zoneID string, diff forge.RecordDiff) error {
	db := getDBFromCtx(ctx, r.db)
	now := time.Now().UTC()

	if len(diff.Creates) > 0 {
		rows := make([]model.ZoneEntity, 0, len(diff.Creates))
		for _, rec := range diff.Creates {
			rows = append(rows, rowFromRecord(zoneID, rec, now))
		}
		if err := db.Create(&rows).Error; err != nil {
			return err
		}
	}
	for _, rec := range diff.Updates {
		row := rowFromRecord(zoneID, rec, now)
		res := db.Model(&model.ZoneEntity{}).
			Where("id = ? AND zone_id = ?", row.ID, zoneID).
			Updates(map[string]any{
				"kind":       row.Kind,
				"x":          row.X,
				"y":          row.Y,
				"w":          row.W,
				"h":          row.H,
				"owner_id":   row.OwnerID,
				"meta":       row.Meta,
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
	}
	if len(diff.Deletes) > 0 {
		if err := db.Where("zone_id = ? AND id IN ?", zoneID, diff.Deletes).
			Delete(&model.ZoneEntity{}).Error; err != nil {
			return err
		}
	}
	return nil
}

func rowFromRecord(zoneID string, rec forge.Record, now time.Time) model.ZoneEntity {
	meta, _ := json.Marshal(rec.Meta)
	if rec.Meta == nil {
		meta = nil
	}
	return model.ZoneEntity{
		ID:        rec.ID,
		ZoneID:    zoneID,
		Kind:      rec.Kind,
		X:         int32(rec.X),
		Y:         int32(rec.Y),
		W:         int32(rec.W),
		H:         int32(rec.H),
		OwnerID:   rec.Owner,
		Meta:      meta,
		UpdatedAt: now,
	}
}

func recordFromRow(row model.ZoneEntity) forge.Record {
	var meta map[string]any
	if len(row.Meta) > 0 {
		_ = json.Unmarshal(row.Meta, &meta)
	}
	return forge.Record{
		ID:     row.ID,
		ZoneID: row.ZoneID,
		Kind:   row.Kind,
		X:      int(row.X),
		Y:      int(row.Y),
		W:      int(row.W),
		H:      int(row.H),
		Owner:  row.OwnerID,
		Meta:   meta,
	}
}
