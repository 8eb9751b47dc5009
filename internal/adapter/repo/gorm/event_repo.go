package gormrepo

import (
	"context"
	"encoding/json"
	"time"

	"monsterforge/internal/adapter/repo/gorm/model"
	"monsterforge/internal/app/ports"
	"monsterforge/internal/domain/forge"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, zoneID string, tick int64, occurredAt time.Time, events []forge.Event) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.ZoneEvent, 0, len(events))
	for _, e := range events {
		var data []byte
		if e.Data != nil {
			data, _ = json.Marshal(e.Data)
		}
		rows = append(rows, model.ZoneEvent{
			ZoneID:         zoneID,
			Tick:           tick,
			Type:           e.Type,
			Message:        e.Message,
			TargetPlayerID: e.TargetPlayerID,
			Data:           data,
			OccurredAt:     occurredAt,
		})
	}
	return getDBFromCtx(ctx, r.db).Create(&rows).Error
}

// ListForPlayer returns broadcast events plus the player's targeted
// ones, newest first. Insertion ids order events emitted in the same
// instant.
func (r EventRepo) ListForPlayer(ctx context.Context, zoneID, playerID string, limit int) ([]ports.EventRecord, error) {
	rows := []model.ZoneEvent{}
	query := getDBFromCtx(ctx, r.db).
		Where("zone_id = ? AND (target_player_id = '' OR target_player_id = ?)", zoneID, playerID).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "id"}, Desc: true}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return eventRecords(rows), nil
}

func (r EventRepo) ListByZone(ctx context.Context, zoneID string, fromTick, toTick int64, limit int) ([]ports.EventRecord, error) {
	query := getDBFromCtx(ctx, r.db).Where("zone_id = ?", zoneID)
	if fromTick > 0 {
		query = query.Where("tick >= ?", fromTick)
	}
	if toTick > 0 {
		query = query.Where("tick <= ?", toTick)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	rows := []model.ZoneEvent{}
	if err := query.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return eventRecords(rows), nil
}

func eventRecords(rows []model.ZoneEvent) []ports.EventRecord {
	out := make([]ports.EventRecord, 0, len(rows))
	for _, row := range rows {
		var data map[string]any
		if len(row.Data) > 0 {
			_ = json.Unmarshal(row.Data, &data)
		}
		out = append(out, ports.EventRecord{
			ID:             row.ID,
			ZoneID:         row.ZoneID,
			Tick:           row.Tick,
			Type:           row.Type,
			Message:        row.Message,
			TargetPlayerID: row.TargetPlayerID,
			Data:           data,
			OccurredAt:     row.OccurredAt,
		})
	}
	return out
}
