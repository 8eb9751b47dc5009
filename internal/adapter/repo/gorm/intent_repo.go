package gormrepo

import (
	"context"
	"encoding/json"
	"errors"

	"monsterforge/internal/adapter/repo/gorm/model"
	"monsterforge/internal/app/ports"

	"gorm.io/gorm"
)

const (
	intentStatusPending  = "pending"
	intentStatusConsumed = "consumed"
)

type IntentRepo struct {
	db *gorm.DB
}

func NewIntentRepo(db *gorm.DB) IntentRepo {
	return IntentRepo{db: db}
}

func (r IntentRepo) Enqueue(ctx context.Context, intent ports.IntentRecord) error {
	data, _ := json.Marshal(intent.Data)
	if intent.Data == nil {
		data = nil
	}
	row := model.ZoneIntent{
		ID:             intent.ID,
		ZoneID:         intent.ZoneID,
		PlayerID:       intent.PlayerID,
		IdempotencyKey: intent.IdempotencyKey,
		Action:         intent.Action,
		Data:           data,
		Status:         intentStatusPending,
		EnqueuedAt:     intent.EnqueuedAt,
	}
	if err := getDBFromCtx(ctx, r.db).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}

func (r IntentRepo) GetByIdempotencyKey(ctx context.Context, playerID, key string) (*ports.IntentRecord, error) {
	var row model.ZoneIntent
	err := getDBFromCtx(ctx, r.db).
		Where("player_id = ? AND idempotency_key = ?", playerID, key).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	rec := intentFromRow(row)
	return &rec, nil
}

// DrainZone marks the zone's pending intents consumed and returns them
// in arrival order. Rows stay behind for idempotency lookups.
func (r IntentRepo) DrainZone(ctx context.Context, zoneID string) ([]ports.IntentRecord, error) {
	db := getDBFromCtx(ctx, r.db)
	rows := []model.ZoneIntent{}
	err := db.Where("zone_id = ? AND status = ?", zoneID, intentStatusPending).
		Order("seq").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	seqs := make([]int64, 0, len(rows))
	for _, row := range rows {
		seqs = append(seqs, row.Seq)
	}
	err = db.Model(&model.ZoneIntent{}).
		Where("seq IN ?", seqs).
		Update("status", intentStatusConsumed).Error
	if err != nil {
		return nil, err
	}

	out := make([]ports.IntentRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, intentFromRow(row))
	}
	return out, nil
}

func (r IntentRepo) CountByZone(ctx context.Context, zoneID string) (int64, error) {
	var count int64
	err := getDBFromCtx(ctx, r.db).
		Model(&model.ZoneIntent{}).
		Where("zone_id = ? AND status = ?", zoneID, intentStatusPending).
		Count(&count).Error
	return count, err
}

func intentFromRow(row model.ZoneIntent) ports.IntentRecord {
	var data map[string]any
	if len(row.Data) > 0 {
		_ = json.Unmarshal(row.Data, &data)
	}
	return ports.IntentRecord{
		ID:             row.ID,
		ZoneID:         row.ZoneID,
		PlayerID:       row.PlayerID,
		IdempotencyKey: row.IdempotencyKey,
		Action:         row.Action,
		Data:           data,
		EnqueuedAt:     row.EnqueuedAt,
	}
}
