package gormrepo

import (
	"context"
	"errors"
	"time"

	"monsterforge/internal/adapter/repo/gorm/model"

	"gorm.io/gorm"
)

type ZoneClockRepo struct {
	db *gorm.DB
}

func NewZoneClockRepo(db *gorm.DB) ZoneClockRepo {
	return ZoneClockRepo{db: db}
}

// LastTick reports 0 for zones that have never ticked.
func (r ZoneClockRepo) LastTick(ctx context.Context, zoneID string) (int64, error) {
	var row model.ZoneClock
	err := getDBFromCtx(ctx, r.db).
		Where(&model.ZoneClock{ZoneID: zoneID}).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return row.LastTick, nil
}

func (r ZoneClockRepo) SetLastTick(ctx context.Context, zoneID string, tick int64) error {
	return getDBFromCtx(ctx, r.db).
		Where(&model.ZoneClock{ZoneID: zoneID}).
		Assign(model.ZoneClock{
			LastTick:  tick,
			UpdatedAt: time.Now().UTC(),
		}).
		FirstOrCreate(&model.ZoneClock{ZoneID: zoneID}).Error
}
