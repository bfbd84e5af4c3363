package price

import (
	"context"
	"time"

	"curvance/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type priceStore struct {
	db *db.DB
}

// New new price store
func New(db *db.DB) core.IPriceStore {
	return &priceStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Price{})

		if err := tx.AutoMigrate(core.Price{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *priceStore) Save(ctx context.Context, price *core.Price) error {
	existing, err := s.Find(ctx, price.AssetID)
	if err != nil {
		return err
	}

	if existing.ID == 0 {
		return s.db.Update().Create(price).Error
	}

	updates := map[string]interface{}{
		"price":   price.Price,
		"time":    price.Time,
		"version": existing.Version + 1,
	}

	tx := s.db.Update().Model(existing).Where("version = ?", existing.Version).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *priceStore) Find(ctx context.Context, assetID string) (*core.Price, error) {
	var price core.Price
	if err := s.db.View().Where("asset_id=?", assetID).First(&price).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.Price{AssetID: assetID}, nil
		}
		return nil, err
	}
	return &price, nil
}

func (s *priceStore) DeleteBefore(ctx context.Context, t time.Time) error {
	return s.db.Update().Where("updated_at < ?", t).Delete(core.Price{}).Error
}
