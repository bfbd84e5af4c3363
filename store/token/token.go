package token

import (
	"context"

	"curvance/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type tokenStore struct {
	db *db.DB
}

// New new market token store
func New(db *db.DB) core.IMarketTokenStore {
	return &tokenStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.MarketToken{})
		if err := tx.AutoMigrate(core.MarketToken{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *tokenStore) Save(ctx context.Context, token *core.MarketToken) error {
	return s.db.Update().Where("address=?", token.Address).FirstOrCreate(token).Error
}

func (s *tokenStore) Find(ctx context.Context, address string) (*core.MarketToken, error) {
	var token core.MarketToken
	if err := s.db.View().Where("address=?", address).First(&token).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.MarketToken{}, nil
		}
		return nil, err
	}

	return &token, nil
}

func (s *tokenStore) All(ctx context.Context) ([]*core.MarketToken, error) {
	var tokens []*core.MarketToken
	if err := s.db.View().Order("id").Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

func (s *tokenStore) AllAsMap(ctx context.Context) (map[string]*core.MarketToken, error) {
	tokens, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	maps := make(map[string]*core.MarketToken)
	for _, t := range tokens {
		maps[t.Address] = t
	}

	return maps, nil
}

func (s *tokenStore) Update(ctx context.Context, tx *db.DB, token *core.MarketToken, version int64) error {
	if version <= token.Version {
		return nil
	}

	prev := token.Version
	token.Version = version
	update := tx.Update().Model(core.MarketToken{}).
		Where("address=? and version=?", token.Address, prev).
		Update(token)
	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
