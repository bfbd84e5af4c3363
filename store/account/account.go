package account

import (
	"context"

	"curvance/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type accountStore struct {
	db *db.DB
}

// New new account store
func New(db *db.DB) core.IAccountStore {
	return &accountStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().Model(core.Account{}).AutoMigrate(core.Account{}).Error; err != nil {
			return err
		}

		if err := db.Update().Model(core.Membership{}).AutoMigrate(core.Membership{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *accountStore) FindOrCreate(ctx context.Context, address string) (*core.Account, error) {
	account := core.Account{Address: address}
	if err := s.db.Update().Where("address=?", address).FirstOrCreate(&account).Error; err != nil {
		return nil, err
	}

	return &account, nil
}

func (s *accountStore) Find(ctx context.Context, address string) (*core.Account, error) {
	var account core.Account
	if err := s.db.View().Where("address=?", address).First(&account).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.Account{Address: address}, nil
		}
		return nil, err
	}

	return &account, nil
}

func (s *accountStore) Update(ctx context.Context, tx *db.DB, account *core.Account, version int64) error {
	if version <= account.Version {
		return nil
	}

	updates := map[string]interface{}{
		"cooldown_timestamp": account.CooldownTimestamp,
		"version":            version,
	}

	update := tx.Update().Model(account).Where("version = ?", account.Version).Updates(updates)
	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	account.Version = version
	return nil
}

func (s *accountStore) EnterMarket(ctx context.Context, address, tokenAddress string) error {
	membership := core.Membership{
		Account:      address,
		TokenAddress: tokenAddress,
	}

	return s.db.Update().
		Where("account=? and token_address=?", address, tokenAddress).
		FirstOrCreate(&membership).Error
}

func (s *accountStore) ExitMarket(ctx context.Context, address, tokenAddress string) error {
	return s.db.Update().
		Where("account=? and token_address=?", address, tokenAddress).
		Delete(core.Membership{}).Error
}

func (s *accountStore) AssetsEntered(ctx context.Context, address string) ([]string, error) {
	var memberships []*core.Membership
	if err := s.db.View().Where("account=?", address).Order("id").Find(&memberships).Error; err != nil {
		return nil, err
	}

	entered := make([]string, len(memberships))
	for idx, m := range memberships {
		entered[idx] = m.TokenAddress
	}

	return entered, nil
}

func (s *accountStore) IsEntered(ctx context.Context, address, tokenAddress string) (bool, error) {
	var count int
	if err := s.db.View().Model(core.Membership{}).
		Where("account=? and token_address=?", address, tokenAddress).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}
