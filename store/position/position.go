package position

import (
	"context"

	"curvance/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

type positionStore struct {
	db *db.DB
}

// New new position store
func New(db *db.DB) core.IPositionStore {
	return &positionStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Position{})
		if err := tx.AutoMigrate(core.Position{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *positionStore) Save(ctx context.Context, tx *db.DB, position *core.Position) error {
	return tx.Update().
		Where("account=? and token_address=?", position.Account, position.TokenAddress).
		FirstOrCreate(position).Error
}

func (s *positionStore) Find(ctx context.Context, account, tokenAddress string) (*core.Position, error) {
	var position core.Position
	if err := s.db.View().Where("account=? and token_address=?", account, tokenAddress).First(&position).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.Position{Account: account, TokenAddress: tokenAddress}, nil
		}
		return nil, err
	}

	return &position, nil
}

func (s *positionStore) FindByAccount(ctx context.Context, account string) ([]*core.Position, error) {
	var positions []*core.Position
	if err := s.db.View().Where("account=?", account).Order("id").Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

func (s *positionStore) FindByToken(ctx context.Context, tokenAddress string) ([]*core.Position, error) {
	var positions []*core.Position
	if err := s.db.View().Where("token_address=?", tokenAddress).Order("id").Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

func (s *positionStore) Accounts(ctx context.Context) ([]string, error) {
	var accounts []string
	rows, err := s.db.View().Model(core.Position{}).
		Where("principal > 0").
		Select("distinct account").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var account string
		if err := rows.Scan(&account); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, nil
}

func (s *positionStore) SumCollateral(ctx context.Context, tokenAddress string) (decimal.Decimal, error) {
	positions, err := s.FindByToken(ctx, tokenAddress)
	if err != nil {
		return decimal.Zero, err
	}

	sum := decimal.Zero
	for _, p := range positions {
		sum = sum.Add(p.CollateralPosted)
	}

	return sum, nil
}

func (s *positionStore) Update(ctx context.Context, tx *db.DB, position *core.Position, version int64) error {
	if version <= position.Version {
		return nil
	}

	updates := map[string]interface{}{
		"shares":            position.Shares,
		"collateral_posted": position.CollateralPosted,
		"principal":         position.Principal,
		"interest_index":    position.InterestIndex,
		"version":           version,
	}

	update := tx.Update().Model(position).Where("version = ?", position.Version).Updates(updates)
	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	position.Version = version
	return nil
}
