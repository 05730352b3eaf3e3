package repository

import (
	"context"

	"github.com/nextlevel/reward-engine/internal/entity"
	"github.com/nextlevel/reward-engine/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PrizeRepository interface {
	Upsert(ctx context.Context, prize *entity.Prize) error
	GetByID(ctx context.Context, id string) (*entity.Prize, error)
	GetList(ctx context.Context) ([]entity.Prize, error)
	GetInStock(ctx context.Context) ([]entity.Prize, error)
	CheckAndDecreaseStock(ctx context.Context, prizeID string) error
}

type prizeRepository struct{}

func NewPrizeRepository() *prizeRepository {
	return &prizeRepository{}
}

// Upsert creates the prize or, if it exists, refreshes its display fields.
// Stock columns of an existing prize are left untouched.
func (r *prizeRepository) Upsert(ctx context.Context, prize *entity.Prize) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "image_url", "unit_price", "updated_at"}),
	}).Create(prize).Error
}

func (r *prizeRepository) GetByID(ctx context.Context, id string) (*entity.Prize, error) {
	var result entity.Prize
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *prizeRepository) GetList(ctx context.Context) ([]entity.Prize, error) {
	var result []entity.Prize
	if err := xcontext.DB(ctx).Order("id ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *prizeRepository) GetInStock(ctx context.Context) ([]entity.Prize, error) {
	var result []entity.Prize
	err := xcontext.DB(ctx).
		Where("remaining_stock > ?", 0).
		Order("id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// CheckAndDecreaseStock takes one unit of the prize. It returns
// gorm.ErrRecordNotFound if the prize has no stock left at the moment the row
// lock is held.
func (r *prizeRepository) CheckAndDecreaseStock(ctx context.Context, prizeID string) error {
	tx := xcontext.DB(ctx).Model(&entity.Prize{}).
		Where("id=? AND remaining_stock > ?", prizeID, 0).
		Update("remaining_stock", gorm.Expr("remaining_stock-?", 1))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
