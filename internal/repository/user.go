package repository

import (
	"context"
	"errors"

	"github.com/nextlevel/reward-engine/internal/entity"
	"github.com/nextlevel/reward-engine/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInsufficientPoints is returned by DecreasePoint when the user exists but
// the balance cannot cover the amount.
var ErrInsufficientPoints = errors.New("insufficient points")

type UserRepository interface {
	Create(ctx context.Context, data *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error)
	GetList(ctx context.Context, offset, limit int) ([]entity.User, error)
	Count(ctx context.Context) (int64, error)

	// Ledger
	IncreasePoint(ctx context.Context, userID string, points int64) error
	DecreasePoint(ctx context.Context, userID string, points int64) error
	IncreaseMissionsCompleted(ctx context.Context, userID string) error
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, data *entity.User) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Take(&record, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

// GetByIDForUpdate holds an exclusive lock on the user row until the running
// transaction ends. Dialects without row locks (sqlite) ignore the clause.
func (r *userRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error) {
	var record entity.User
	err := xcontext.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&record, "id=?", id).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetList(ctx context.Context, offset, limit int) ([]entity.User, error) {
	var result []entity.User
	err := xcontext.DB(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := xcontext.DB(ctx).Model(&entity.User{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *userRepository) IncreasePoint(ctx context.Context, userID string, points int64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", userID).
		Update("total_points", gorm.Expr("total_points+?", points))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of rows effected is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// DecreasePoint is a compare-and-set on the balance: the row is only updated
// if it still holds at least the given points.
func (r *userRepository) DecreasePoint(ctx context.Context, userID string, points int64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=? AND total_points >= ?", userID, points).
		Update("total_points", gorm.Expr("total_points-?", points))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of rows effected is invalid")
	}

	if tx.RowsAffected == 0 {
		var count int64
		if err := xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", userID).Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			return gorm.ErrRecordNotFound
		}

		return ErrInsufficientPoints
	}

	return nil
}

func (r *userRepository) IncreaseMissionsCompleted(ctx context.Context, userID string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", userID).
		Update("missions_completed", gorm.Expr("missions_completed+1"))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
