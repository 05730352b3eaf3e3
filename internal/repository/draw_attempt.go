package repository

import (
	"context"

	"github.com/nextlevel/reward-engine/internal/entity"
	"github.com/nextlevel/reward-engine/pkg/xcontext"
)

type DrawAttemptRepository interface {
	Create(ctx context.Context, attempt *entity.DrawAttempt) error
	CountByUserID(ctx context.Context, userID string) (int64, error)
	GetListByUserID(ctx context.Context, userID string) ([]entity.DrawAttempt, error)
}

type drawAttemptRepository struct{}

func NewDrawAttemptRepository() *drawAttemptRepository {
	return &drawAttemptRepository{}
}

func (r *drawAttemptRepository) Create(ctx context.Context, attempt *entity.DrawAttempt) error {
	return xcontext.DB(ctx).Omit("User", "Prize").Create(attempt).Error
}

func (r *drawAttemptRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.DrawAttempt{}).
		Where("user_id=?", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// GetListByUserID returns the attempts of a user, newest first, with their
// prizes preloaded.
func (r *drawAttemptRepository) GetListByUserID(ctx context.Context, userID string) ([]entity.DrawAttempt, error) {
	var result []entity.DrawAttempt
	err := xcontext.DB(ctx).
		Preload("Prize").
		Where("user_id=?", userID).
		Order("attempt_number DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
