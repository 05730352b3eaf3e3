package repository

import (
	"context"

	"github.com/nextlevel/reward-engine/internal/entity"
	"github.com/nextlevel/reward-engine/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserMissionRepository interface {
	BulkInsert(ctx context.Context, missions []entity.UserMission) error
	GetListByUserID(ctx context.Context, userID string) ([]entity.UserMission, error)
	GetForUpdate(ctx context.Context, userID, missionID string) (*entity.UserMission, error)
	Save(ctx context.Context, mission *entity.UserMission) error
	CountCompleted(ctx context.Context, userID string) (int64, error)
}

type userMissionRepository struct{}

func NewUserMissionRepository() *userMissionRepository {
	return &userMissionRepository{}
}

// BulkInsert skips rows which already exist, so calling it twice for the same
// user keeps the first set of rows.
func (r *userMissionRepository) BulkInsert(ctx context.Context, missions []entity.UserMission) error {
	return xcontext.DB(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&missions).Error
}

func (r *userMissionRepository) GetListByUserID(ctx context.Context, userID string) ([]entity.UserMission, error) {
	var result []entity.UserMission
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("mission_id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userMissionRepository) GetForUpdate(
	ctx context.Context, userID, missionID string,
) (*entity.UserMission, error) {
	var result entity.UserMission
	err := xcontext.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&result, "user_id=? AND mission_id=?", userID, missionID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Save writes the mutable state of a mission row. The progress column never
// moves backwards and a completed row is never rewritten as incomplete, even
// if the caller holds a stale copy.
func (r *userMissionRepository) Save(ctx context.Context, mission *entity.UserMission) error {
	tx := xcontext.DB(ctx).
		Model(&entity.UserMission{}).
		Where("id=? AND progress <= ? AND (completed = ? OR completed = ?)",
			mission.ID, mission.Progress, false, mission.Completed).
		Updates(map[string]any{
			"unlocked":     mission.Unlocked,
			"completed":    mission.Completed,
			"progress":     mission.Progress,
			"unlocked_at":  mission.UnlockedAt,
			"completed_at": mission.CompletedAt,
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userMissionRepository) CountCompleted(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.UserMission{}).
		Where("user_id=? AND completed=?", userID, true).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
