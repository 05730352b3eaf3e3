package model

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/nextlevel/reward-engine/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertUser(user *entity.User) User {
	if user == nil {
		return User{}
	}

	return User{
		ID:                user.ID,
		Name:              user.Name,
		Role:              string(user.Role),
		TotalPoints:       user.TotalPoints,
		MissionsCompleted: user.MissionsCompleted,
	}
}

// ConvertMission fills the display fields from the catalog entry. The
// description is masked by the caller when the mission is locked.
func ConvertMission(mission *entity.UserMission, title, description string) Mission {
	if mission == nil {
		return Mission{}
	}

	return Mission{
		ID:          mission.MissionID,
		Title:       title,
		Description: description,
		Unlocked:    mission.Unlocked,
		Completed:   mission.Completed,
		Progress:    mission.Progress,
		Target:      mission.Target,
		UnlockedAt:  convertNullTime(mission.UnlockedAt),
		CompletedAt: convertNullTime(mission.CompletedAt),
	}
}

func ConvertPrize(prize *entity.Prize) Prize {
	if prize == nil {
		return Prize{}
	}

	return Prize{
		ID:             prize.ID,
		Name:           prize.Name,
		ImageURL:       prize.ImageURL,
		UnitPrice:      prize.UnitPrice,
		TotalStock:     prize.TotalStock,
		RemainingStock: prize.RemainingStock,
	}
}

func ConvertDrawAttempt(attempt *entity.DrawAttempt) DrawAttempt {
	if attempt == nil {
		return DrawAttempt{}
	}

	return DrawAttempt{
		ID:            strconv.FormatInt(attempt.ID, 10),
		AttemptNumber: attempt.AttemptNumber,
		PrizeID:       attempt.PrizeID,
		PrizeName:     attempt.Prize.Name,
		PrizeImageURL: attempt.Prize.ImageURL,
		PointsSpent:   attempt.PointsSpent,
		CreatedAt:     attempt.CreatedAt.Format(DefaultTimeLayout),
	}
}

func convertNullTime(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}

	return t.Time.Format(DefaultTimeLayout)
}
