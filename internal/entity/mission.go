package entity

import (
	"database/sql"
)

type UserMission struct {
	Base

	UserID string `gorm:"uniqueIndex:idx_user_missions_user_id_mission_id;not null"`
	User   User   `gorm:"foreignKey:UserID"`

	MissionID string `gorm:"uniqueIndex:idx_user_missions_user_id_mission_id;not null"`

	Unlocked    bool `gorm:"not null;default:false"`
	Completed   bool `gorm:"not null;default:false"`
	Progress    int  `gorm:"not null;default:0"`
	Target      int  `gorm:"not null;default:1"`
	UnlockedAt  sql.NullTime
	CompletedAt sql.NullTime
}
