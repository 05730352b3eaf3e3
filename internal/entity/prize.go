package entity

import "time"

type Prize struct {
	ID        string `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name           string `gorm:"not null"`
	ImageURL       string
	UnitPrice      int
	TotalStock     int `gorm:"not null"`
	RemainingStock int `gorm:"not null;check:remaining_stock >= 0"`
}

type DrawAttempt struct {
	SnowFlakeBase

	UserID string `gorm:"uniqueIndex:idx_draw_attempts_user_id_attempt_number;not null"`
	User   User   `gorm:"foreignKey:UserID"`

	PrizeID string `gorm:"index;not null"`
	Prize   Prize  `gorm:"foreignKey:PrizeID"`

	PointsSpent   int64 `gorm:"not null"`
	AttemptNumber int   `gorm:"uniqueIndex:idx_draw_attempts_user_id_attempt_number;not null"`
}
