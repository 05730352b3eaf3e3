package entity

import (
	"time"

	"github.com/nextlevel/reward-engine/pkg/enum"
)

type Role string

var (
	ParticipantRole = enum.New(Role("PARTICIPANT"), "PARTICIPANT")
	AdminRole       = enum.New(Role("ADMIN"), "ADMIN")
)

// User is keyed by the employee id handed over by the identity provider.
type User struct {
	ID        string `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name              string
	Role              Role  `gorm:"default:PARTICIPANT"`
	TotalPoints       int64 `gorm:"not null;default:0"`
	MissionsCompleted int   `gorm:"not null;default:0"`
}
