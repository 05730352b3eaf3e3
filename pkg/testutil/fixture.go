package testutil

import (
	"context"
	"time"

	"github.com/nextlevel/reward-engine/internal/entity"
	"github.com/nextlevel/reward-engine/pkg/xcontext"
)

var (
	// User1 has enough points for every draw.
	User1 = entity.User{
		ID:          "user1",
		Name:        "User One",
		Role:        entity.ParticipantRole,
		TotalPoints: 200,
	}

	// User2 has exactly the cost of one draw.
	User2 = entity.User{
		ID:          "user2",
		Name:        "User Two",
		Role:        entity.ParticipantRole,
		TotalPoints: 40,
	}

	// User3 owns Booth1 and has no points.
	User3 = entity.User{
		ID:   "user3",
		Name: "User Three",
		Role: entity.ParticipantRole,
	}

	Admin = entity.User{
		ID:   "admin",
		Name: "Admin",
		Role: entity.AdminRole,
	}

	Users = []*entity.User{&User1, &User2, &User3, &Admin}
)

var (
	Prize1 = entity.Prize{ID: "GOODS-01", Name: "Tumbler", TotalStock: 150, RemainingStock: 150}
	Prize2 = entity.Prize{ID: "GOODS-02", Name: "Eco bag", TotalStock: 150, RemainingStock: 150}
	Prize3 = entity.Prize{ID: "GOODS-03", Name: "Notebook", TotalStock: 150, RemainingStock: 150}
	Prize4 = entity.Prize{ID: "GOODS-04", Name: "Keyring", TotalStock: 150, RemainingStock: 150}

	Prizes = []*entity.Prize{&Prize1, &Prize2, &Prize3, &Prize4}
)

// Booth1 is owned by User3.
const Booth1 = "booth1"

// CreateFixtureDb inserts users with their initial mission rows and the
// prizes.
func CreateFixtureDb(ctx context.Context) {
	InsertUsers(ctx)
	InsertUserMissions(ctx)
	InsertPrizes(ctx)
}

func InsertUsers(ctx context.Context) {
	for _, u := range Users {
		if err := xcontext.DB(ctx).Create(u).Error; err != nil {
			panic(err)
		}
	}
}

// InsertUserMissions creates the rows a participant gets at first login:
// M1 and M2 unlocked, M3 to M5 locked.
func InsertUserMissions(ctx context.Context) {
	now := time.Now()
	for _, u := range Users {
		for _, m := range []struct {
			id       string
			unlocked bool
			target   int
		}{
			{"M1", true, 1},
			{"M2", true, 1},
			{"M3", false, 1},
			{"M4", false, 2},
			{"M5", false, 12},
		} {
			um := entity.UserMission{
				Base:      entity.Base{ID: u.ID + "_" + m.id},
				UserID:    u.ID,
				MissionID: m.id,
				Unlocked:  m.unlocked,
				Target:    m.target,
			}

			if m.unlocked {
				um.UnlockedAt.Valid = true
				um.UnlockedAt.Time = now
			}

			if err := xcontext.DB(ctx).Omit("User").Create(&um).Error; err != nil {
				panic(err)
			}
		}
	}
}

func InsertPrizes(ctx context.Context) {
	for _, p := range Prizes {
		if err := xcontext.DB(ctx).Create(p).Error; err != nil {
			panic(err)
		}
	}
}
