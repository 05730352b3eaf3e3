package mission

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/nextlevel/reward-engine/internal/entity"
	"github.com/nextlevel/reward-engine/pkg/enum"
	"golang.org/x/exp/slices"
)

const (
	M1 = "M1"
	M2 = "M2"
	M3 = "M3"
	M4 = "M4"
	M5 = "M5"
)

// MaskedDescription is shown instead of the description of a locked mission.
const MaskedDescription = "???"

type TriggerKind string

var (
	CommentAddedKind          = enum.New(TriggerKind("comment_added"), "comment_added")
	ActivityZoneCompletedKind = enum.New(TriggerKind("activity_zone_completed"), "activity_zone_completed")
	BoothVisitorCountKind     = enum.New(TriggerKind("booth_visitor_count_changed"), "booth_visitor_count_changed")
	DrawAttemptedKind         = enum.New(TriggerKind("draw_attempted"), "draw_attempted")
	ReviewCountKind           = enum.New(TriggerKind("review_count_changed"), "review_count_changed")
)

type Definition struct {
	ID          string
	Title       string
	Description string
	Target      int
	Kind        TriggerKind

	// InitiallyUnlocked missions are open from the first login.
	InitiallyUnlocked bool
}

// Catalog is ordered by mission id.
var Catalog = []Definition{
	{
		ID:                M1,
		Title:             "Make tomorrow new",
		Description:       "Leave an improvement suggestion on another booth's idea.",
		Target:            1,
		Kind:              CommentAddedKind,
		InitiallyUnlocked: true,
	},
	{
		ID:                M2,
		Title:             "Dream big",
		Description:       "Try the growth zone and scan its QR code.",
		Target:            1,
		Kind:              ActivityZoneCompletedKind,
		InitiallyUnlocked: true,
	},
	{
		ID:          M3,
		Title:       "Deliver results",
		Description: "Have 70 or more visitors at your booth.",
		Target:      1,
		Kind:        BoothVisitorCountKind,
	},
	{
		ID:          M4,
		Title:       "Try again",
		Description: "Take two chances at the prize draw.",
		Target:      2,
		Kind:        DrawAttemptedKind,
	},
	{
		ID:          M5,
		Title:       "Be sincere",
		Description: "Write 12 sincere reviews.",
		Target:      12,
		Kind:        ReviewCountKind,
	},
}

func FindDefinition(missionID string) (Definition, bool) {
	i := slices.IndexFunc(Catalog, func(d Definition) bool { return d.ID == missionID })
	if i < 0 {
		return Definition{}, false
	}

	return Catalog[i], true
}

func (d Definition) DisplayDescription(unlocked bool) string {
	if !unlocked {
		return MaskedDescription
	}

	return d.Description
}

// InitialStates returns the mission rows of a new participant. Missions open
// from the first login are stamped as unlocked at now.
func InitialStates(userID string, now time.Time) []entity.UserMission {
	missions := make([]entity.UserMission, 0, len(Catalog))
	for _, d := range Catalog {
		m := entity.UserMission{
			Base:      entity.Base{ID: uuid.NewString()},
			UserID:    userID,
			MissionID: d.ID,
			Unlocked:  d.InitiallyUnlocked,
			Target:    d.Target,
		}

		if d.InitiallyUnlocked {
			m.UnlockedAt = sql.NullTime{Valid: true, Time: now}
		}

		missions = append(missions, m)
	}

	return missions
}
