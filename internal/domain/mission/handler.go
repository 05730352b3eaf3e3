package mission

import (
	"time"

	"github.com/nextlevel/reward-engine/internal/entity"
	"github.com/pkg/math"
)

// Handler applies the triggers of one kind to the state of one mission.
type Handler interface {
	Kind() TriggerKind
	MissionID() string
	Apply(m *entity.UserMission, trigger Trigger, now time.Time) Transition
}

// DefaultHandlers returns one handler per mission of the catalog.
func DefaultHandlers() []Handler {
	return []Handler{
		&incrementHandler{kind: CommentAddedKind, missionID: M1},
		&incrementHandler{kind: ActivityZoneCompletedKind, missionID: M2},
		&boothVisitorHandler{unlockAt: 30, completeAt: 70},
		&drawAttemptHandler{unlockAt: 1},
		&reviewHandler{unlockAt: 1},
	}
}

// incrementHandler unlocks the mission if needed, then advances it by one.
type incrementHandler struct {
	kind      TriggerKind
	missionID string
}

func (h *incrementHandler) Kind() TriggerKind { return h.kind }
func (h *incrementHandler) MissionID() string { return h.missionID }

func (h *incrementHandler) Apply(m *entity.UserMission, _ Trigger, now time.Time) Transition {
	return Unlock(m, now).merge(Advance(m, 1, now))
}

// boothVisitorHandler compares the absolute visitor count with thresholds, so
// replaying the same count changes nothing.
type boothVisitorHandler struct {
	unlockAt   int
	completeAt int
}

func (h *boothVisitorHandler) Kind() TriggerKind { return BoothVisitorCountKind }
func (h *boothVisitorHandler) MissionID() string { return M3 }

func (h *boothVisitorHandler) Apply(m *entity.UserMission, trigger Trigger, now time.Time) Transition {
	t, ok := trigger.(BoothVisitorCountChanged)
	if !ok {
		return Transition{}
	}

	var result Transition
	if t.VisitorCount >= h.unlockAt {
		result = result.merge(Unlock(m, now))
	}

	if t.VisitorCount >= h.completeAt {
		result = result.merge(SetProgress(m, m.Target, now))
	}

	return result
}

// drawAttemptHandler syncs the progress with the number of attempts taken.
type drawAttemptHandler struct {
	unlockAt int
}

func (h *drawAttemptHandler) Kind() TriggerKind { return DrawAttemptedKind }
func (h *drawAttemptHandler) MissionID() string { return M4 }

func (h *drawAttemptHandler) Apply(m *entity.UserMission, trigger Trigger, now time.Time) Transition {
	t, ok := trigger.(DrawAttempted)
	if !ok || t.AttemptCount < h.unlockAt {
		return Transition{}
	}

	return Unlock(m, now).merge(SetProgress(m, t.AttemptCount, now))
}

// reviewHandler syncs the progress with the cumulative review count. A lower
// count than the current progress is ignored.
type reviewHandler struct {
	unlockAt int
}

func (h *reviewHandler) Kind() TriggerKind { return ReviewCountKind }
func (h *reviewHandler) MissionID() string { return M5 }

func (h *reviewHandler) Apply(m *entity.UserMission, trigger Trigger, now time.Time) Transition {
	t, ok := trigger.(ReviewCountChanged)
	if !ok || t.ReviewCount < h.unlockAt {
		return Transition{}
	}

	return Unlock(m, now).merge(SetProgress(m, math.MaxInt(m.Progress, t.ReviewCount), now))
}
