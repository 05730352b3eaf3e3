package mission

import (
	"database/sql"
	"time"

	"github.com/nextlevel/reward-engine/internal/entity"
	"github.com/pkg/math"
)

// Transition describes what a call changed on a mission row.
type Transition struct {
	Unlocked   bool
	Progressed bool
	Completed  bool
}

func (t Transition) Changed() bool {
	return t.Unlocked || t.Progressed || t.Completed
}

func (t Transition) merge(other Transition) Transition {
	return Transition{
		Unlocked:   t.Unlocked || other.Unlocked,
		Progressed: t.Progressed || other.Progressed,
		Completed:  t.Completed || other.Completed,
	}
}

// Unlock moves a locked mission to unlocked. It does nothing on an unlocked or
// completed mission.
func Unlock(m *entity.UserMission, now time.Time) Transition {
	if m.Unlocked {
		return Transition{}
	}

	m.Unlocked = true
	m.UnlockedAt = sql.NullTime{Valid: true, Time: now}
	return Transition{Unlocked: true}
}

// Advance adds delta to the progress of an unlocked mission.
func Advance(m *entity.UserMission, delta int, now time.Time) Transition {
	if delta < 1 {
		return Transition{}
	}

	return SetProgress(m, m.Progress+delta, now)
}

// SetProgress raises the progress of an unlocked mission to n, clamped to the
// target. Progress never decreases. Reaching the target completes the mission.
func SetProgress(m *entity.UserMission, n int, now time.Time) Transition {
	if !m.Unlocked || m.Completed {
		return Transition{}
	}

	n = math.MinInt(n, m.Target)
	if n <= m.Progress {
		return Transition{}
	}

	m.Progress = n
	t := Transition{Progressed: true}
	if m.Progress >= m.Target {
		complete(m, now)
		t.Completed = true
	}

	return t
}

// ForceComplete completes an unlocked mission regardless of its progress.
func ForceComplete(m *entity.UserMission, now time.Time) Transition {
	if !m.Unlocked || m.Completed {
		return Transition{}
	}

	t := Transition{Completed: true}
	if m.Progress < m.Target {
		m.Progress = m.Target
		t.Progressed = true
	}

	complete(m, now)
	return t
}

func complete(m *entity.UserMission, now time.Time) {
	m.Completed = true
	m.CompletedAt = sql.NullTime{Valid: true, Time: now}
}
