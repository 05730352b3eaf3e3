package mission

import (
	"testing"
	"time"

	"github.com/nextlevel/reward-engine/internal/entity"
	"github.com/stretchr/testify/require"
)

func findHandler(t *testing.T, kind TriggerKind) Handler {
	for _, h := range DefaultHandlers() {
		if h.Kind() == kind {
			return h
		}
	}

	require.FailNow(t, "not found handler", kind)
	return nil
}

func Test_DefaultHandlers_CoverCatalog(t *testing.T) {
	handlers := DefaultHandlers()
	require.Len(t, handlers, len(Catalog))
	for _, d := range Catalog {
		h := findHandler(t, d.Kind)
		require.Equal(t, d.ID, h.MissionID())
	}
}

func Test_incrementHandler(t *testing.T) {
	now := time.Now()
	h := findHandler(t, CommentAddedKind)

	m := &entity.UserMission{Target: 1}
	tr := h.Apply(m, CommentAdded{UserID: "user1"}, now)
	require.Equal(t, Transition{Unlocked: true, Progressed: true, Completed: true}, tr)

	require.False(t, h.Apply(m, CommentAdded{UserID: "user1"}, now).Changed())
}

func Test_boothVisitorHandler(t *testing.T) {
	now := time.Now()
	h := findHandler(t, BoothVisitorCountKind)
	m := &entity.UserMission{Target: 1}

	trigger := func(n int) Trigger {
		return BoothVisitorCountChanged{BoothID: "booth1", OwnerID: "user1", VisitorCount: n}
	}

	require.False(t, h.Apply(m, trigger(25), now).Changed())
	require.False(t, m.Unlocked)

	require.Equal(t, Transition{Unlocked: true}, h.Apply(m, trigger(35), now))
	require.False(t, m.Completed)

	// Replaying the same count is a no-op.
	require.False(t, h.Apply(m, trigger(35), now).Changed())

	require.True(t, h.Apply(m, trigger(70), now).Completed)
	require.Equal(t, 1, m.Progress)

	require.False(t, h.Apply(m, trigger(90), now).Changed())
}

func Test_boothVisitorHandler_JumpOverThresholds(t *testing.T) {
	h := findHandler(t, BoothVisitorCountKind)
	m := &entity.UserMission{Target: 1}

	tr := h.Apply(m, BoothVisitorCountChanged{OwnerID: "user1", VisitorCount: 75}, time.Now())
	require.True(t, tr.Unlocked)
	require.True(t, tr.Completed)
}

func Test_drawAttemptHandler(t *testing.T) {
	now := time.Now()
	h := findHandler(t, DrawAttemptedKind)
	m := &entity.UserMission{Target: 2}

	require.False(t, h.Apply(m, DrawAttempted{UserID: "user1", AttemptCount: 0}, now).Changed())

	tr := h.Apply(m, DrawAttempted{UserID: "user1", AttemptCount: 1}, now)
	require.Equal(t, Transition{Unlocked: true, Progressed: true}, tr)
	require.Equal(t, 1, m.Progress)

	require.False(t, h.Apply(m, DrawAttempted{UserID: "user1", AttemptCount: 1}, now).Changed())

	tr = h.Apply(m, DrawAttempted{UserID: "user1", AttemptCount: 2}, now)
	require.True(t, tr.Completed)
	require.Equal(t, 2, m.Progress)
}

func Test_reviewHandler(t *testing.T) {
	now := time.Now()
	h := findHandler(t, ReviewCountKind)
	m := &entity.UserMission{Target: 12}

	require.Equal(t,
		Transition{Unlocked: true, Progressed: true},
		h.Apply(m, ReviewCountChanged{UserID: "user1", ReviewCount: 3}, now),
	)
	require.Equal(t, 3, m.Progress)

	// A lower count never moves progress backwards.
	require.False(t, h.Apply(m, ReviewCountChanged{UserID: "user1", ReviewCount: 2}, now).Changed())
	require.Equal(t, 3, m.Progress)

	require.True(t, h.Apply(m, ReviewCountChanged{UserID: "user1", ReviewCount: 15}, now).Completed)
	require.Equal(t, 12, m.Progress)
}

func Test_handler_WrongTriggerType(t *testing.T) {
	h := findHandler(t, ReviewCountKind)
	m := &entity.UserMission{Target: 12}
	require.False(t, h.Apply(m, CommentAdded{UserID: "user1"}, time.Now()).Changed())
	require.False(t, m.Unlocked)
}
