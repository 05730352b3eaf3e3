package mission_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nextlevel/reward-engine/internal/domain/mission"
	"github.com/nextlevel/reward-engine/internal/entity"
	"github.com/nextlevel/reward-engine/internal/repository"
	"github.com/nextlevel/reward-engine/pkg/errorx"
	"github.com/nextlevel/reward-engine/pkg/pubsub"
	"github.com/nextlevel/reward-engine/pkg/testutil"
	"github.com/nextlevel/reward-engine/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newEngine(publisher pubsub.Publisher) *mission.Engine {
	return mission.NewEngine(
		repository.NewUserRepository(),
		repository.NewUserMissionRepository(),
		publisher,
		mission.DefaultHandlers()...,
	)
}

func requireMission(
	t *testing.T, ctx context.Context, userID, missionID string,
	unlocked, completed bool, progress int,
) {
	m, err := repository.NewUserMissionRepository().GetForUpdate(ctx, userID, missionID)
	require.NoError(t, err)
	require.Equal(t, unlocked, m.Unlocked, "unlocked")
	require.Equal(t, completed, m.Completed, "completed")
	require.Equal(t, progress, m.Progress, "progress")
	require.Equal(t, unlocked, m.UnlockedAt.Valid, "unlocked at")
	require.Equal(t, completed, m.CompletedAt.Valid, "completed at")
}

func requireMissionsCompleted(t *testing.T, ctx context.Context, userID string, n int) {
	user, err := repository.NewUserRepository().GetByID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, n, user.MissionsCompleted)

	count, err := repository.NewUserMissionRepository().CountCompleted(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, int64(n), count)
}

func Test_Engine_CommentCompletesM1(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	publisher := testutil.NewRecordPublisher()
	engine := newEngine(publisher)

	outcome, err := engine.Apply(ctx, mission.CommentAdded{UserID: testutil.User1.ID})
	require.NoError(t, err)
	require.True(t, outcome.Completed)

	requireMission(t, ctx, testutil.User1.ID, mission.M1, true, true, 1)
	requireMission(t, ctx, testutil.User1.ID, mission.M3, false, false, 0)
	requireMissionsCompleted(t, ctx, testutil.User1.ID, 1)

	packs := publisher.Packs(xcontext.Configs(ctx).Kafka.MissionTopic)
	require.Len(t, packs, 1)
	require.Equal(t, []byte(testutil.User1.ID), packs[0].Key)

	var event mission.CompletedEvent
	require.NoError(t, json.Unmarshal(packs[0].Msg, &event))
	require.Equal(t, testutil.User1.ID, event.UserID)
	require.Equal(t, mission.M1, event.MissionID)
	require.False(t, event.CompletedAt.IsZero())

	// A second comment changes nothing.
	outcome, err = engine.Apply(ctx, mission.CommentAdded{UserID: testutil.User1.ID})
	require.NoError(t, err)
	require.False(t, outcome.Changed())
	requireMissionsCompleted(t, ctx, testutil.User1.ID, 1)
	require.Len(t, publisher.Packs(xcontext.Configs(ctx).Kafka.MissionTopic), 1)
}

func Test_Engine_BoothVisitorThresholds(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	engine := newEngine(nil)

	trigger := func(n int) mission.Trigger {
		return mission.BoothVisitorCountChanged{
			BoothID:      testutil.Booth1,
			OwnerID:      testutil.User3.ID,
			VisitorCount: n,
		}
	}

	_, err := engine.Apply(ctx, trigger(25))
	require.NoError(t, err)
	requireMission(t, ctx, testutil.User3.ID, mission.M3, false, false, 0)

	_, err = engine.Apply(ctx, trigger(35))
	require.NoError(t, err)
	requireMission(t, ctx, testutil.User3.ID, mission.M3, true, false, 0)

	// Replayed count.
	outcome, err := engine.Apply(ctx, trigger(35))
	require.NoError(t, err)
	require.False(t, outcome.Changed())

	_, err = engine.Apply(ctx, trigger(70))
	require.NoError(t, err)
	requireMission(t, ctx, testutil.User3.ID, mission.M3, true, true, 1)
	requireMissionsCompleted(t, ctx, testutil.User3.ID, 1)

	_, err = engine.Apply(ctx, trigger(80))
	require.NoError(t, err)
	requireMissionsCompleted(t, ctx, testutil.User3.ID, 1)
}

func Test_Engine_ReviewCount(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	engine := newEngine(nil)

	for _, n := range []int{1, 5, 3, 11} {
		_, err := engine.Apply(ctx, mission.ReviewCountChanged{UserID: testutil.User1.ID, ReviewCount: n})
		require.NoError(t, err)
	}
	requireMission(t, ctx, testutil.User1.ID, mission.M5, true, false, 11)

	_, err := engine.Apply(ctx, mission.ReviewCountChanged{UserID: testutil.User1.ID, ReviewCount: 12})
	require.NoError(t, err)
	requireMission(t, ctx, testutil.User1.ID, mission.M5, true, true, 12)
	requireMissionsCompleted(t, ctx, testutil.User1.ID, 1)
}

func Test_Engine_UnknownParticipantIsNoop(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	engine := newEngine(&testutil.MockPublisher{
		PublishFunc: func(context.Context, string, *pubsub.Pack) error {
			return errors.New("must not publish")
		},
	})

	outcome, err := engine.Apply(ctx, mission.CommentAdded{UserID: "unknown"})
	require.NoError(t, err)
	require.False(t, outcome.Changed())
}

func Test_Engine_PublishFailureIsIgnored(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	engine := newEngine(&testutil.MockPublisher{
		PublishFunc: func(context.Context, string, *pubsub.Pack) error {
			return errors.New("broker is down")
		},
	})

	outcome, err := engine.Apply(ctx, mission.ActivityZoneCompleted{UserID: testutil.User2.ID})
	require.NoError(t, err)
	require.True(t, outcome.Completed)
	requireMission(t, ctx, testutil.User2.ID, mission.M2, true, true, 1)
}

func Test_Engine_UnknownKind(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	// Engine without the review handler.
	engine := mission.NewEngine(
		repository.NewUserRepository(),
		repository.NewUserMissionRepository(),
		nil,
		mission.DefaultHandlers()[:4]...,
	)

	_, err := engine.Apply(ctx, mission.ReviewCountChanged{UserID: testutil.User1.ID, ReviewCount: 1})
	require.ErrorIs(t, err, errorx.Unknown)
	requireMission(t, ctx, testutil.User1.ID, mission.M5, false, false, 0)
}

func Test_Engine_Claim(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	engine := newEngine(nil)

	// Locked.
	outcome, err := engine.Claim(ctx, testutil.User1.ID, mission.M5)
	require.NoError(t, err)
	require.False(t, outcome.Changed())
	requireMission(t, ctx, testutil.User1.ID, mission.M5, false, false, 0)

	// Unlocked.
	outcome, err = engine.Claim(ctx, testutil.User1.ID, mission.M2)
	require.NoError(t, err)
	require.True(t, outcome.Completed)
	requireMission(t, ctx, testutil.User1.ID, mission.M2, true, true, 1)

	// Already completed.
	outcome, err = engine.Claim(ctx, testutil.User1.ID, mission.M2)
	require.NoError(t, err)
	require.False(t, outcome.Changed())
	requireMissionsCompleted(t, ctx, testutil.User1.ID, 1)

	// No row.
	_, err = engine.Claim(ctx, testutil.User1.ID, "M9")
	require.True(t, errorx.Is(err, errorx.NotFound))
}

func Test_Engine_ApplyTxRollback(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	engine := newEngine(nil)

	txCtx := xcontext.WithDBTransaction(ctx)
	outcome, err := engine.ApplyTx(txCtx, mission.DrawAttempted{UserID: testutil.User1.ID, AttemptCount: 1})
	require.NoError(t, err)
	require.True(t, outcome.Unlocked)
	xcontext.WithRollbackDBTransaction(txCtx)

	requireMission(t, ctx, testutil.User1.ID, mission.M4, false, false, 0)
}

func Test_Engine_CountCompleted(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	engine := newEngine(nil)

	_, err := engine.Apply(ctx, mission.CommentAdded{UserID: testutil.User2.ID})
	require.NoError(t, err)
	_, err = engine.Apply(ctx, mission.ActivityZoneCompleted{UserID: testutil.User2.ID})
	require.NoError(t, err)

	stored, counted, err := engine.CountCompleted(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, 2, stored)
	require.Equal(t, 2, counted)

	// A row edited by hand is detected.
	err = xcontext.DB(ctx).Model(&entity.UserMission{}).
		Where("user_id=? AND mission_id=?", testutil.User2.ID, mission.M1).
		Update("completed", false).Error
	require.NoError(t, err)

	stored, counted, err = engine.CountCompleted(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, 2, stored)
	require.Equal(t, 1, counted)

	_, _, err = engine.CountCompleted(ctx, "invalid-user")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
