package domain

import (
	"testing"

	"github.com/nextlevel/reward-engine/internal/domain/mission"
	"github.com/nextlevel/reward-engine/internal/entity"
	"github.com/nextlevel/reward-engine/internal/model"
	"github.com/nextlevel/reward-engine/internal/repository"
	"github.com/nextlevel/reward-engine/pkg/errorx"
	"github.com/nextlevel/reward-engine/pkg/testutil"
	"github.com/nextlevel/reward-engine/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_participantDomain_Init(t *testing.T) {
	ctx := testutil.MockContext()
	participantDomain := NewParticipantDomain(
		repository.NewUserRepository(), repository.NewUserMissionRepository())

	resp, err := participantDomain.Init(ctx, &model.InitParticipantRequest{
		UserID: "E1001",
		Name:   "New Participant",
	})
	require.NoError(t, err)
	require.True(t, resp.Created)
	require.Equal(t, "E1001", resp.User.ID)
	require.Equal(t, string(entity.ParticipantRole), resp.User.Role)
	require.Equal(t, int64(0), resp.User.TotalPoints)

	missions, err := repository.NewUserMissionRepository().GetListByUserID(ctx, "E1001")
	require.NoError(t, err)
	require.Len(t, missions, len(mission.Catalog))
	for i, def := range mission.Catalog {
		require.Equal(t, def.ID, missions[i].MissionID)
		require.Equal(t, def.Target, missions[i].Target)
		require.Equal(t, def.InitiallyUnlocked, missions[i].Unlocked)
		require.Equal(t, def.InitiallyUnlocked, missions[i].UnlockedAt.Valid)
		require.Equal(t, 0, missions[i].Progress)
	}

	// A second login creates nothing new and keeps the progress.
	_, err = NewEventDomain(NewPointDomain(repository.NewUserRepository()), mission.NewEngine(
		repository.NewUserRepository(), repository.NewUserMissionRepository(), nil, mission.DefaultHandlers()...,
	)).NotifyComment(ctx, &model.NotifyCommentRequest{UserID: "E1001"})
	require.NoError(t, err)

	resp, err = participantDomain.Init(ctx, &model.InitParticipantRequest{UserID: "E1001", Name: "Renamed"})
	require.NoError(t, err)
	require.False(t, resp.Created)
	require.Equal(t, "New Participant", resp.User.Name)
	require.Equal(t, 1, resp.User.MissionsCompleted)

	missions, err = repository.NewUserMissionRepository().GetListByUserID(ctx, "E1001")
	require.NoError(t, err)
	require.Len(t, missions, len(mission.Catalog))
	require.True(t, missions[0].Completed)
}

func Test_participantDomain_Init_InvalidInput(t *testing.T) {
	ctx := testutil.MockContext()
	participantDomain := NewParticipantDomain(
		repository.NewUserRepository(), repository.NewUserMissionRepository())

	_, err := participantDomain.Init(ctx, &model.InitParticipantRequest{Name: "No id"})
	require.True(t, errorx.Is(err, errorx.BadRequest), err)

	_, err = participantDomain.Init(ctx, &model.InitParticipantRequest{UserID: "E1002", Role: "OWNER"})
	require.True(t, errorx.Is(err, errorx.BadRequest), err)

	resp, err := participantDomain.Init(ctx, &model.InitParticipantRequest{UserID: "E1003", Role: "ADMIN"})
	require.NoError(t, err)
	require.Equal(t, string(entity.AdminRole), resp.User.Role)

	count, err := repository.NewUserRepository().Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func Test_participantDomain_GetMe(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	participantDomain := NewParticipantDomain(
		repository.NewUserRepository(), repository.NewUserMissionRepository())

	resp, err := participantDomain.GetMe(
		xcontext.WithRequestUserID(ctx, testutil.User1.ID), &model.GetMeRequest{})
	require.NoError(t, err)
	require.Equal(t, testutil.User1.ID, resp.ID)
	require.Equal(t, testutil.User1.Name, resp.Name)
	require.Equal(t, testutil.User1.TotalPoints, resp.TotalPoints)

	_, err = participantDomain.GetMe(
		xcontext.WithRequestUserID(ctx, "invalid-user"), &model.GetMeRequest{})
	require.True(t, errorx.Is(err, errorx.NotFound), err)
}
