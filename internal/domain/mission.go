package domain

import (
	"context"
	"errors"

	"github.com/nextlevel/reward-engine/internal/domain/mission"
	"github.com/nextlevel/reward-engine/internal/model"
	"github.com/nextlevel/reward-engine/internal/repository"
	"github.com/nextlevel/reward-engine/pkg/errorx"
	"github.com/nextlevel/reward-engine/pkg/xcontext"
	"gorm.io/gorm"
)

type MissionDomain interface {
	GetMissions(context.Context, *model.GetMissionsRequest) (*model.GetMissionsResponse, error)
	Claim(context.Context, *model.ClaimMissionRequest) (*model.ClaimMissionResponse, error)
}

type missionDomain struct {
	userRepo        repository.UserRepository
	userMissionRepo repository.UserMissionRepository
	missionEngine   *mission.Engine
}

func NewMissionDomain(
	userRepo repository.UserRepository,
	userMissionRepo repository.UserMissionRepository,
	missionEngine *mission.Engine,
) *missionDomain {
	return &missionDomain{
		userRepo:        userRepo,
		userMissionRepo: userMissionRepo,
		missionEngine:   missionEngine,
	}
}

func (d *missionDomain) GetMissions(
	ctx context.Context, req *model.GetMissionsRequest,
) (*model.GetMissionsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	missions, err := d.userMissionRepo.GetListByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get missions: %v", err)
		return nil, errorx.Unknown
	}

	clientMissions := []model.Mission{}
	for i := range missions {
		title, description := mission.MaskedDescription, mission.MaskedDescription
		if def, ok := mission.FindDefinition(missions[i].MissionID); ok {
			title, description = def.Title, def.DisplayDescription(missions[i].Unlocked)
		}

		clientMissions = append(clientMissions, model.ConvertMission(&missions[i], title, description))
	}

	return &model.GetMissionsResponse{
		Missions:          clientMissions,
		MissionsCompleted: user.MissionsCompleted,
	}, nil
}

func (d *missionDomain) Claim(
	ctx context.Context, req *model.ClaimMissionRequest,
) (*model.ClaimMissionResponse, error) {
	if req.MissionID == "" {
		return nil, errorx.New(errorx.BadRequest, "Mission id is required")
	}

	outcome, err := d.missionEngine.Claim(ctx, xcontext.RequestUserID(ctx), req.MissionID)
	if err != nil {
		return nil, err
	}

	if !outcome.Completed {
		return &model.ClaimMissionResponse{Status: model.ClaimMissionNoOp}, nil
	}

	return &model.ClaimMissionResponse{Status: model.ClaimMissionCompleted}, nil
}
