package domain

import (
	"context"
	"errors"
	"time"

	"github.com/nextlevel/reward-engine/internal/domain/mission"
	"github.com/nextlevel/reward-engine/internal/entity"
	"github.com/nextlevel/reward-engine/internal/model"
	"github.com/nextlevel/reward-engine/internal/repository"
	"github.com/nextlevel/reward-engine/pkg/enum"
	"github.com/nextlevel/reward-engine/pkg/errorx"
	"github.com/nextlevel/reward-engine/pkg/xcontext"
	"gorm.io/gorm"
)

type ParticipantDomain interface {
	Init(context.Context, *model.InitParticipantRequest) (*model.InitParticipantResponse, error)
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
}

type participantDomain struct {
	userRepo        repository.UserRepository
	userMissionRepo repository.UserMissionRepository
}

func NewParticipantDomain(
	userRepo repository.UserRepository,
	userMissionRepo repository.UserMissionRepository,
) *participantDomain {
	return &participantDomain{
		userRepo:        userRepo,
		userMissionRepo: userMissionRepo,
	}
}

// Init creates the account and the mission rows of a participant at the first
// login. Calling it again for the same participant changes nothing.
func (d *participantDomain) Init(
	ctx context.Context, req *model.InitParticipantRequest,
) (*model.InitParticipantResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "User is required")
	}

	role := entity.ParticipantRole
	if req.Role != "" {
		var err error
		role, err = enum.ToEnum[entity.Role](req.Role)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Invalid role: %v", err)
			return nil, errorx.New(errorx.BadRequest, "Invalid role %s", req.Role)
		}
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	created := false
	user, err := d.userRepo.GetByIDForUpdate(ctx, req.UserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
			return nil, errorx.Unknown
		}

		user = &entity.User{ID: req.UserID, Name: req.Name, Role: role}
		if err := d.userRepo.Create(ctx, user); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
			return nil, errorx.Unknown
		}

		created = true
	}

	if err := d.userMissionRepo.BulkInsert(ctx, mission.InitialStates(user.ID, time.Now())); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create missions of user %s: %v", user.ID, err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.InitParticipantResponse{User: model.ConvertUser(user), Created: created}, nil
}

func (d *participantDomain) GetMe(
	ctx context.Context, req *model.GetMeRequest,
) (*model.GetMeResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetMeResponse(model.ConvertUser(user))
	return &resp, nil
}
