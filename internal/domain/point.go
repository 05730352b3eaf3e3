package domain

import (
	"context"
	"errors"

	"github.com/nextlevel/reward-engine/internal/model"
	"github.com/nextlevel/reward-engine/internal/repository"
	"github.com/nextlevel/reward-engine/pkg/errorx"
	"github.com/nextlevel/reward-engine/pkg/xcontext"
	"gorm.io/gorm"
)

type PointDomain interface {
	GetMyPoints(context.Context, *model.GetMyPointsRequest) (*model.GetMyPointsResponse, error)
	Deduct(context.Context, *model.DeductPointsRequest) (*model.DeductPointsResponse, error)

	// Credit adds points to the balance of the user and returns the new
	// balance.
	Credit(ctx context.Context, userID string, amount int64) (int64, error)
}

type pointDomain struct {
	userRepo repository.UserRepository
}

func NewPointDomain(userRepo repository.UserRepository) *pointDomain {
	return &pointDomain{userRepo: userRepo}
}

func (d *pointDomain) GetMyPoints(
	ctx context.Context, req *model.GetMyPointsRequest,
) (*model.GetMyPointsResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMyPointsResponse{TotalPoints: user.TotalPoints}, nil
}

func (d *pointDomain) Deduct(
	ctx context.Context, req *model.DeductPointsRequest,
) (*model.DeductPointsResponse, error) {
	if req.Amount <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Amount must be a positive number")
	}

	userID := xcontext.RequestUserID(ctx)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.userRepo.DecreasePoint(ctx, userID, req.Amount); err != nil {
		return nil, d.translateLedgerError(ctx, err)
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeductPointsResponse{TotalPoints: user.TotalPoints}, nil
}

func (d *pointDomain) Credit(ctx context.Context, userID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, errorx.New(errorx.BadRequest, "Amount must be a positive number")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.userRepo.IncreasePoint(ctx, userID, amount); err != nil {
		return 0, d.translateLedgerError(ctx, err)
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return 0, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return 0, errorx.Unknown
	}

	return user.TotalPoints, nil
}

func (d *pointDomain) translateLedgerError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errorx.New(errorx.NotFound, "Not found user")
	case errors.Is(err, repository.ErrInsufficientPoints):
		return errorx.New(errorx.InsufficientFunds, "Not enough points")
	default:
		xcontext.Logger(ctx).Errorf("Cannot update points: %v", err)
		return errorx.Unknown
	}
}
