package domain

import (
	"context"

	"github.com/nextlevel/reward-engine/internal/common"
	"github.com/nextlevel/reward-engine/internal/domain/mission"
	"github.com/nextlevel/reward-engine/internal/model"
	"github.com/nextlevel/reward-engine/pkg/errorx"
	"github.com/nextlevel/reward-engine/pkg/xcontext"
)

// EventDomain receives the notifications of the content services. Each
// notification runs its own primary action first, the mission trigger comes
// after and never fails the notification.
type EventDomain interface {
	NotifyVisit(context.Context, *model.NotifyVisitRequest) (*model.NotifyVisitResponse, error)
	NotifyComment(context.Context, *model.NotifyCommentRequest) (*model.NotifyCommentResponse, error)
	NotifyActivityZone(context.Context, *model.NotifyActivityZoneRequest) (*model.NotifyActivityZoneResponse, error)
	NotifyReview(context.Context, *model.NotifyReviewRequest) (*model.NotifyReviewResponse, error)

	// Fire applies the trigger and logs a failure instead of returning it.
	Fire(ctx context.Context, trigger mission.Trigger)
}

type eventDomain struct {
	pointDomain   PointDomain
	missionEngine *mission.Engine
}

func NewEventDomain(pointDomain PointDomain, missionEngine *mission.Engine) *eventDomain {
	return &eventDomain{
		pointDomain:   pointDomain,
		missionEngine: missionEngine,
	}
}

func (d *eventDomain) NotifyVisit(
	ctx context.Context, req *model.NotifyVisitRequest,
) (*model.NotifyVisitResponse, error) {
	if req.BoothID == "" || req.VisitorID == "" || req.OwnerID == "" {
		return nil, errorx.New(errorx.BadRequest, "Booth, visitor and owner are required")
	}

	if req.VisitorCount < 0 {
		return nil, errorx.New(errorx.BadRequest, "Visitor count must not be negative")
	}

	balance, creditErr := d.pointDomain.Credit(ctx, req.VisitorID, xcontext.Configs(ctx).Engine.VisitPoints)

	// The visit was recorded by the content service, so the owner's count
	// changed even if the visitor couldn't be credited.
	d.Fire(ctx, mission.BoothVisitorCountChanged{
		BoothID:      req.BoothID,
		OwnerID:      req.OwnerID,
		VisitorCount: req.VisitorCount,
	})

	if creditErr != nil {
		return nil, creditErr
	}

	return &model.NotifyVisitResponse{VisitorPoints: balance}, nil
}

func (d *eventDomain) NotifyComment(
	ctx context.Context, req *model.NotifyCommentRequest,
) (*model.NotifyCommentResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "User is required")
	}

	d.Fire(ctx, mission.CommentAdded{UserID: req.UserID})
	return &model.NotifyCommentResponse{}, nil
}

func (d *eventDomain) NotifyActivityZone(
	ctx context.Context, req *model.NotifyActivityZoneRequest,
) (*model.NotifyActivityZoneResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "User is required")
	}

	d.Fire(ctx, mission.ActivityZoneCompleted{UserID: req.UserID})
	return &model.NotifyActivityZoneResponse{}, nil
}

func (d *eventDomain) NotifyReview(
	ctx context.Context, req *model.NotifyReviewRequest,
) (*model.NotifyReviewResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "User is required")
	}

	if req.ReviewCount < 0 {
		return nil, errorx.New(errorx.BadRequest, "Review count must not be negative")
	}

	d.Fire(ctx, mission.ReviewCountChanged{UserID: req.UserID, ReviewCount: req.ReviewCount})
	return &model.NotifyReviewResponse{}, nil
}

func (d *eventDomain) Fire(ctx context.Context, trigger mission.Trigger) {
	if _, err := d.missionEngine.Apply(ctx, trigger); err != nil {
		common.PromCounters[common.TriggerFailureTotal].WithLabelValues(string(trigger.Kind())).Inc()
		xcontext.Logger(ctx).Errorf("Cannot apply trigger %s of user %s: %v",
			trigger.Kind(), trigger.Participant(), err)
	}
}
