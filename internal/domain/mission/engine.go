package mission

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nextlevel/reward-engine/internal/common"
	"github.com/nextlevel/reward-engine/internal/entity"
	"github.com/nextlevel/reward-engine/internal/repository"
	"github.com/nextlevel/reward-engine/pkg/errorx"
	"github.com/nextlevel/reward-engine/pkg/pubsub"
	"github.com/nextlevel/reward-engine/pkg/xcontext"
	"gorm.io/gorm"
)

// Outcome is the result of a mutation on one mission row.
type Outcome struct {
	UserID    string
	MissionID string
	Transition

	completedAt time.Time
}

// CompletedEvent is published when a mission becomes completed.
type CompletedEvent struct {
	UserID      string    `json:"user_id"`
	MissionID   string    `json:"mission_id"`
	CompletedAt time.Time `json:"completed_at"`
}

type Engine struct {
	// This field is only written at initialization. After that, it is
	// readonly.
	handlers map[TriggerKind]Handler

	userRepo        repository.UserRepository
	userMissionRepo repository.UserMissionRepository
	publisher       pubsub.Publisher
}

func NewEngine(
	userRepo repository.UserRepository,
	userMissionRepo repository.UserMissionRepository,
	publisher pubsub.Publisher,
	handlers ...Handler,
) *Engine {
	engine := &Engine{
		handlers:        make(map[TriggerKind]Handler),
		userRepo:        userRepo,
		userMissionRepo: userMissionRepo,
		publisher:       publisher,
	}

	for _, h := range handlers {
		engine.handlers[h.Kind()] = h
	}

	return engine
}

func (e *Engine) Kinds() []TriggerKind {
	return common.MapKeys(e.handlers)
}

// Apply runs the trigger in its own transaction and publishes the completion
// event after commit. A user or mission row which doesn't exist is a no-op.
func (e *Engine) Apply(ctx context.Context, trigger Trigger) (*Outcome, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	outcome, err := e.ApplyTx(ctx, trigger)
	if err != nil {
		return nil, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit mission transaction: %v", err)
		return nil, errorx.Unknown
	}

	e.PublishCompleted(ctx, outcome)
	return outcome, nil
}

// ApplyTx is Apply without transaction handling. It must be called inside the
// caller's transaction, and the caller publishes the outcome after commit.
func (e *Engine) ApplyTx(ctx context.Context, trigger Trigger) (*Outcome, error) {
	handler, ok := e.handlers[trigger.Kind()]
	if !ok {
		xcontext.Logger(ctx).Errorf("Not found handler of trigger %s", trigger.Kind())
		return nil, errorx.Unknown
	}

	outcome, err := e.mutate(ctx, trigger.Participant(), handler.MissionID(),
		func(m *entity.UserMission, now time.Time) Transition {
			return handler.Apply(m, trigger, now)
		})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Debugf("Ignore trigger %s of unknown participant %s",
				trigger.Kind(), trigger.Participant())
			return &Outcome{UserID: trigger.Participant(), MissionID: handler.MissionID()}, nil
		}

		return nil, err
	}

	return outcome, nil
}

// Claim completes an unlocked mission manually. It returns errorx.NotFound if
// the user has no row of the mission, and an unchanged outcome if the mission
// is locked or already completed.
func (e *Engine) Claim(ctx context.Context, userID, missionID string) (*Outcome, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	outcome, err := e.mutate(ctx, userID, missionID, ForceComplete)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found mission %s", missionID)
		}

		return nil, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit mission transaction: %v", err)
		return nil, errorx.Unknown
	}

	e.PublishCompleted(ctx, outcome)
	return outcome, nil
}

// CountCompleted returns the number of completed missions stored on the user
// and the number recounted from the mission rows. Both are always updated in
// the same transaction, so they differ only if a row was edited by hand.
func (e *Engine) CountCompleted(ctx context.Context, userID string) (int, int, error) {
	user, err := e.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, 0, err
	}

	counted, err := e.userMissionRepo.CountCompleted(ctx, userID)
	if err != nil {
		return 0, 0, err
	}

	return user.MissionsCompleted, int(counted), nil
}

func (e *Engine) mutate(
	ctx context.Context,
	userID, missionID string,
	fn func(*entity.UserMission, time.Time) Transition,
) (*Outcome, error) {
	m, err := e.userMissionRepo.GetForUpdate(ctx, userID, missionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		xcontext.Logger(ctx).Errorf("Cannot get mission %s of user %s: %v", missionID, userID, err)
		return nil, errorx.Unknown
	}

	now := time.Now()
	outcome := &Outcome{UserID: userID, MissionID: missionID, Transition: fn(m, now)}
	if !outcome.Changed() {
		return outcome, nil
	}

	if err := e.userMissionRepo.Save(ctx, m); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save mission %s of user %s: %v", missionID, userID, err)
		return nil, errorx.Unknown
	}

	if outcome.Completed {
		if err := e.userRepo.IncreaseMissionsCompleted(ctx, userID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot increase completed missions of user %s: %v", userID, err)
			return nil, errorx.Unknown
		}

		outcome.completedAt = m.CompletedAt.Time
	}

	return outcome, nil
}

// PublishCompleted sends the completion event of the outcome, if any. Failures
// are only logged.
func (e *Engine) PublishCompleted(ctx context.Context, outcome *Outcome) {
	if outcome == nil || !outcome.Completed {
		return
	}

	common.PromCounters[common.MissionCompletedTotal].WithLabelValues(outcome.MissionID).Inc()

	if e.publisher == nil {
		return
	}

	b, err := json.Marshal(CompletedEvent{
		UserID:      outcome.UserID,
		MissionID:   outcome.MissionID,
		CompletedAt: outcome.completedAt,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal mission completed event: %v", err)
		return
	}

	err = e.publisher.Publish(ctx, xcontext.Configs(ctx).Kafka.MissionTopic, &pubsub.Pack{
		Key: []byte(outcome.UserID),
		Msg: b,
	})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish mission completed event: %v", err)
	}
}
