package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/nextlevel/reward-engine/internal/common"
	"github.com/nextlevel/reward-engine/internal/domain/mission"
	"github.com/nextlevel/reward-engine/internal/entity"
	"github.com/nextlevel/reward-engine/internal/model"
	"github.com/nextlevel/reward-engine/internal/repository"
	"github.com/nextlevel/reward-engine/pkg/crypto"
	"github.com/nextlevel/reward-engine/pkg/errorx"
	"github.com/nextlevel/reward-engine/pkg/keylock"
	"github.com/nextlevel/reward-engine/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

var errAllPrizesTaken = errors.New("all prizes are taken")

type DrawDomain interface {
	Attempt(context.Context, *model.AttemptDrawRequest) (*model.AttemptDrawResponse, error)
	GetHistory(context.Context, *model.GetDrawHistoryRequest) (*model.GetDrawHistoryResponse, error)
	GetStock(context.Context, *model.GetPrizeStockRequest) (*model.GetPrizeStockResponse, error)
}

type drawDomain struct {
	userRepo        repository.UserRepository
	prizeRepo       repository.PrizeRepository
	drawAttemptRepo repository.DrawAttemptRepository
	missionEngine   *mission.Engine
	locker          keylock.Locker
	idGenerator     *snowflake.Node
}

func NewDrawDomain(
	userRepo repository.UserRepository,
	prizeRepo repository.PrizeRepository,
	drawAttemptRepo repository.DrawAttemptRepository,
	missionEngine *mission.Engine,
	locker keylock.Locker,
	idGenerator *snowflake.Node,
) *drawDomain {
	return &drawDomain{
		userRepo:        userRepo,
		prizeRepo:       prizeRepo,
		drawAttemptRepo: drawAttemptRepo,
		missionEngine:   missionEngine,
		locker:          locker,
		idGenerator:     idGenerator,
	}
}

// Attempt spends points for one random prize among those still in stock.
// Attempts of the same user are serialized, so the attempt cap holds under
// concurrent calls. A rejected attempt leaves no state behind.
func (d *drawDomain) Attempt(
	ctx context.Context, req *model.AttemptDrawRequest,
) (resp *model.AttemptDrawResponse, err error) {
	defer func() {
		common.PromCounters[common.DrawAttemptTotal].WithLabelValues(drawOutcome(err)).Inc()
	}()

	userID := xcontext.RequestUserID(ctx)
	cfg := xcontext.Configs(ctx).Draw

	unlock, err := d.locker.Lock(ctx, userID)
	if err != nil {
		if errors.Is(err, keylock.ErrTimeout) {
			return nil, errorx.New(errorx.Unavailable, "Another draw of yours is in progress, please retry")
		}

		xcontext.Logger(ctx).Errorf("Cannot acquire draw lock of user %s: %v", userID, err)
		return nil, errorx.Unknown
	}
	defer unlock()

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	attemptCount, err := d.drawAttemptRepo.CountByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count draw attempts: %v", err)
		return nil, errorx.Unknown
	}

	if attemptCount >= int64(cfg.MaxAttempts) {
		return nil, errorx.New(errorx.AttemptsExhausted, "You can draw at most %d times", cfg.MaxAttempts)
	}

	if user.TotalPoints < cfg.Cost {
		return nil, errorx.New(errorx.InsufficientFunds, "Not enough points, a draw costs %d points", cfg.Cost)
	}

	candidates, err := d.prizeRepo.GetInStock(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get prizes in stock: %v", err)
		return nil, errorx.Unknown
	}

	if len(candidates) == 0 {
		return nil, errorx.New(errorx.OutOfStock, "All prizes are out of stock")
	}

	outerCtx := ctx
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	prize, err := d.take(ctx, candidates)
	if err != nil {
		if errors.Is(err, errAllPrizesTaken) {
			return nil, errorx.New(errorx.OutOfStock, "All prizes are out of stock")
		}

		xcontext.Logger(ctx).Errorf("Cannot take prize: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.userRepo.DecreasePoint(ctx, userID, cfg.Cost); err != nil {
		if errors.Is(err, repository.ErrInsufficientPoints) {
			return nil, errorx.New(errorx.InsufficientFunds, "Not enough points, a draw costs %d points", cfg.Cost)
		}

		xcontext.Logger(ctx).Errorf("Cannot decrease points: %v", err)
		return nil, errorx.Unknown
	}

	attempt := &entity.DrawAttempt{
		SnowFlakeBase: entity.SnowFlakeBase{ID: d.idGenerator.Generate().Int64()},
		UserID:        userID,
		PrizeID:       prize.ID,
		PointsSpent:   cfg.Cost,
		AttemptNumber: int(attemptCount) + 1,
	}

	if err := d.drawAttemptRepo.Create(ctx, attempt); err != nil {
		xcontext.WithRollbackDBTransaction(ctx)
		return nil, d.attemptConflict(outerCtx, attempt, attemptCount, err)
	}

	outcome, err := d.missionEngine.ApplyTx(ctx, mission.DrawAttempted{
		UserID:       userID,
		AttemptCount: attempt.AttemptNumber,
	})
	if err != nil {
		return nil, err
	}

	user, err = d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit draw transaction: %v", err)
		return nil, errorx.Unknown
	}

	d.missionEngine.PublishCompleted(ctx, outcome)

	return &model.AttemptDrawResponse{
		AttemptNumber:   attempt.AttemptNumber,
		PrizeID:         prize.ID,
		PrizeName:       prize.Name,
		PrizeImageURL:   prize.ImageURL,
		PointsSpent:     attempt.PointsSpent,
		RemainingPoints: user.TotalPoints,
	}, nil
}

// take picks a random candidate and decreases its stock. A candidate which
// was emptied by a concurrent draw is dropped and another one is picked.
func (d *drawDomain) take(ctx context.Context, candidates []entity.Prize) (*entity.Prize, error) {
	candidates = slices.Clone(candidates)
	for len(candidates) > 0 {
		i := crypto.RandIntn(len(candidates))
		prize := candidates[i]

		err := d.prizeRepo.CheckAndDecreaseStock(ctx, prize.ID)
		if err == nil {
			return &prize, nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		candidates = slices.Delete(candidates, i, i+1)
	}

	return nil, errAllPrizesTaken
}

// attemptConflict is called after the attempt insert failed and the draw was
// rolled back. If the attempt number has been taken meanwhile, for example
// after the admission lock expired, the draw lost the race to another one of
// the same user.
func (d *drawDomain) attemptConflict(
	ctx context.Context, attempt *entity.DrawAttempt, admittedCount int64, cause error,
) error {
	count, err := d.drawAttemptRepo.CountByUserID(ctx, attempt.UserID)
	if err != nil || count <= admittedCount {
		xcontext.Logger(ctx).Errorf("Cannot create draw attempt %d of user %s: %v",
			attempt.AttemptNumber, attempt.UserID, cause)
		return errorx.Unknown
	}

	maxAttempts := xcontext.Configs(ctx).Draw.MaxAttempts
	if count >= int64(maxAttempts) {
		return errorx.New(errorx.AttemptsExhausted, "You can draw at most %d times", maxAttempts)
	}

	return errorx.New(errorx.Unavailable, "Another draw of yours is in progress, please retry")
}

func (d *drawDomain) GetHistory(
	ctx context.Context, req *model.GetDrawHistoryRequest,
) (*model.GetDrawHistoryResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if _, err := d.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	attempts, err := d.drawAttemptRepo.GetListByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get draw attempts: %v", err)
		return nil, errorx.Unknown
	}

	clientAttempts := []model.DrawAttempt{}
	for i := range attempts {
		clientAttempts = append(clientAttempts, model.ConvertDrawAttempt(&attempts[i]))
	}

	remaining := xcontext.Configs(ctx).Draw.MaxAttempts - len(attempts)
	if remaining < 0 {
		remaining = 0
	}

	return &model.GetDrawHistoryResponse{
		Attempts:         clientAttempts,
		RemainingChances: remaining,
	}, nil
}

func (d *drawDomain) GetStock(
	ctx context.Context, req *model.GetPrizeStockRequest,
) (*model.GetPrizeStockResponse, error) {
	prizes, err := d.prizeRepo.GetList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get prizes: %v", err)
		return nil, errorx.Unknown
	}

	clientPrizes := []model.Prize{}
	for i := range prizes {
		clientPrizes = append(clientPrizes, model.ConvertPrize(&prizes[i]))
	}

	return &model.GetPrizeStockResponse{Prizes: clientPrizes}, nil
}

func drawOutcome(err error) string {
	var errx errorx.Error
	if err == nil {
		return "success"
	}

	if !errors.As(err, &errx) {
		return "error"
	}

	switch errx.Code {
	case errorx.AttemptsExhausted:
		return "attempts_exhausted"
	case errorx.InsufficientFunds:
		return "insufficient_funds"
	case errorx.OutOfStock:
		return "out_of_stock"
	case errorx.Unavailable:
		return "unavailable"
	case errorx.NotFound:
		return "not_found"
	default:
		return "error"
	}
}
