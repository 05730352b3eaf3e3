package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/snowflake"
	"github.com/nextlevel/reward-engine/config"
	"github.com/nextlevel/reward-engine/internal/common"
	"github.com/nextlevel/reward-engine/internal/domain"
	"github.com/nextlevel/reward-engine/internal/domain/mission"
	"github.com/nextlevel/reward-engine/internal/entity"
	"github.com/nextlevel/reward-engine/internal/model"
	"github.com/nextlevel/reward-engine/internal/repository"
	"github.com/nextlevel/reward-engine/pkg/authenticator"
	"github.com/nextlevel/reward-engine/pkg/kafka"
	"github.com/nextlevel/reward-engine/pkg/keylock"
	"github.com/nextlevel/reward-engine/pkg/logger"
	"github.com/nextlevel/reward-engine/pkg/pubsub"
	"github.com/nextlevel/reward-engine/pkg/router"
	"github.com/nextlevel/reward-engine/pkg/xcontext"
	"github.com/nextlevel/reward-engine/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app  *cli.App
	ctx  context.Context
	stop context.CancelFunc

	userRepo        repository.UserRepository
	userMissionRepo repository.UserMissionRepository
	prizeRepo       repository.PrizeRepository
	drawAttemptRepo repository.DrawAttemptRepository

	missionEngine *mission.Engine

	pointDomain       domain.PointDomain
	drawDomain        domain.DrawDomain
	missionDomain     domain.MissionDomain
	eventDomain       domain.EventDomain
	participantDomain domain.ParticipantDomain

	publisher   pubsub.Publisher
	redisClient xredis.Client
	locker      keylock.Locker
	idGenerator *snowflake.Node
	tokenEngine authenticator.TokenEngine[model.AccessToken]

	router *router.Router
}

// loadContext builds the root context of every command. It is canceled on
// SIGINT or SIGTERM.
func (s *srv) loadContext(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}

	s.ctx, s.stop = signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.ParseLevel(cfg.Log.Level)))
	return nil
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.New(mysql.Config{
			DSN:                       cfg.ConnectionString(),
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		})
	case "sqlite":
		dialector = sqlite.Open(cfg.File)
	default:
		panic(fmt.Sprintf("invalid database driver %s", cfg.Driver))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	if cfg.Driver == "sqlite" {
		// sqlite allows a single writer.
		sqlDB, err := db.DB()
		if err != nil {
			panic(err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db
}

func (s *srv) migrateDB() {
	if err := entity.MigrateTable(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.userMissionRepo = repository.NewUserMissionRepository()
	s.prizeRepo = repository.NewPrizeRepository()
	s.drawAttemptRepo = repository.NewDrawAttemptRepository()
}

// loadPublisher leaves the publisher unset when no broker is configured, then
// completion events are not published.
func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx).Kafka
	if cfg.Addr == "" {
		xcontext.Logger(s.ctx).Warnf("Kafka is not configured, mission events will not be published")
		return
	}

	publisher, err := kafka.NewPublisher(cfg.GroupID, []string{cfg.Addr})
	if err != nil {
		panic(err)
	}

	s.publisher = publisher
}

func (s *srv) loadLocker() {
	cfg := xcontext.Configs(s.ctx).Draw
	switch cfg.LockBackend {
	case "memory":
		s.locker = keylock.NewMemoryLocker(cfg.LockTimeout)
	case "redis":
		redisClient, err := xredis.NewClient(s.ctx)
		if err != nil {
			panic(err)
		}

		s.redisClient = redisClient
		s.locker = keylock.NewRedisLocker(redisClient, common.RedisKeyDrawLock, cfg.LockTimeout, cfg.LockTTL)
	default:
		panic(fmt.Sprintf("invalid lock backend %s", cfg.LockBackend))
	}
}

func (s *srv) loadIDGenerator() {
	node, err := snowflake.NewNode(xcontext.Configs(s.ctx).Draw.NodeID)
	if err != nil {
		panic(err)
	}

	s.idGenerator = node
}

func (s *srv) loadTokenEngine() {
	cfg := xcontext.Configs(s.ctx).Auth
	s.tokenEngine = authenticator.NewTokenEngine[model.AccessToken](cfg.TokenSecret, cfg.AccessToken)
}

func (s *srv) loadMissionEngine() {
	s.missionEngine = mission.NewEngine(
		s.userRepo,
		s.userMissionRepo,
		s.publisher,
		mission.DefaultHandlers()...,
	)
}

func (s *srv) loadDomains() {
	s.pointDomain = domain.NewPointDomain(s.userRepo)
	s.drawDomain = domain.NewDrawDomain(
		s.userRepo,
		s.prizeRepo,
		s.drawAttemptRepo,
		s.missionEngine,
		s.locker,
		s.idGenerator,
	)
	s.missionDomain = domain.NewMissionDomain(s.userRepo, s.userMissionRepo, s.missionEngine)
	s.eventDomain = domain.NewEventDomain(s.pointDomain, s.missionEngine)
	s.participantDomain = domain.NewParticipantDomain(s.userRepo, s.userMissionRepo)
}

func (s *srv) closePublisher() {
	stopper, ok := s.publisher.(interface{ Stop(context.Context) error })
	if !ok {
		return
	}

	if err := stopper.Stop(s.ctx); err != nil {
		xcontext.Logger(s.ctx).Errorf("Cannot stop publisher: %v", err)
	}
}
