package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nextlevel/reward-engine/internal/middleware"
	"github.com/nextlevel/reward-engine/pkg/prometheus"
	"github.com/nextlevel/reward-engine/pkg/router"
	"github.com/nextlevel/reward-engine/pkg/xcontext"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func (s *srv) startApi(*cli.Context) error {
	defer s.stop()

	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRepos()
	s.loadPublisher()
	defer s.closePublisher()
	s.loadLocker()
	s.loadIDGenerator()
	s.loadTokenEngine()
	s.loadMissionEngine()
	s.loadDomains()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx)
	apiServer := &http.Server{
		Addr:    cfg.ApiServer.Address(),
		Handler: s.router.Handler(cfg.ApiServer),
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", prometheus.NewHandler())
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Prometheus.Port),
		Handler: metricsMux,
	}

	g, ctx := errgroup.WithContext(s.ctx)
	for _, server := range []*http.Server{apiServer, metricsServer} {
		server := server
		g.Go(func() error {
			xcontext.Logger(s.ctx).Infof("Starting server on %s", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	err := g.Wait()
	xcontext.Logger(s.ctx).Infof("Server stopped")
	return err
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.Before(middleware.WithStartTime())
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())

	// These following APIs are called by participants with their access
	// token.
	authRouter := s.router.Branch()
	authRouter.Before(middleware.NewAuthVerifier(s.tokenEngine).Middleware())
	{
		// User API
		router.GET(authRouter, "/getMe", s.participantDomain.GetMe)

		// Point API
		router.GET(authRouter, "/getMyPoints", s.pointDomain.GetMyPoints)
		router.POST(authRouter, "/deductPoints", s.pointDomain.Deduct)

		// Mission API
		router.GET(authRouter, "/getMissions", s.missionDomain.GetMissions)
		router.POST(authRouter, "/claimMission", s.missionDomain.Claim)

		// Draw API
		router.POST(authRouter, "/attemptDraw", s.drawDomain.Attempt)
		router.GET(authRouter, "/getDrawHistory", s.drawDomain.GetHistory)
	}

	// These following APIs are only called by the content services.
	internalRouter := s.router.Branch()
	internalRouter.Before(middleware.VerifyInternalKey())
	{
		router.POST(internalRouter, "/initParticipant", s.participantDomain.Init)
		router.POST(internalRouter, "/notifyVisit", s.eventDomain.NotifyVisit)
		router.POST(internalRouter, "/notifyComment", s.eventDomain.NotifyComment)
		router.POST(internalRouter, "/notifyActivityZone", s.eventDomain.NotifyActivityZone)
		router.POST(internalRouter, "/notifyReview", s.eventDomain.NotifyReview)
	}

	// Public API.
	router.GET(s.router, "/getPrizeStock", s.drawDomain.GetStock)
}
