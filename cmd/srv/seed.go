package main

import (
	"github.com/nextlevel/reward-engine/config"
	"github.com/nextlevel/reward-engine/internal/entity"
	"github.com/nextlevel/reward-engine/internal/model"
	"github.com/nextlevel/reward-engine/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startSeed(*cli.Context) error {
	defer s.stop()

	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRepos()
	s.loadMissionEngine()
	s.loadDomains()

	seed := xcontext.Configs(s.ctx).Seed
	if len(seed.Prizes) == 0 && len(seed.Participants) == 0 {
		seed = config.DefaultSeed()
	}

	for _, p := range seed.Prizes {
		err := s.prizeRepo.Upsert(s.ctx, &entity.Prize{
			ID:             p.ID,
			Name:           p.Name,
			ImageURL:       p.ImageURL,
			UnitPrice:      p.UnitPrice,
			TotalStock:     p.Stock,
			RemainingStock: p.Stock,
		})
		if err != nil {
			return err
		}
	}

	created := 0
	for _, p := range seed.Participants {
		resp, err := s.participantDomain.Init(s.ctx, &model.InitParticipantRequest{
			UserID: p.ID,
			Name:   p.Name,
			Role:   p.Role,
		})
		if err != nil {
			return err
		}

		if resp.Created {
			created++
		}
	}

	xcontext.Logger(s.ctx).Infof("Seeded %d prizes and %d new participants", len(seed.Prizes), created)
	return nil
}
