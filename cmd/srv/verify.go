package main

import (
	"fmt"

	"github.com/nextlevel/reward-engine/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

const verifyPageSize = 100

func (s *srv) startVerify(*cli.Context) error {
	defer s.stop()

	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.loadRepos()
	s.loadMissionEngine()

	mismatches := 0
	for offset := 0; ; offset += verifyPageSize {
		users, err := s.userRepo.GetList(s.ctx, offset, verifyPageSize)
		if err != nil {
			return err
		}

		for _, u := range users {
			stored, counted, err := s.missionEngine.CountCompleted(s.ctx, u.ID)
			if err != nil {
				return err
			}

			if stored != counted {
				mismatches++
				xcontext.Logger(s.ctx).Warnf("User %s stores %d completed missions but has %d",
					u.ID, stored, counted)
			}
		}

		if len(users) < verifyPageSize {
			break
		}
	}

	if mismatches > 0 {
		return fmt.Errorf("found %d users with inconsistent completed missions", mismatches)
	}

	xcontext.Logger(s.ctx).Infof("All completed mission counters are consistent")
	return nil
}
