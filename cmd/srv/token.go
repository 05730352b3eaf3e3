package main

import (
	"fmt"

	"github.com/nextlevel/reward-engine/internal/model"
	"github.com/urfave/cli/v2"
)

func (s *srv) startToken(cctx *cli.Context) error {
	defer s.stop()

	s.loadTokenEngine()
	token, err := s.tokenEngine.Generate(cctx.String("user"), model.AccessToken{
		ID:   cctx.String("user"),
		Role: cctx.String("role"),
	})
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
