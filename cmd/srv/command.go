package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "reward-engine"
	app.Usage = "Points, missions and prize draw of the exhibition"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   "config.toml",
			Usage:   "Path of the TOML config file",
			EnvVars: []string{"CONFIG_FILE"},
		},
	}
	app.Before = s.loadContext
	app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Serve the participant and internal notification apis, and the metrics endpoint.`,
		},
		{
			Action:      s.startSubscriber,
			Name:        "subscriber",
			Usage:       "Start service subscriber",
			Category:    "Worker",
			Description: `Consume the mission triggers published by the content services.`,
		},
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate database",
			Category:    "Tool",
			Description: `Create or update the tables.`,
		},
		{
			Action:      s.startSeed,
			Name:        "seed",
			Usage:       "Seed prizes and participants",
			Category:    "Tool",
			Description: `Insert the prizes and participants of the config file. Running it again refreshes prize names only.`,
		},
		{
			Action:      s.startVerify,
			Name:        "verify",
			Usage:       "Verify completed mission counters",
			Category:    "Tool",
			Description: `Recount the completed missions of every participant and report the ones differing from the stored counter.`,
		},
		{
			Action:   s.startToken,
			Name:     "token",
			Usage:    "Issue an access token",
			Category: "Tool",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "user", Required: true, Usage: "Id of the participant"},
				&cli.StringFlag{Name: "role", Value: "PARTICIPANT", Usage: "Role written in the token"},
			},
			Description: `Issue an access token signed with the configured secret, for local testing.`,
		},
	}

	s.app = app
}
