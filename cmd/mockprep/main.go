package main

import (
	"os"

	"github.com/saulo-duarte/mockprep/internal/config"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "mockprep",
		Usage: "headless client for the mock test platform",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config-dir",
				Usage: "directory holding mockprep.yaml",
				Value: ".",
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "session token (overrides MOCKPREP_SESSION_TOKEN)",
				EnvVars: []string{"MOCKPREP_TOKEN"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			testsCommand(),
			leaderboardCommand(),
			doubtsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		config.Logger().WithError(err).Fatal("mockprep failed")
	}
}
