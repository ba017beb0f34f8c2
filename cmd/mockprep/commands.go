package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saulo-duarte/mockprep/internal/config"
	"github.com/saulo-duarte/mockprep/internal/container"
	"github.com/saulo-duarte/mockprep/internal/model"
	"github.com/saulo-duarte/mockprep/internal/mocktest"
	"github.com/saulo-duarte/mockprep/internal/router"
	"github.com/saulo-duarte/mockprep/internal/views"
	"github.com/urfave/cli/v2"
)

func build(c *cli.Context) (*container.Container, error) {
	cfg, err := config.Load(c.String("config-dir"))
	if err != nil {
		return nil, err
	}
	if tok := c.String("token"); tok != "" {
		cfg.SessionToken = tok
	}
	config.InitLogger(cfg.Mode)
	return container.New(cfg)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the local view server for one session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address (overrides LISTEN_ADDR)"},
		},
		Action: func(c *cli.Context) error {
			app, err := build(c)
			if err != nil {
				return err
			}
			defer app.Close()
			log := config.Logger()

			if err := app.Start(c.Context); err != nil {
				log.WithError(err).Warn("Session started with errors")
			}

			addr := app.Config.ListenAddr
			if a := c.String("addr"); a != "" {
				addr = a
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           router.New(app),
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				log.WithField("addr", addr).Info("View server listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.WithError(err).Fatal("View server failed")
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit
			log.Info("Shutting down view server...")

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("view server forced to shutdown: %w", err)
			}
			return nil
		},
	}
}

func testsCommand() *cli.Command {
	return &cli.Command{
		Name:  "tests",
		Usage: "list published mock tests",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "filter", Value: string(views.KindAll), Usage: "all, free, paid, grand, grand_upcoming, regular or upcoming"},
			&cli.StringFlag{Name: "category", Usage: "category id"},
			&cli.StringFlag{Name: "q", Usage: "search text"},
			&cli.BoolFlag{Name: "newest", Usage: "sort by creation date, newest first"},
		},
		Action: func(c *cli.Context) error {
			kind := views.TestKind(c.String("filter"))
			if !kind.IsValid() {
				return fmt.Errorf("unknown filter %q", kind)
			}

			app, err := build(c)
			if err != nil {
				return err
			}
			defer app.Close()

			tests, err := app.MockTestContainer.Service.ListPublic(c.Context, mocktest.ListQuery{
				Query:    c.String("q"),
				Category: c.String("category"),
			})
			if err != nil {
				return err
			}
			return printJSON(views.Catalog(views.FilterTests(tests, views.TestFilter{
				Kind:        kind,
				CategoryID:  c.String("category"),
				Query:       c.String("q"),
				NewestFirst: c.Bool("newest"),
			}, time.Now())))
		},
	}
}

func leaderboardCommand() *cli.Command {
	return &cli.Command{
		Name:      "leaderboard",
		Usage:     "show a Grand Test leaderboard",
		ArgsUsage: "<mock-test-id>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "top", Value: 10},
		},
		Action: func(c *cli.Context) error {
			id := c.Args().First()
			if id == "" {
				return cli.Exit("mock test id required", 2)
			}

			app, err := build(c)
			if err != nil {
				return err
			}
			defer app.Close()

			entries, err := app.LeaderboardContainer.Service.Fetch(c.Context, id)
			if err != nil {
				return err
			}
			return printJSON(views.TopN(views.RankTiers(entries), c.Int("top")))
		},
	}
}

func doubtsCommand() *cli.Command {
	return &cli.Command{
		Name:  "doubts",
		Usage: "list doubts visible to the signed-in role",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "status", Usage: "pending, assigned or answered"},
			&cli.StringFlag{Name: "subject"},
		},
		Action: func(c *cli.Context) error {
			app, err := build(c)
			if err != nil {
				return err
			}
			defer app.Close()

			s, err := app.Session.Require()
			if err != nil {
				return err
			}

			status := model.DoubtStatus(c.String("status"))
			svc := app.DoubtContainer.Service

			var list []model.Doubt
			switch s.Role {
			case model.RoleAdmin:
				list, err = svc.List(c.Context, status, c.String("subject"))
			case model.RoleInstructor:
				list, err = svc.ListAssigned(c.Context)
			default:
				list, err = svc.ListMine(c.Context)
			}
			if err != nil {
				return err
			}
			return printJSON(views.FilterDoubts(list, status, c.String("subject")))
		},
	}
}
