package container

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/saulo-duarte/mockprep/internal/attempt"
	"github.com/saulo-duarte/mockprep/internal/auth"
	"github.com/saulo-duarte/mockprep/internal/bridge"
	"github.com/saulo-duarte/mockprep/internal/cart"
	"github.com/saulo-duarte/mockprep/internal/category"
	"github.com/saulo-duarte/mockprep/internal/config"
	"github.com/saulo-duarte/mockprep/internal/doubt"
	"github.com/saulo-duarte/mockprep/internal/leaderboard"
	"github.com/saulo-duarte/mockprep/internal/mocktest"
	"github.com/saulo-duarte/mockprep/internal/model"
	"github.com/saulo-duarte/mockprep/internal/profile"
	"github.com/saulo-duarte/mockprep/internal/request"
	"github.com/saulo-duarte/mockprep/internal/store"
	"github.com/saulo-duarte/mockprep/internal/thumbnail"
	"github.com/saulo-duarte/mockprep/internal/transport"
	"golang.org/x/sync/errgroup"
)

// Container is one user session: every collaborator is built here and
// passed down explicitly.
type Container struct {
	Config   *config.Config
	Parser   *auth.Parser
	Session  *auth.Holder
	Store    *store.Store
	Requests *request.Registry
	Client   *transport.Client
	Bridge   *bridge.Bridge

	CategoryContainer    *category.CategoryContainer
	MockTestContainer    *mocktest.MockTestContainer
	AttemptContainer     *attempt.AttemptContainer
	LeaderboardContainer *leaderboard.LeaderboardContainer
	ProfileContainer     *profile.ProfileContainer
	DoubtContainer       *doubt.DoubtContainer
	CartContainer        *cart.CartContainer
	ThumbnailContainer   *thumbnail.ThumbnailContainer

	AuthHandler *auth.Handler
}

// Options lets callers swap the realtime dialer, mainly for tests.
type Options struct {
	Dialer transport.Dialer
}

func New(cfg *config.Config, opts ...Options) (*Container, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	parser := auth.NewParser(cfg.JWTSecret)
	session := auth.NewHolder(nil)
	if cfg.SessionToken != "" {
		s, err := parser.Parse(cfg.SessionToken)
		if err != nil {
			return nil, fmt.Errorf("session token: %w", err)
		}
		session.Set(s)
	}

	st := store.New()
	slots := request.NewRegistry(request.ParsePolicy(cfg.StalePolicy))
	client := transport.NewClient(transport.Options{
		BaseURL: cfg.APIBaseURL,
		Tokens:  session,
		Timeout: cfg.RequestTimeout,
	})

	dialer := o.Dialer
	if dialer == nil {
		dialer = &transport.WSDialer{URL: cfg.WSURL}
	}

	c := &Container{
		Config:   cfg,
		Parser:   parser,
		Session:  session,
		Store:    st,
		Requests: slots,
		Client:   client,
		Bridge:   bridge.New(dialer, st),

		CategoryContainer:    category.NewCategoryContainer(client, st, slots),
		MockTestContainer:    mocktest.NewMockTestContainer(client, st, slots),
		AttemptContainer:     attempt.NewAttemptContainer(client, st, slots, session),
		LeaderboardContainer: leaderboard.NewLeaderboardContainer(client, st, slots),
		ProfileContainer:     profile.NewProfileContainer(client, st, slots, session),
		DoubtContainer:       doubt.NewDoubtContainer(client, st, slots, session),
		CartContainer:        cart.NewCartContainer(st),
		ThumbnailContainer:   thumbnail.NewThumbnailContainer(client, cfg.ThumbnailSize),
	}
	c.AuthHandler = auth.NewHandler(session, c.teardown)
	c.bindEvents()

	return c, nil
}

func (c *Container) bindEvents() {
	doubts := c.DoubtContainer.Service

	c.Bridge.On(bridge.EventDoubtAnswered, func(ctx context.Context) error {
		_, err := doubts.ListMine(ctx)
		return err
	})
	c.Bridge.On(bridge.EventDoubtAssigned, func(ctx context.Context) error {
		_, err := doubts.ListAssigned(ctx)
		return err
	})
	c.Bridge.On(bridge.EventNewDoubtReceived, func(ctx context.Context) error {
		_, err := doubts.List(ctx, "", "")
		return err
	})
}

// Bootstrap loads everything the signed-in role's landing pages need.
// Fetches run concurrently; a failure is recorded in its request slot and
// does not stop the others.
func (c *Container) Bootstrap(ctx context.Context) error {
	log := config.WithContext(ctx)

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	run := func(name string, fn func(context.Context) error) {
		g.Go(func() error {
			err := fn(ctx)
			if request.IsSuperseded(err) {
				log.WithField("operation", name).Debug("Bootstrap fetch superseded")
				return nil
			}
			if err != nil {
				log.WithError(err).WithField("operation", name).Warn("Bootstrap fetch failed")
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
			}
			return nil
		})
	}

	run(category.SlotList, func(ctx context.Context) error {
		_, err := c.CategoryContainer.Service.List(ctx)
		return err
	})
	run(mocktest.SlotList, func(ctx context.Context) error {
		_, err := c.MockTestContainer.Service.ListPublic(ctx, mocktest.ListQuery{})
		return err
	})

	if s := c.Session.Current(); s != nil {
		switch s.Role {
		case model.RoleAdmin:
			run(doubt.SlotAdminList, func(ctx context.Context) error {
				_, err := c.DoubtContainer.Service.List(ctx, "", "")
				return err
			})
		case model.RoleInstructor:
			run(doubt.SlotInstructorList, func(ctx context.Context) error {
				_, err := c.DoubtContainer.Service.ListAssigned(ctx)
				return err
			})
		default:
			run(profile.SlotGet, func(ctx context.Context) error {
				_, err := c.ProfileContainer.Service.Get(ctx)
				return err
			})
			run(attempt.SlotMine, func(ctx context.Context) error {
				_, err := c.AttemptContainer.Service.Mine(ctx)
				return err
			})
			run(doubt.SlotMine, func(ctx context.Context) error {
				_, err := c.DoubtContainer.Service.ListMine(ctx)
				return err
			})
		}
	}

	_ = g.Wait()
	return errors.Join(errs...)
}

// Start bootstraps the session and opens the realtime bridge for the
// signed-in user. Signed-out sessions only load public data.
func (c *Container) Start(ctx context.Context) error {
	err := c.Bootstrap(ctx)

	if s := c.Session.Current(); s != nil {
		if openErr := c.Bridge.Open(ctx, s.UserID); openErr != nil {
			err = errors.Join(err, fmt.Errorf("realtime: %w", openErr))
		}
	}
	return err
}

// Login replaces the session with the given token and starts it.
func (c *Container) Login(ctx context.Context, token string) (*auth.Session, error) {
	s, err := c.Parser.Parse(token)
	if err != nil {
		return nil, err
	}

	c.teardown(ctx)
	c.Session.Set(s)
	config.WithContext(ctx).WithField("role", s.Role).Info("Session started")

	if err := c.Start(ctx); err != nil {
		config.WithContext(ctx).WithError(err).Warn("Session started with errors")
	}
	return s, nil
}

// Logout clears the session and everything cached for it.
func (c *Container) Logout(ctx context.Context) {
	c.Session.Clear()
	c.teardown(ctx)
}

func (c *Container) teardown(ctx context.Context) {
	if err := c.Bridge.Close(); err != nil {
		config.WithContext(ctx).WithError(err).Debug("Closing realtime bridge")
	}
	c.Requests.Reset()
	c.Store.Reset()
	c.CartContainer.Service.Clear()
	c.ThumbnailContainer.Service.Purge()
}

func (c *Container) Close() error {
	return c.Bridge.Close()
}
