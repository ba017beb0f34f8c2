package mocktest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/saulo-duarte/mockprep/internal/config"
	"github.com/saulo-duarte/mockprep/internal/model"
	"github.com/saulo-duarte/mockprep/internal/request"
	"github.com/saulo-duarte/mockprep/internal/store"
	"github.com/saulo-duarte/mockprep/internal/transport"
	util "github.com/saulo-duarte/mockprep/internal/utils"
)

type Service interface {
	ListPublic(ctx context.Context, q ListQuery) ([]model.MockTest, error)
	Get(ctx context.Context, id string) (model.MockTest, error)
	SetPublished(ctx context.Context, id string, published bool) (model.MockTest, error)
	Delete(ctx context.Context, id string) error
}

type mockTestService struct {
	client *transport.Client
	store  *store.Store
	slots  *request.Registry
}

func NewService(client *transport.Client, st *store.Store, slots *request.Registry) Service {
	return &mockTestService{client: client, store: st, slots: slots}
}

// ListPublic accepts both response shapes the backend has shipped: a bare
// array and {mocktests: [...]}.
func (s *mockTestService) ListPublic(ctx context.Context, q ListQuery) ([]model.MockTest, error) {
	log := config.WithContext(ctx)

	params := url.Values{}
	if q.Query != "" {
		params.Set("q", q.Query)
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}

	tests, err := request.Run(ctx, s.slots.Slot(SlotList),
		func(ctx context.Context) ([]model.MockTest, error) {
			var raw json.RawMessage
			if err := s.client.GetJSON(ctx, "/api/public/mocktests", params, &raw); err != nil {
				return nil, err
			}
			return transport.DecodeList[model.MockTest](raw, "mocktests")
		},
		s.store.ReplaceMockTests,
		func(error) { s.store.ReplaceMockTests(nil) },
	)
	if err != nil {
		log.WithError(err).Warn("Failed to list mock tests")
		return nil, err
	}

	log.WithField("count", len(tests)).Debug("Mock tests loaded")
	return tests, nil
}

func (s *mockTestService) Get(ctx context.Context, id string) (model.MockTest, error) {
	if id == "" {
		return model.MockTest{}, fmt.Errorf("%w: mock test id required", util.ErrInvalidInput)
	}

	t, err := request.Run(ctx, s.slots.Slot(SlotGet),
		func(ctx context.Context) (model.MockTest, error) {
			var raw json.RawMessage
			if err := s.client.GetJSON(ctx, "/api/public/mocktests/"+url.PathEscape(id), nil, &raw); err != nil {
				return model.MockTest{}, err
			}
			return transport.DecodeOne[model.MockTest](raw, "mocktest")
		},
		s.store.UpsertMockTest,
		func(err error) {
			if transport.IsNotFound(err) {
				s.store.RemoveMockTest(id)
			}
		},
	)
	if err != nil {
		config.WithContext(ctx).WithError(err).WithField("mocktest_id", id).Warn("Failed to fetch mock test")
		return model.MockTest{}, err
	}
	return t, nil
}

// SetPublished toggles visibility. When the backend echoes the test back the
// cached copy is replaced; otherwise only the flag is patched.
func (s *mockTestService) SetPublished(ctx context.Context, id string, published bool) (model.MockTest, error) {
	log := config.WithContext(ctx)

	if id == "" {
		return model.MockTest{}, fmt.Errorf("%w: mock test id required", util.ErrInvalidInput)
	}

	resp, err := request.Run(ctx, s.slots.Slot(SlotPublish),
		func(ctx context.Context) (publishResponse, error) {
			var out publishResponse
			path := "/api/admin/mocktests/" + url.PathEscape(id) + "/publish"
			err := s.client.PutJSON(ctx, path, publishRequest{IsPublished: published}, &out)
			return out, err
		},
		func(out publishResponse) {
			if out.MockTest != nil && out.MockTest.ID != "" {
				s.store.UpsertMockTest(*out.MockTest)
				return
			}
			s.store.PatchMockTest(id, func(t *model.MockTest) { t.IsPublished = published })
		},
		nil,
	)
	if err != nil {
		log.WithError(err).WithField("mocktest_id", id).Error("Failed to change publish state")
		return model.MockTest{}, err
	}

	if resp.MockTest != nil && resp.MockTest.ID != "" {
		return *resp.MockTest, nil
	}
	t, _ := s.store.MockTest(id)
	return t, nil
}

func (s *mockTestService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: mock test id required", util.ErrInvalidInput)
	}

	_, err := request.Run(ctx, s.slots.Slot(SlotDelete),
		func(ctx context.Context) (string, error) {
			return id, s.client.Delete(ctx, "/api/admin/mocktests/"+url.PathEscape(id), nil)
		},
		s.store.RemoveMockTest,
		nil,
	)
	if err != nil {
		config.WithContext(ctx).WithError(err).WithField("mocktest_id", id).Error("Failed to delete mock test")
		return err
	}
	return nil
}
