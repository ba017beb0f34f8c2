package attempt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/saulo-duarte/mockprep/internal/auth"
	"github.com/saulo-duarte/mockprep/internal/config"
	"github.com/saulo-duarte/mockprep/internal/model"
	"github.com/saulo-duarte/mockprep/internal/request"
	"github.com/saulo-duarte/mockprep/internal/store"
	"github.com/saulo-duarte/mockprep/internal/transport"
	util "github.com/saulo-duarte/mockprep/internal/utils"
)

var ErrNoAttemptID = errors.New("backend did not return an attempt id")

type Service interface {
	Start(ctx context.Context, mockTestID string) (string, error)
	Get(ctx context.Context, id string) (model.AttemptReview, error)
	Mine(ctx context.Context) ([]model.Attempt, error)
}

type attemptService struct {
	client  *transport.Client
	store   *store.Store
	slots   *request.Registry
	session *auth.Holder
}

func NewService(client *transport.Client, st *store.Store, slots *request.Registry, session *auth.Holder) Service {
	return &attemptService{client: client, store: st, slots: slots, session: session}
}

// Start opens an attempt. Signed-out callers are rejected before any
// request is made.
func (s *attemptService) Start(ctx context.Context, mockTestID string) (string, error) {
	log := config.WithContext(ctx)

	if _, err := s.session.Require(); err != nil {
		log.Warn("Start attempt without session")
		return "", err
	}
	in := startRequest{MockTestID: mockTestID}
	if err := util.Validate(in); err != nil {
		return "", err
	}

	resp, err := request.Run(ctx, s.slots.Slot(SlotStart),
		func(ctx context.Context) (startResponse, error) {
			var out startResponse
			if err := s.client.PostJSON(ctx, "/api/student/start-test", in, &out); err != nil {
				return out, err
			}
			if out.AttemptID == "" {
				return out, ErrNoAttemptID
			}
			return out, nil
		},
		nil,
		nil,
	)
	if err != nil {
		log.WithError(err).WithField("mocktest_id", mockTestID).Error("Failed to start attempt")
		return "", err
	}

	log.WithField("attempt_id", resp.AttemptID).Info("Attempt started")
	return resp.AttemptID, nil
}

func (s *attemptService) Get(ctx context.Context, id string) (model.AttemptReview, error) {
	if _, err := s.session.Require(); err != nil {
		return model.AttemptReview{}, err
	}
	if id == "" {
		return model.AttemptReview{}, fmt.Errorf("%w: attempt id required", util.ErrInvalidInput)
	}

	review, err := request.Run(ctx, s.slots.Slot(SlotGet),
		func(ctx context.Context) (model.AttemptReview, error) {
			var raw json.RawMessage
			if err := s.client.GetJSON(ctx, "/api/student/attempt/"+url.PathEscape(id), nil, &raw); err != nil {
				return model.AttemptReview{}, err
			}
			return decodeReview(raw)
		},
		s.store.PutReview,
		nil,
	)
	if err != nil {
		config.WithContext(ctx).WithError(err).WithField("attempt_id", id).Warn("Failed to load attempt")
		return model.AttemptReview{}, err
	}
	return review, nil
}

func (s *attemptService) Mine(ctx context.Context) ([]model.Attempt, error) {
	if _, err := s.session.Require(); err != nil {
		return nil, err
	}

	list, err := request.Run(ctx, s.slots.Slot(SlotMine),
		func(ctx context.Context) ([]model.Attempt, error) {
			var raw json.RawMessage
			if err := s.client.GetJSON(ctx, "/api/student/my-attempts", nil, &raw); err != nil {
				return nil, err
			}
			return transport.DecodeList[model.Attempt](raw, "attempts")
		},
		s.store.ReplaceAttempts,
		func(error) { s.store.ReplaceAttempts(nil) },
	)
	if err != nil {
		config.WithContext(ctx).WithError(err).Warn("Failed to list attempts")
		return nil, err
	}
	return list, nil
}

// decodeReview handles the bare attempt, {attempt} and {attempt, questions}
// shapes of the attempt endpoint.
func decodeReview(raw json.RawMessage) (model.AttemptReview, error) {
	review, err := transport.DecodeOne[model.AttemptReview](raw, "attempt")
	if err != nil {
		return review, err
	}
	if len(review.Questions) == 0 {
		var outer struct {
			Questions []model.Question `json:"questions"`
		}
		if json.Unmarshal(raw, &outer) == nil {
			review.Questions = outer.Questions
		}
	}
	if review.ID == "" {
		return review, fmt.Errorf("%w: attempt payload without id", util.ErrNotFound)
	}
	return review, nil
}
