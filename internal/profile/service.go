package profile

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/saulo-duarte/mockprep/internal/auth"
	"github.com/saulo-duarte/mockprep/internal/config"
	"github.com/saulo-duarte/mockprep/internal/model"
	"github.com/saulo-duarte/mockprep/internal/request"
	"github.com/saulo-duarte/mockprep/internal/store"
	"github.com/saulo-duarte/mockprep/internal/transport"
	util "github.com/saulo-duarte/mockprep/internal/utils"
)

const profilePath = "/api/student/profile"

type Service interface {
	Get(ctx context.Context) (model.Profile, error)
	Update(ctx context.Context, in ProfileInput) (model.Profile, error)
}

type profileService struct {
	client  *transport.Client
	store   *store.Store
	slots   *request.Registry
	session *auth.Holder
}

func NewService(client *transport.Client, st *store.Store, slots *request.Registry, session *auth.Holder) Service {
	return &profileService{client: client, store: st, slots: slots, session: session}
}

func (s *profileService) Get(ctx context.Context) (model.Profile, error) {
	if _, err := s.session.Require(); err != nil {
		return model.Profile{}, err
	}

	p, err := request.Run(ctx, s.slots.Slot(SlotGet),
		func(ctx context.Context) (model.Profile, error) {
			var raw json.RawMessage
			if err := s.client.GetJSON(ctx, profilePath, nil, &raw); err != nil {
				return model.Profile{}, err
			}
			return decodeProfile(raw)
		},
		s.store.SetProfile,
		nil,
	)
	if err != nil {
		config.WithContext(ctx).WithError(err).Warn("Failed to load profile")
		return model.Profile{}, err
	}
	return p, nil
}

func (s *profileService) Update(ctx context.Context, in ProfileInput) (model.Profile, error) {
	log := config.WithContext(ctx)

	if _, err := s.session.Require(); err != nil {
		return model.Profile{}, err
	}
	if in.empty() {
		return model.Profile{}, fmt.Errorf("%w: nothing to update", util.ErrInvalidInput)
	}
	if err := util.Validate(in); err != nil {
		return model.Profile{}, err
	}

	p, err := request.Run(ctx, s.slots.Slot(SlotUpdate),
		func(ctx context.Context) (model.Profile, error) {
			var raw json.RawMessage
			if err := s.client.PutMultipart(ctx, profilePath, in.form(), &raw); err != nil {
				return model.Profile{}, err
			}
			return decodeProfile(raw)
		},
		s.store.SetProfile,
		nil,
	)
	if err != nil {
		log.WithError(err).Error("Failed to update profile")
		return model.Profile{}, err
	}

	log.Info("Profile updated")
	return p, nil
}

// decodeProfile accepts {profile}, {user} or the bare document.
func decodeProfile(raw json.RawMessage) (model.Profile, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if _, ok := envelope["profile"]; !ok {
			if _, ok := envelope["user"]; ok {
				return transport.DecodeOne[model.Profile](raw, "user")
			}
		}
	}
	return transport.DecodeOne[model.Profile](raw, "profile")
}
