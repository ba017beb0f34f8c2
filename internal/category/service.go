package category

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
	List(ctx context.Context) ([]model.Category, error)
	Create(ctx context.Context, in CategoryInput) (model.Category, error)
	Update(ctx context.Context, id string, in CategoryInput) (model.Category, error)
	Delete(ctx context.Context, id string) error
}

type categoryService struct {
	client *transport.Client
	store  *store.Store
	slots  *request.Registry
}

func NewService(client *transport.Client, st *store.Store, slots *request.Registry) Service {
	return &categoryService{client: client, store: st, slots: slots}
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	log := config.WithContext(ctx)

	list, err := request.Run(ctx, s.slots.Slot(SlotList),
		func(ctx context.Context) ([]model.Category, error) {
			var raw json.RawMessage
			if err := s.client.GetJSON(ctx, "/api/public/categories", nil, &raw); err != nil {
				return nil, err
			}
			return transport.DecodeList[model.Category](raw, "categories")
		},
		s.store.ReplaceCategories,
		func(error) { s.store.ReplaceCategories(nil) },
	)
	if err != nil {
		log.WithError(err).Warn("Failed to list categories")
		return nil, err
	}
	return list, nil
}

func (s *categoryService) Create(ctx context.Context, in CategoryInput) (model.Category, error) {
	if err := util.Validate(in); err != nil {
		return model.Category{}, err
	}
	return s.save(ctx, SlotCreate, "/api/public/categories", in, true)
}

func (s *categoryService) Update(ctx context.Context, id string, in CategoryInput) (model.Category, error) {
	if id == "" {
		return model.Category{}, fmt.Errorf("%w: category id required", util.ErrInvalidInput)
	}
	if err := util.Validate(in); err != nil {
		return model.Category{}, err
	}
	return s.save(ctx, SlotUpdate, "/api/public/categories/"+url.PathEscape(id), in, false)
}

func (s *categoryService) save(ctx context.Context, slot, path string, in CategoryInput, create bool) (model.Category, error) {
	log := config.WithContext(ctx)

	c, err := request.Run(ctx, s.slots.Slot(slot),
		func(ctx context.Context) (model.Category, error) {
			var raw json.RawMessage
			var err error
			if create {
				err = s.client.PostMultipart(ctx, path, in.form(), &raw)
			} else {
				err = s.client.PutMultipart(ctx, path, in.form(), &raw)
			}
			if err != nil {
				return model.Category{}, err
			}
			return transport.DecodeOne[model.Category](raw, "category")
		},
		s.store.UpsertCategory,
		nil,
	)
	if err != nil {
		log.WithError(err).WithField("path", path).Error("Failed to save category")
		return model.Category{}, err
	}

	log.WithField("category_id", c.ID).Info("Category saved")
	return c, nil
}

func (s *categoryService) Delete(ctx context.Context, id string) error {
	log := config.WithContext(ctx)

	if id == "" {
		return fmt.Errorf("%w: category id required", util.ErrInvalidInput)
	}

	_, err := request.Run(ctx, s.slots.Slot(SlotDelete),
		func(ctx context.Context) (string, error) {
			return id, s.client.Delete(ctx, "/api/public/categories/"+url.PathEscape(id), nil)
		},
		s.store.RemoveCategory,
		nil,
	)
	if err != nil {
		log.WithError(err).WithField("category_id", id).Error("Failed to delete category")
		return err
	}
	return nil
}
