package category

import (
	"github.com/saulo-duarte/mockprep/internal/request"
	"github.com/saulo-duarte/mockprep/internal/store"
	"github.com/saulo-duarte/mockprep/internal/transport"
)

type CategoryContainer struct {
	Service Service
	Handler *Handler
}

func NewCategoryContainer(client *transport.Client, st *store.Store, slots *request.Registry) *CategoryContainer {
	service := NewService(client, st, slots)
	handler := NewHandler(service, st, slots)

	return &CategoryContainer{
		Service: service,
		Handler: handler,
	}
}
