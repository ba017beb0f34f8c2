package cart

import "github.com/saulo-duarte/mockprep/internal/store"

type CartContainer struct {
	Service Service
	Handler *Handler
}

func NewCartContainer(st *store.Store) *CartContainer {
	service := NewService(st)

	return &CartContainer{
		Service: service,
		Handler: NewHandler(service),
	}
}
