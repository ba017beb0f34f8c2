package mocktest

import (
	"github.com/saulo-duarte/mockprep/internal/request"
	"github.com/saulo-duarte/mockprep/internal/store"
	"github.com/saulo-duarte/mockprep/internal/transport"
)

type MockTestContainer struct {
	Service Service
	Handler *Handler
}

func NewMockTestContainer(client *transport.Client, st *store.Store, slots *request.Registry) *MockTestContainer {
	service := NewService(client, st, slots)
	handler := NewHandler(service, st, slots)

	return &MockTestContainer{
		Service: service,
		Handler: handler,
	}
}
