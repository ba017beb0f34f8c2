package doubt

import (
	"github.com/saulo-duarte/mockprep/internal/auth"
	"github.com/saulo-duarte/mockprep/internal/request"
	"github.com/saulo-duarte/mockprep/internal/store"
	"github.com/saulo-duarte/mockprep/internal/transport"
)

type DoubtContainer struct {
	Service Service
	Handler *Handler
}

func NewDoubtContainer(client *transport.Client, st *store.Store, slots *request.Registry, session *auth.Holder) *DoubtContainer {
	service := NewService(client, st, slots, session)

	return &DoubtContainer{
		Service: service,
		Handler: NewHandler(service, st, slots),
	}
}
