package attempt

import (
	"github.com/saulo-duarte/mockprep/internal/auth"
	"github.com/saulo-duarte/mockprep/internal/request"
	"github.com/saulo-duarte/mockprep/internal/store"
	"github.com/saulo-duarte/mockprep/internal/transport"
)

type AttemptContainer struct {
	Service Service
	Handler *Handler
}

func NewAttemptContainer(client *transport.Client, st *store.Store, slots *request.Registry, session *auth.Holder) *AttemptContainer {
	service := NewService(client, st, slots, session)
	handler := NewHandler(service, st, slots)

	return &AttemptContainer{
		Service: service,
		Handler: handler,
	}
}
