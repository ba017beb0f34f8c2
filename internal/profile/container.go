package profile

import (
	"github.com/saulo-duarte/mockprep/internal/auth"
	"github.com/saulo-duarte/mockprep/internal/request"
	"github.com/saulo-duarte/mockprep/internal/store"
	"github.com/saulo-duarte/mockprep/internal/transport"
)

type ProfileContainer struct {
	Service Service
	Handler *Handler
}

func NewProfileContainer(client *transport.Client, st *store.Store, slots *request.Registry, session *auth.Holder) *ProfileContainer {
	service := NewService(client, st, slots, session)

	return &ProfileContainer{
		Service: service,
		Handler: NewHandler(service, st),
	}
}
