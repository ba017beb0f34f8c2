package leaderboard

import (
	"github.com/saulo-duarte/mockprep/internal/request"
	"github.com/saulo-duarte/mockprep/internal/store"
	"github.com/saulo-duarte/mockprep/internal/transport"
)

type LeaderboardContainer struct {
	Service Service
	Handler *Handler
}

func NewLeaderboardContainer(client *transport.Client, st *store.Store, slots *request.Registry) *LeaderboardContainer {
	service := NewService(client, st, slots)

	return &LeaderboardContainer{
		Service: service,
		Handler: NewHandler(service, slots),
	}
}
