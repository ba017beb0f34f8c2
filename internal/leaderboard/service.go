package leaderboard

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

// SlotName is per test so boards for different tests load independently.
func SlotName(mockTestID string) string {
	return "leaderboard." + mockTestID
}

type Service interface {
	Fetch(ctx context.Context, mockTestID string) ([]model.LeaderboardEntry, error)
	Cached(mockTestID string) ([]model.LeaderboardEntry, bool)
}

type leaderboardService struct {
	client *transport.Client
	store  *store.Store
	slots  *request.Registry
}

func NewService(client *transport.Client, st *store.Store, slots *request.Registry) Service {
	return &leaderboardService{client: client, store: st, slots: slots}
}

// Fetch loads the Grand Test board. On failure the cached board for that
// test is emptied; other tests' boards are untouched.
func (s *leaderboardService) Fetch(ctx context.Context, mockTestID string) ([]model.LeaderboardEntry, error) {
	if mockTestID == "" {
		return nil, fmt.Errorf("%w: mock test id required", util.ErrInvalidInput)
	}

	entries, err := request.Run(ctx, s.slots.Slot(SlotName(mockTestID)),
		func(ctx context.Context) ([]model.LeaderboardEntry, error) {
			var raw json.RawMessage
			path := "/api/student/grandtest-leaderboard/" + url.PathEscape(mockTestID)
			if err := s.client.GetJSON(ctx, path, nil, &raw); err != nil {
				return nil, err
			}
			return transport.DecodeList[model.LeaderboardEntry](raw, "leaderboard")
		},
		func(entries []model.LeaderboardEntry) { s.store.PutLeaderboard(mockTestID, entries) },
		func(error) { s.store.PutLeaderboard(mockTestID, nil) },
	)
	if err != nil {
		config.WithContext(ctx).WithError(err).WithField("mocktest_id", mockTestID).Warn("Failed to load leaderboard")
		return nil, err
	}
	return entries, nil
}

func (s *leaderboardService) Cached(mockTestID string) ([]model.LeaderboardEntry, bool) {
	return s.store.Leaderboard(mockTestID)
}
