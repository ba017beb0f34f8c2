package leaderboard_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/mockprep/internal/leaderboard"
	"github.com/saulo-duarte/mockprep/internal/request"
	"github.com/saulo-duarte/mockprep/internal/store"
	"github.com/saulo-duarte/mockprep/internal/transport"
	"github.com/saulo-duarte/mockprep/internal/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardPerTest(t *testing.T) {
	var hits atomic.Int32

	r := chi.NewRouter()
	r.Get("/api/student/grandtest-leaderboard/{id}", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if chi.URLParam(r, "id") == "broken" {
			http.Error(w, `{"message":"leaderboard not published"}`, http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"leaderboard":[
			{"rank":1,"name":"Asha","score":90,"totalMarks":100},
			{"rank":2,"name":"Ben","score":80,"totalMarks":100},
			{"rank":3,"name":"Chi","score":70,"totalMarks":100},
			{"rank":4,"name":"Dev","score":10,"totalMarks":0}
		]}`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	st := store.New()
	slots := request.NewRegistry(request.LastResolvedWins)
	svc := leaderboard.NewService(transport.NewClient(transport.Options{BaseURL: srv.URL}), st, slots)
	ctx := context.Background()

	entries, err := svc.Fetch(ctx, "g1")
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	_, err = svc.Fetch(ctx, "broken")
	require.Error(t, err)
	broken, ok := svc.Cached("broken")
	assert.True(t, ok)
	assert.Empty(t, broken)

	cached, ok := svc.Cached("g1")
	require.True(t, ok)
	assert.Len(t, cached, 4)
	assert.Equal(t, request.StatusFailed, slots.State(leaderboard.SlotName("broken")).Status)
	assert.Equal(t, request.StatusSucceeded, slots.State(leaderboard.SlotName("g1")).Status)

	h := leaderboard.NewHandler(svc, slots)
	req := httptest.NewRequest(http.MethodGet, "/g1?top=3", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "g1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()
	h.GetLeaderboard(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Leaderboard []struct {
			Name       string     `json:"name"`
			Tier       views.Tier `json:"tier"`
			Percentage float64    `json:"percentage"`
		} `json:"leaderboard"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Leaderboard, 3)
	assert.Equal(t, views.TierGold, body.Leaderboard[0].Tier)
	assert.Equal(t, views.TierBronze, body.Leaderboard[2].Tier)
	assert.Equal(t, 90.0, body.Leaderboard[0].Percentage)
	assert.Equal(t, int32(2), hits.Load())
}
