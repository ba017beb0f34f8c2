package mocktest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/mockprep/internal/mocktest"
	"github.com/saulo-duarte/mockprep/internal/model"
	"github.com/saulo-duarte/mockprep/internal/request"
	"github.com/saulo-duarte/mockprep/internal/store"
	"github.com/saulo-duarte/mockprep/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogue = `[
	{"_id":"m1","title":"Physics Mock","isFree":true,"isPublished":true,"category":{"_id":"c1","name":"Physics"},"createdAt":"2026-01-01T00:00:00Z"},
	{"_id":"m2","title":"Grand Test 1","price":499,"isGrandTest":true,"isPublished":true,"category":"c2","scheduledFor":"2099-01-01T10:00:00Z","createdAt":"2026-02-01T00:00:00Z"}
]`

type backend struct {
	wrapped atomic.Bool
	fail    atomic.Bool
	echo    atomic.Bool
	query   atomic.Value
}

func (b *backend) router() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/public/mocktests", func(w http.ResponseWriter, r *http.Request) {
		b.query.Store(r.URL.RawQuery)
		if b.fail.Load() {
			http.Error(w, `{"message":"boom"}`, http.StatusBadGateway)
			return
		}
		if b.wrapped.Load() {
			_, _ = w.Write([]byte(`{"mocktests":` + catalogue + `}`))
			return
		}
		_, _ = w.Write([]byte(catalogue))
	})
	r.Get("/api/public/mocktests/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "gone" {
			http.Error(w, `{"message":"mock test not found"}`, http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"_id":"` + chi.URLParam(r, "id") + `","title":"Fetched"}`))
	})
	r.Put("/api/admin/mocktests/{id}/publish", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]bool
		_ = json.NewDecoder(r.Body).Decode(&body)
		if b.echo.Load() {
			_ = json.NewEncoder(w).Encode(map[string]any{"mocktest": map[string]any{
				"_id": chi.URLParam(r, "id"), "title": "Echoed", "isPublished": body["isPublished"],
			}})
			return
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	r.Delete("/api/admin/mocktests/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

func setup(t *testing.T) (*backend, mocktest.Service, *store.Store, *request.Registry) {
	t.Helper()
	b := &backend{}
	srv := httptest.NewServer(b.router())
	t.Cleanup(srv.Close)

	st := store.New()
	slots := request.NewRegistry(request.LastResolvedWins)
	svc := mocktest.NewService(transport.NewClient(transport.Options{BaseURL: srv.URL}), st, slots)
	return b, svc, st, slots
}

func TestListPublicNormalizesShapes(t *testing.T) {
	b, svc, st, _ := setup(t)
	ctx := context.Background()

	for _, wrapped := range []bool{false, true} {
		b.wrapped.Store(wrapped)
		tests, err := svc.ListPublic(ctx, mocktest.ListQuery{Query: "grand", Category: "c2"})
		require.NoError(t, err)
		require.Len(t, tests, 2)
		assert.Equal(t, "c2", tests[1].Category.ID)
		assert.Len(t, st.MockTests(), 2)
	}
	assert.Equal(t, "category=c2&q=grand", b.query.Load())
}

func TestListPublicFailureResets(t *testing.T) {
	b, svc, st, slots := setup(t)
	ctx := context.Background()

	_, err := svc.ListPublic(ctx, mocktest.ListQuery{})
	require.NoError(t, err)

	b.fail.Store(true)
	_, err = svc.ListPublic(ctx, mocktest.ListQuery{})
	require.Error(t, err)
	assert.Empty(t, st.MockTests())
	assert.Equal(t, request.StatusFailed, slots.State(mocktest.SlotList).Status)
}

func TestPublishAndDelete(t *testing.T) {
	b, svc, st, _ := setup(t)
	ctx := context.Background()

	_, err := svc.ListPublic(ctx, mocktest.ListQuery{})
	require.NoError(t, err)

	got, err := svc.SetPublished(ctx, "m1", false)
	require.NoError(t, err)
	assert.False(t, got.IsPublished)
	assert.Equal(t, "Physics Mock", got.Title)

	b.echo.Store(true)
	got, err = svc.SetPublished(ctx, "m1", true)
	require.NoError(t, err)
	assert.Equal(t, "Echoed", got.Title)
	cached, _ := st.MockTest("m1")
	assert.True(t, cached.IsPublished)

	require.NoError(t, svc.Delete(ctx, "m2"))
	_, ok := st.MockTest("m2")
	assert.False(t, ok)

	fetched, err := svc.Get(ctx, "m9")
	require.NoError(t, err)
	assert.Equal(t, "Fetched", fetched.Title)
	_, ok = st.MockTest("m9")
	assert.True(t, ok)
}

func TestGetDropsTestsRemovedUpstream(t *testing.T) {
	_, svc, st, _ := setup(t)
	st.UpsertMockTest(model.MockTest{ID: "gone", Title: "Withdrawn"})

	_, err := svc.Get(context.Background(), "gone")
	require.Error(t, err)
	assert.True(t, transport.IsNotFound(err))
	_, ok := st.MockTest("gone")
	assert.False(t, ok)
}

func TestFreeTestsCarryNoPrice(t *testing.T) {
	_, svc, st, slots := setup(t)
	original := 999.0
	st.ReplaceMockTests([]model.MockTest{
		{ID: "f", Title: "Free Mock", IsFree: true, Price: 199, OriginalPrice: &original},
		{ID: "p", Title: "Paid Mock", Price: 499, OriginalPrice: &original},
	})
	router := mocktest.Routes(mocktest.NewHandler(svc, st, slots))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		MockTests []map[string]any `json:"mocktests"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.MockTests, 2)

	byID := map[string]map[string]any{}
	for _, m := range list.MockTests {
		byID[m["_id"].(string)] = m
	}
	assert.NotContains(t, byID["f"], "price")
	assert.NotContains(t, byID["f"], "originalPrice")
	assert.Equal(t, false, byID["f"]["showPrice"])
	assert.Equal(t, 499.0, byID["p"]["price"])
	assert.Equal(t, 999.0, byID["p"]["originalPrice"])
	assert.Equal(t, true, byID["p"]["showPrice"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/f", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var one map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &one))
	assert.Equal(t, "f", one["_id"])
	assert.NotContains(t, one, "price")
}

func TestListHandlerFilters(t *testing.T) {
	_, svc, st, slots := setup(t)
	h := mocktest.NewHandler(svc, st, slots)

	cases := []struct {
		query string
		code  int
		ids   []string
	}{
		{"?refresh=true", http.StatusOK, []string{"m1", "m2"}},
		{"?filter=grand_upcoming", http.StatusOK, []string{"m2"}},
		{"?filter=free", http.StatusOK, []string{"m1"}},
		{"?sort=newest", http.StatusOK, []string{"m2", "m1"}},
		{"?q=physics", http.StatusOK, []string{"m1"}},
		{"?filter=bogus", http.StatusBadRequest, nil},
	}

	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ListMockTests(rec, httptest.NewRequest(http.MethodGet, "/"+tc.query, nil))
			require.Equal(t, tc.code, rec.Code)
			if tc.code != http.StatusOK {
				return
			}

			var body struct {
				MockTests []struct {
					ID string `json:"_id"`
				} `json:"mocktests"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			ids := []string{}
			for _, m := range body.MockTests {
				ids = append(ids, m.ID)
			}
			assert.Equal(t, tc.ids, ids)
		})
	}
}
