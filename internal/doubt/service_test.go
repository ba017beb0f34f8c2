package doubt_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/mockprep/internal/auth"
	"github.com/saulo-duarte/mockprep/internal/doubt"
	"github.com/saulo-duarte/mockprep/internal/model"
	"github.com/saulo-duarte/mockprep/internal/request"
	"github.com/saulo-duarte/mockprep/internal/store"
	"github.com/saulo-duarte/mockprep/internal/transport"
	util "github.com/saulo-duarte/mockprep/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	hits      atomic.Int32
	lastQuery atomic.Value
}

func (b *fakeBackend) router() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b.hits.Add(1)
			next.ServeHTTP(w, r)
		})
	})

	r.Post("/api/student/doubts", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"doubt": map[string]any{
			"_id": "d-new", "text": in["text"], "subject": in["subject"], "status": "pending", "student": "u1",
		}})
	})
	r.Get("/api/student/doubts", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"doubts":[{"_id":"d1","text":"Q1","subject":"Physics","status":"pending","student":"u1"}]}`))
	})
	r.Get("/api/admin/doubts", func(w http.ResponseWriter, r *http.Request) {
		b.lastQuery.Store(r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"doubts":[
			{"_id":"d1","text":"Q1","subject":"Physics","status":"pending","student":{"_id":"u1","name":"Asha"}},
			{"_id":"d2","text":"Q2","subject":"Maths","status":"assigned","student":"u2"}
		]}`))
	})
	r.Put("/api/admin/doubts/{id}/assign", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		status := in["status"]
		if status == "" {
			status = "assigned"
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"doubt": map[string]any{
			"_id": chi.URLParam(r, "id"), "text": "Q1", "subject": "Physics", "status": status,
			"student":            "u1",
			"assignedInstructor": map[string]string{"_id": in["instructorId"], "name": "Dr. Rao"},
		}})
	})
	r.Get("/api/instructor/doubts", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	r.Put("/api/instructor/doubts/{id}/answer", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(map[string]any{"doubt": map[string]any{
			"_id": chi.URLParam(r, "id"), "text": "Q1", "subject": "Physics", "status": "answered",
			"student": "u1", "answer": in["answer"],
		}})
	})
	return r
}

type harness struct {
	backend *fakeBackend
	svc     doubt.Service
	store   *store.Store
	slots   *request.Registry
	session *auth.Holder
}

func newHarness(t *testing.T, role model.Role) harness {
	t.Helper()
	b := &fakeBackend{}
	srv := httptest.NewServer(b.router())
	t.Cleanup(srv.Close)

	st := store.New()
	slots := request.NewRegistry(request.LastResolvedWins)
	session := auth.NewHolder(&auth.Session{UserID: "u-" + string(role), Role: role})
	svc := doubt.NewService(transport.NewClient(transport.Options{BaseURL: srv.URL}), st, slots, session)
	return harness{backend: b, svc: svc, store: st, slots: slots, session: session}
}

func (h harness) as(role model.Role) {
	h.session.Set(&auth.Session{UserID: "u-" + string(role), Role: role})
}

func TestStudentDoubts(t *testing.T) {
	h := newHarness(t, model.RoleStudent)
	ctx := context.Background()

	_, err := h.svc.Create(ctx, doubt.DoubtInput{Text: "  ", Subject: "Physics"})
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	_, err = h.svc.Create(ctx, doubt.DoubtInput{Text: "Why is g 9.8?"})
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	assert.Equal(t, int32(0), h.backend.hits.Load())

	list, err := h.svc.ListMine(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	d, err := h.svc.Create(ctx, doubt.DoubtInput{Text: "Why is g 9.8?", Subject: "Physics", MockTestID: "m1"})
	require.NoError(t, err)
	assert.Equal(t, model.DoubtPending, d.Status)
	assert.Len(t, h.store.Doubts(store.ScopeStudent), 2)
	assert.Equal(t, request.StatusSucceeded, h.slots.State(doubt.SlotCreate).Status)

	_, err = h.svc.List(ctx, "", "")
	assert.ErrorIs(t, err, auth.ErrForbidden)
}

func TestAssignAndAnswerSyncEveryCopy(t *testing.T) {
	h := newHarness(t, model.RoleAdmin)
	ctx := context.Background()

	h.store.ReplaceDoubts(store.ScopeStudent, []model.Doubt{{ID: "d1", Text: "Q1", Status: model.DoubtPending}})

	_, err := h.svc.List(ctx, model.DoubtPending, "Physics")
	require.NoError(t, err)
	assert.Equal(t, "status=pending&subject=Physics", h.backend.lastQuery.Load())

	d, err := h.svc.Assign(ctx, "d1", doubt.AssignInput{InstructorID: "i1"})
	require.NoError(t, err)
	assert.Equal(t, model.DoubtAssigned, d.Status)

	for _, scope := range []store.Scope{store.ScopeStudent, store.ScopeAdmin} {
		got := h.store.Doubts(scope)
		require.NotEmpty(t, got, scope)
		assert.Equal(t, model.DoubtAssigned, got[0].Status, scope)
		require.NotNil(t, got[0].AssignedInstructor, scope)
		assert.Equal(t, "i1", got[0].AssignedInstructor.ID, scope)
	}
	assert.Empty(t, h.store.Doubts(store.ScopeInstructor))

	h.as(model.RoleInstructor)
	_, err = h.svc.ListAssigned(ctx)
	require.NoError(t, err)
	h.store.ReplaceDoubts(store.ScopeInstructor, []model.Doubt{d})

	answered, err := h.svc.Answer(ctx, "d1", doubt.AnswerInput{Answer: "Because of Earth's mass."})
	require.NoError(t, err)
	require.NotNil(t, answered.AnsweredAt)

	for _, scope := range store.AllScopes {
		got, _ := findIn(h.store.Doubts(scope), "d1")
		assert.Equal(t, model.DoubtAnswered, got.Status, scope)
		assert.Equal(t, "Because of Earth's mass.", got.Answer, scope)
	}
}

func TestAnsweredDoubtIsTerminal(t *testing.T) {
	h := newHarness(t, model.RoleAdmin)
	ctx := context.Background()

	h.store.ReplaceDoubts(store.ScopeAdmin, []model.Doubt{
		{ID: "done", Status: model.DoubtAnswered},
		{ID: "busy", Status: model.DoubtAssigned},
	})

	_, err := h.svc.Assign(ctx, "done", doubt.AssignInput{InstructorID: "i1"})
	assert.ErrorIs(t, err, doubt.ErrDoubtClosed)
	assert.ErrorIs(t, err, util.ErrConflict)

	_, err = h.svc.Assign(ctx, "busy", doubt.AssignInput{Status: model.DoubtPending})
	assert.ErrorIs(t, err, doubt.ErrInvalidTransition)

	_, err = h.svc.Assign(ctx, "busy", doubt.AssignInput{})
	assert.ErrorIs(t, err, doubt.ErrEmptyAssignment)

	_, err = h.svc.Assign(ctx, "busy", doubt.AssignInput{Status: "closed"})
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	h.as(model.RoleInstructor)
	_, err = h.svc.Answer(ctx, "done", doubt.AnswerInput{Answer: "again"})
	assert.ErrorIs(t, err, doubt.ErrDoubtClosed)

	assert.Equal(t, int32(0), h.backend.hits.Load())
	assert.Equal(t, request.StatusIdle, h.slots.State(doubt.SlotAssign).Status)
}

func TestAdminHandlerFilters(t *testing.T) {
	h := newHarness(t, model.RoleAdmin)
	handler := doubt.NewHandler(h.svc, h.store, h.slots)

	rec := httptest.NewRecorder()
	handler.ListAll(rec, httptest.NewRequest(http.MethodGet, "/?refresh=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ListAll(rec, httptest.NewRequest(http.MethodGet, "/?subject=maths", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Doubts []model.Doubt `json:"doubts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Doubts, 1)
	assert.Equal(t, "d2", body.Doubts[0].ID)

	rec = httptest.NewRecorder()
	handler.ListAll(rec, httptest.NewRequest(http.MethodGet, "/?refresh=true&status=closed", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPut, "/d1/assign", strings.NewReader(`{"instructorId":"i9"}`))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "d1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec = httptest.NewRecorder()
	handler.AssignDoubt(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"assigned"`)
}

func findIn(list []model.Doubt, id string) (model.Doubt, bool) {
	for _, d := range list {
		if d.ID == id {
			return d, true
		}
	}
	return model.Doubt{}, false
}

func TestLateResponseAfterTeardownIsDropped(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		_, _ = w.Write([]byte(`{"doubts":[{"_id":"userA-doubt","text":"private","subject":"Physics","status":"pending","student":"userA"}]}`))
	}))
	t.Cleanup(srv.Close)

	st := store.New()
	slots := request.NewRegistry(request.LastResolvedWins)
	session := auth.NewHolder(&auth.Session{UserID: "userA", Role: model.RoleStudent})
	svc := doubt.NewService(transport.NewClient(transport.Options{BaseURL: srv.URL}), st, slots, session)

	done := make(chan error, 1)
	go func() {
		_, err := svc.ListMine(context.Background())
		done <- err
	}()

	<-started
	session.Set(&auth.Session{UserID: "userB", Role: model.RoleStudent})
	slots.Reset()
	st.Reset()
	close(release)

	assert.True(t, request.IsSuperseded(<-done))
	assert.Empty(t, st.Doubts(store.ScopeStudent))
	assert.Equal(t, request.StatusIdle, slots.State(doubt.SlotMine).Status)
}
