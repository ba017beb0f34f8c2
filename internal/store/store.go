package store

import (
	"sync"
	"time"

	"github.com/saulo-duarte/mockprep/internal/model"
)

// Scope names one role-scoped copy of the doubt collection.
type Scope string

const (
	ScopeStudent    Scope = "student"
	ScopeAdmin      Scope = "admin"
	ScopeInstructor Scope = "instructor"
)

var AllScopes = []Scope{ScopeStudent, ScopeAdmin, ScopeInstructor}

// Slice names what changed in a Change notification.
type Slice string

const (
	SliceCategories    Slice = "categories"
	SliceMockTests     Slice = "mocktests"
	SliceAttempts      Slice = "attempts"
	SliceReviews       Slice = "reviews"
	SliceDoubts        Slice = "doubts"
	SliceLeaderboards  Slice = "leaderboards"
	SliceProfile       Slice = "profile"
	SliceNotifications Slice = "notifications"
	SliceAll           Slice = "all"
)

type Change struct {
	Slice Slice  `json:"slice"`
	ID    string `json:"id,omitempty"`
}

// Store is the session's single mutable cache of backend entities. Every
// mutation goes through a Store method so role-scoped copies stay in step.
type Store struct {
	mu sync.RWMutex

	categories   *Collection[model.Category]
	mockTests    *Collection[model.MockTest]
	attempts     *Collection[model.Attempt]
	reviews      *Collection[model.AttemptReview]
	doubts       map[Scope]*Collection[model.Doubt]
	leaderboards map[string][]model.LeaderboardEntry
	profile      *model.Profile
	notices      []model.Notification

	hub *hub
}

func New() *Store {
	s := &Store{hub: newHub()}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.categories = NewCollection(func(c model.Category) string { return c.ID })
	s.mockTests = NewCollection(func(t model.MockTest) string { return t.ID })
	s.attempts = NewCollection(func(a model.Attempt) string { return a.ID })
	s.reviews = NewCollection(func(r model.AttemptReview) string { return r.ID })
	s.doubts = make(map[Scope]*Collection[model.Doubt], len(AllScopes))
	for _, scope := range AllScopes {
		s.doubts[scope] = NewCollection(func(d model.Doubt) string { return d.ID })
	}
	s.leaderboards = make(map[string][]model.LeaderboardEntry)
	s.profile = nil
	s.notices = nil
}

// Reset drops every cached entity, as on logout.
func (s *Store) Reset() {
	s.mu.Lock()
	s.reset()
	s.mu.Unlock()
	s.hub.broadcast(Change{Slice: SliceAll})
}

func (s *Store) Subscribe(buffer int) (int, <-chan Change) {
	return s.hub.subscribe(buffer)
}

func (s *Store) Unsubscribe(id int) {
	s.hub.unsubscribe(id)
}

func (s *Store) write(change Change, fn func()) {
	s.mu.Lock()
	fn()
	s.mu.Unlock()
	s.hub.broadcast(change)
}

// Categories

func (s *Store) Categories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories.List()
}

func (s *Store) ReplaceCategories(list []model.Category) {
	s.write(Change{Slice: SliceCategories}, func() { s.categories.Replace(list) })
}

func (s *Store) UpsertCategory(c model.Category) {
	s.write(Change{Slice: SliceCategories, ID: c.ID}, func() { s.categories.UpsertOne(c) })
}

func (s *Store) RemoveCategory(id string) {
	s.write(Change{Slice: SliceCategories, ID: id}, func() { s.categories.RemoveOne(id) })
}

// Mock tests

func (s *Store) MockTests() []model.MockTest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mockTests.List()
}

func (s *Store) MockTest(id string) (model.MockTest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mockTests.Get(id)
}

func (s *Store) ReplaceMockTests(list []model.MockTest) {
	s.write(Change{Slice: SliceMockTests}, func() { s.mockTests.Replace(list) })
}

func (s *Store) UpsertMockTest(t model.MockTest) {
	s.write(Change{Slice: SliceMockTests, ID: t.ID}, func() { s.mockTests.UpsertOne(t) })
}

func (s *Store) PatchMockTest(id string, fn func(*model.MockTest)) bool {
	var ok bool
	s.write(Change{Slice: SliceMockTests, ID: id}, func() { ok = s.mockTests.PatchOne(id, fn) })
	return ok
}

func (s *Store) RemoveMockTest(id string) {
	s.write(Change{Slice: SliceMockTests, ID: id}, func() { s.mockTests.RemoveOne(id) })
}

// Attempts

func (s *Store) Attempts() []model.Attempt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.attempts.List()
}

func (s *Store) ReplaceAttempts(list []model.Attempt) {
	s.write(Change{Slice: SliceAttempts}, func() { s.attempts.Replace(list) })
}

func (s *Store) UpsertAttempt(a model.Attempt) {
	s.write(Change{Slice: SliceAttempts, ID: a.ID}, func() { s.attempts.UpsertOne(a) })
}

func (s *Store) Review(attemptID string) (model.AttemptReview, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reviews.Get(attemptID)
}

// PutReview caches the review and refreshes the attempt row it belongs to.
func (s *Store) PutReview(r model.AttemptReview) {
	s.write(Change{Slice: SliceReviews, ID: r.ID}, func() {
		s.reviews.UpsertOne(r)
		s.attempts.UpsertOne(r.Attempt)
	})
}

// Doubts

func (s *Store) Doubts(scope Scope) []model.Doubt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.doubts[scope]
	if !ok {
		return []model.Doubt{}
	}
	return c.List()
}

// FindDoubt returns the first cached copy of id across every scope.
func (s *Store) FindDoubt(id string) (model.Doubt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, scope := range AllScopes {
		if d, ok := s.doubts[scope].Get(id); ok {
			return d, true
		}
	}
	return model.Doubt{}, false
}

func (s *Store) ReplaceDoubts(scope Scope, list []model.Doubt) {
	s.write(Change{Slice: SliceDoubts}, func() {
		if c, ok := s.doubts[scope]; ok {
			c.Replace(list)
		}
	})
}

// SyncDoubt writes d into origin and overwrites every other scope that
// already holds the same id, under one lock.
func (s *Store) SyncDoubt(origin Scope, d model.Doubt) {
	s.write(Change{Slice: SliceDoubts, ID: d.ID}, func() {
		if c, ok := s.doubts[origin]; ok {
			c.UpsertOne(d)
		}
		for _, scope := range AllScopes {
			if scope == origin {
				continue
			}
			c := s.doubts[scope]
			if c.Has(d.ID) {
				c.UpsertOne(d)
			}
		}
	})
}

// PatchDoubt applies p to every cached copy of id and returns how many
// copies were touched. Unknown ids are a no-op.
func (s *Store) PatchDoubt(id string, p model.DoubtPatch) int {
	n := 0
	s.write(Change{Slice: SliceDoubts, ID: id}, func() {
		for _, scope := range AllScopes {
			if s.doubts[scope].PatchOne(id, p.Apply) {
				n++
			}
		}
	})
	return n
}

// Leaderboards

func (s *Store) Leaderboard(mockTestID string) ([]model.LeaderboardEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, ok := s.leaderboards[mockTestID]
	if !ok {
		return nil, false
	}
	out := make([]model.LeaderboardEntry, len(entries))
	copy(out, entries)
	return out, true
}

func (s *Store) PutLeaderboard(mockTestID string, entries []model.LeaderboardEntry) {
	cp := make([]model.LeaderboardEntry, len(entries))
	copy(cp, entries)
	s.write(Change{Slice: SliceLeaderboards, ID: mockTestID}, func() { s.leaderboards[mockTestID] = cp })
}

// Profile

func (s *Store) Profile() *model.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	p.PurchasedTests = append([]string(nil), s.profile.PurchasedTests...)
	p.EnrolledMockTests = append([]string(nil), s.profile.EnrolledMockTests...)
	return &p
}

func (s *Store) SetProfile(p model.Profile) {
	s.write(Change{Slice: SliceProfile, ID: p.ID}, func() { s.profile = &p })
}

// Notifications

func (s *Store) Notify(event, message string) {
	n := model.Notification{Event: event, Message: message, At: time.Now().Unix()}
	s.write(Change{Slice: SliceNotifications}, func() { s.notices = append(s.notices, n) })
}

func (s *Store) Notifications() []model.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Notification{}, s.notices...)
}

func (s *Store) ClearNotifications() {
	s.write(Change{Slice: SliceNotifications}, func() { s.notices = nil })
}
