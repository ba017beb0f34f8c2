package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/saulo-duarte/mockprep/internal/config"
	"github.com/saulo-duarte/mockprep/internal/model"
	"github.com/saulo-duarte/mockprep/internal/store"
	util "github.com/saulo-duarte/mockprep/internal/utils"
)

var (
	ErrFreeTest         = fmt.Errorf("%w: free tests cannot be added to the cart", util.ErrConflict)
	ErrAlreadyPurchased = fmt.Errorf("%w: grand test already purchased", util.ErrConflict)
	ErrUnknownTest      = fmt.Errorf("%w: mock test not loaded", util.ErrNotFound)
)

type Summary struct {
	Items []model.MockTest `json:"items"`
	Total float64          `json:"total"`
}

// Service is a purely local cart; checkout belongs to the payment flow.
type Service interface {
	Add(ctx context.Context, mockTestID string) (Summary, error)
	Remove(ctx context.Context, mockTestID string) Summary
	Items() []model.MockTest
	Total() float64
	Clear()
}

type cartService struct {
	store *store.Store

	mu    sync.Mutex
	items *store.Collection[model.MockTest]
}

func NewService(st *store.Store) Service {
	return &cartService{store: st, items: newItems()}
}

func newItems() *store.Collection[model.MockTest] {
	return store.NewCollection(func(t model.MockTest) string { return t.ID })
}

// Add never reaches the network: free tests and Grand Tests the user
// already owns are rejected from cached state.
func (s *cartService) Add(ctx context.Context, mockTestID string) (Summary, error) {
	log := config.WithContext(ctx).WithField("mocktest_id", mockTestID)

	t, ok := s.store.MockTest(mockTestID)
	if !ok {
		return s.summary(), ErrUnknownTest
	}
	if t.IsFree {
		log.Debug("Rejected free test from cart")
		return s.summary(), ErrFreeTest
	}
	if t.IsGrandTest && s.store.Profile().HasPurchased(t.ID) {
		log.Debug("Rejected purchased grand test from cart")
		return s.summary(), ErrAlreadyPurchased
	}

	s.mu.Lock()
	s.items.UpsertOne(t)
	s.mu.Unlock()
	return s.summary(), nil
}

func (s *cartService) Remove(_ context.Context, mockTestID string) Summary {
	s.mu.Lock()
	s.items.RemoveOne(mockTestID)
	s.mu.Unlock()
	return s.summary()
}

func (s *cartService) Items() []model.MockTest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.List()
}

func (s *cartService) Total() float64 {
	return sumPrices(s.Items())
}

func (s *cartService) Clear() {
	s.mu.Lock()
	s.items = newItems()
	s.mu.Unlock()
}

func (s *cartService) summary() Summary {
	items := s.Items()
	return Summary{Items: items, Total: sumPrices(items)}
}

func sumPrices(items []model.MockTest) float64 {
	var total float64
	for _, t := range items {
		total += t.Price
	}
	return total
}
