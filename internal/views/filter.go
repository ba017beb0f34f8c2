// Package views holds pure functions that turn cached entities into
// display-ready shapes. Nothing here touches the network or the clock
// except through arguments.
package views

import (
	"sort"
	"strings"
	"time"

	"github.com/saulo-duarte/mockprep/internal/model"
)

type TestKind string

const (
	KindAll           TestKind = "all"
	KindFree          TestKind = "free"
	KindPaid          TestKind = "paid"
	KindGrand         TestKind = "grand"
	KindGrandUpcoming TestKind = "grand_upcoming"
	KindRegular       TestKind = "regular"
	KindUpcoming      TestKind = "upcoming"
)

func (k TestKind) IsValid() bool {
	switch k {
	case "", KindAll, KindFree, KindPaid, KindGrand, KindGrandUpcoming, KindRegular, KindUpcoming:
		return true
	}
	return false
}

type TestFilter struct {
	Kind          TestKind
	CategoryID    string
	Query         string
	NewestFirst   bool
	PublishedOnly bool
}

func (k TestKind) matches(t model.MockTest, now time.Time) bool {
	switch k {
	case KindFree:
		return t.IsFree
	case KindPaid:
		return !t.IsFree
	case KindGrand:
		return t.IsGrandTest
	case KindGrandUpcoming:
		return t.IsGrandTest && t.IsUpcoming(now)
	case KindRegular:
		return !t.IsGrandTest
	case KindUpcoming:
		return t.IsUpcoming(now)
	default:
		return true
	}
}

// FilterTests returns a new slice; tests is never reordered or modified.
func FilterTests(tests []model.MockTest, f TestFilter, now time.Time) []model.MockTest {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]model.MockTest, 0, len(tests))
	for _, t := range tests {
		if f.PublishedOnly && !t.IsPublished {
			continue
		}
		if f.CategoryID != "" && t.Category.ID != f.CategoryID {
			continue
		}
		if !f.Kind.matches(t, now) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(t.Title), query) &&
			!strings.Contains(strings.ToLower(t.Description), query) {
			continue
		}
		out = append(out, t)
	}

	if f.NewestFirst {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt.Time)
		})
	}
	return out
}
