package model

import (
	"time"

	util "github.com/saulo-duarte/mockprep/internal/utils"
)

type MockTest struct {
	ID              string          `json:"_id"`
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	Category        Ref             `json:"category"`
	Price           float64         `json:"price"`
	OriginalPrice   *float64        `json:"originalPrice,omitempty"`
	IsFree          bool            `json:"isFree"`
	IsGrandTest     bool            `json:"isGrandTest"`
	IsPublished     bool            `json:"isPublished"`
	ScheduledFor    *util.Timestamp `json:"scheduledFor,omitempty"`
	AvailableFrom   *util.Timestamp `json:"availableFrom,omitempty"`
	TotalQuestions  int             `json:"totalQuestions"`
	TotalMarks      float64         `json:"totalMarks,omitempty"`
	DurationMinutes int             `json:"durationMinutes"`
	Thumbnail       string          `json:"thumbnail,omitempty"`
	CreatedAt       util.Timestamp  `json:"createdAt"`
}

// ShowPrice is false for free tests; their price is never displayed.
func (t MockTest) ShowPrice() bool {
	return !t.IsFree
}

// StartsAt prefers the scheduled date and falls back to availability.
func (t MockTest) StartsAt() *time.Time {
	if ts := util.ToTimePtr(t.ScheduledFor); ts != nil {
		return ts
	}
	return util.ToTimePtr(t.AvailableFrom)
}

func (t MockTest) IsUpcoming(now time.Time) bool {
	start := t.StartsAt()
	return start != nil && start.After(now)
}
