package attempt

import (
	"github.com/saulo-duarte/mockprep/internal/model"
	"github.com/saulo-duarte/mockprep/internal/views"
)

const (
	SlotStart = "attempts.start"
	SlotGet   = "attempts.get"
	SlotMine  = "attempts.mine"
)

type startRequest struct {
	MockTestID string `json:"mockTestId" validate:"required"`
}

type startResponse struct {
	AttemptID string `json:"attemptId"`
}

// ReviewView is what the result page renders.
type ReviewView struct {
	Review  model.AttemptReview   `json:"review"`
	Score   views.AttemptScore    `json:"score"`
	Summary views.ReviewSummary   `json:"summary"`
	Groups  []views.QuestionGroup `json:"groups"`
}

func newReviewView(r model.AttemptReview) ReviewView {
	return ReviewView{
		Review:  r,
		Score:   views.AttemptPercentage(r.Attempt),
		Summary: views.Summarize(r),
		Groups:  views.GroupByPassage(r.Questions),
	}
}
