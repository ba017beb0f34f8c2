package model

import util "github.com/saulo-duarte/mockprep/internal/utils"

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in-progress"
	AttemptCompleted  AttemptStatus = "completed"
	AttemptFinished   AttemptStatus = "finished"
)

type Attempt struct {
	ID          string          `json:"_id"`
	MockTest    Ref             `json:"mocktestId"`
	Score       float64         `json:"score"`
	TotalMarks  *float64        `json:"totalMarks,omitempty"`
	Status      AttemptStatus   `json:"status"`
	StartedAt   *util.Timestamp `json:"startedAt,omitempty"`
	SubmittedAt *util.Timestamp `json:"submittedAt,omitempty"`
	CreatedAt   util.Timestamp  `json:"createdAt"`
	Answers     []Answer        `json:"answers,omitempty"`
}

func (a Attempt) IsCompleted() bool {
	return a.Status == AttemptCompleted || a.Status == AttemptFinished
}

type Answer struct {
	QuestionID      string   `json:"questionId"`
	SelectedOptions []int    `json:"selectedOptions,omitempty"`
	ManualAnswer    string   `json:"manualAnswer,omitempty"`
	MarksAwarded    *float64 `json:"marksAwarded,omitempty"`
}

type QuestionType string

const (
	QuestionMCQ    QuestionType = "mcq"
	QuestionManual QuestionType = "manual"
)

type Option struct {
	Text  string `json:"text"`
	Image string `json:"image,omitempty"`
}

type Question struct {
	ID             string       `json:"_id"`
	Type           QuestionType `json:"type"`
	Text           string       `json:"text"`
	Options        []Option     `json:"options,omitempty"`
	CorrectOptions []int        `json:"correctOptions,omitempty"`
	ParentQuestion string       `json:"parentQuestion,omitempty"`
	Explanation    string       `json:"explanation,omitempty"`
	Marks          float64      `json:"marks"`
	NegativeMarks  float64      `json:"negativeMarks"`
}

// AttemptReview is the full graded payload returned for a finished attempt.
type AttemptReview struct {
	Attempt
	Questions []Question `json:"questions,omitempty"`
}
