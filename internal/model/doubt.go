package model

import util "github.com/saulo-duarte/mockprep/internal/utils"

type DoubtStatus string

const (
	DoubtPending  DoubtStatus = "pending"
	DoubtAssigned DoubtStatus = "assigned"
	DoubtAnswered DoubtStatus = "answered"
)

func (s DoubtStatus) IsValid() bool {
	switch s {
	case DoubtPending, DoubtAssigned, DoubtAnswered:
		return true
	}
	return false
}

// CanTransition allows pending -> assigned -> answered, re-assignment while
// assigned, and nothing out of answered.
func (s DoubtStatus) CanTransition(to DoubtStatus) bool {
	switch s {
	case DoubtPending:
		return to == DoubtPending || to == DoubtAssigned || to == DoubtAnswered
	case DoubtAssigned:
		return to == DoubtAssigned || to == DoubtAnswered
	default:
		return false
	}
}

type Doubt struct {
	ID                 string          `json:"_id"`
	Student            Ref             `json:"student"`
	Subject            string          `json:"subject"`
	Text               string          `json:"text"`
	Type               string          `json:"type,omitempty"`
	MockTestID         string          `json:"mocktestId,omitempty"`
	QuestionID         string          `json:"questionId,omitempty"`
	AttemptID          string          `json:"attemptId,omitempty"`
	Status             DoubtStatus     `json:"status"`
	AssignedInstructor *Ref            `json:"assignedInstructor,omitempty"`
	Answer             string          `json:"answer,omitempty"`
	AnsweredAt         *util.Timestamp `json:"answeredAt,omitempty"`
	CreatedAt          util.Timestamp  `json:"createdAt"`
}

// DoubtPatch is a partial update; nil fields are left untouched.
type DoubtPatch struct {
	Status             *DoubtStatus    `json:"status,omitempty"`
	AssignedInstructor *Ref            `json:"assignedInstructor,omitempty"`
	Answer             *string         `json:"answer,omitempty"`
	AnsweredAt         *util.Timestamp `json:"answeredAt,omitempty"`
}

func (p DoubtPatch) Apply(d *Doubt) {
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.AssignedInstructor != nil {
		ref := *p.AssignedInstructor
		d.AssignedInstructor = &ref
	}
	if p.Answer != nil {
		d.Answer = *p.Answer
	}
	if p.AnsweredAt != nil {
		ts := *p.AnsweredAt
		d.AnsweredAt = &ts
	}
}
