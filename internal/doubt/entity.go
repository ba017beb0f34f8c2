package doubt

import (
	"errors"
	"fmt"

	"github.com/saulo-duarte/mockprep/internal/model"
	util "github.com/saulo-duarte/mockprep/internal/utils"
)

const (
	SlotCreate         = "doubts.create"
	SlotMine           = "doubts.mine"
	SlotAdminList      = "doubts.admin.list"
	SlotAssign         = "doubts.assign"
	SlotInstructorList = "doubts.instructor.list"
	SlotAnswer         = "doubts.answer"
)

var (
	ErrDoubtClosed       = fmt.Errorf("%w: doubt already answered", util.ErrConflict)
	ErrInvalidTransition = fmt.Errorf("%w: status change not allowed", util.ErrConflict)
	ErrEmptyAssignment   = fmt.Errorf("%w: instructorId or status required", util.ErrInvalidInput)
	ErrMissingDoubt      = errors.New("backend response carried no doubt")
)

type DoubtInput struct {
	Text       string `json:"text" validate:"required,min=3,max=4000"`
	Subject    string `json:"subject" validate:"required,max=120"`
	Type       string `json:"type,omitempty" validate:"omitempty,max=40"`
	MockTestID string `json:"mocktestId,omitempty"`
	AttemptID  string `json:"attemptId,omitempty"`
	QuestionID string `json:"questionId,omitempty"`
}

type AssignInput struct {
	InstructorID string            `json:"instructorId,omitempty"`
	Status       model.DoubtStatus `json:"status,omitempty" validate:"omitempty,oneof=pending assigned answered"`
}

type AnswerInput struct {
	Answer string `json:"answer" validate:"required,min=1,max=8000"`
}

type doubtResponse struct {
	Doubt *model.Doubt `json:"doubt"`
}
