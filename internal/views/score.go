package views

import (
	"math"

	"github.com/saulo-duarte/mockprep/internal/model"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Percentage guards division by zero: no marks means 0, never NaN or Inf.
func Percentage(score, totalMarks float64) float64 {
	if totalMarks <= 0 || math.IsNaN(totalMarks) || math.IsInf(totalMarks, 0) {
		return 0
	}
	return round2(score / totalMarks * 100)
}

type AttemptScore struct {
	Percentage float64 `json:"percentage"`
	Ungraded   bool    `json:"ungraded"`
}

// AttemptPercentage reports 0 for both missing and zero total marks, but
// flags the missing case so the UI can tell "ungraded" from "zero-weight".
func AttemptPercentage(a model.Attempt) AttemptScore {
	if a.TotalMarks == nil {
		return AttemptScore{Ungraded: true}
	}
	return AttemptScore{Percentage: Percentage(a.Score, *a.TotalMarks)}
}

type ReviewSummary struct {
	Correct     int     `json:"correct"`
	Incorrect   int     `json:"incorrect"`
	Unattempted int     `json:"unattempted"`
	Pending     int     `json:"pending"`
	Obtained    float64 `json:"obtained"`
	Total       float64 `json:"total"`
	Percentage  float64 `json:"percentage"`
}

// Summarize grades a review locally. Passage headers (questions other
// questions point at as parent) carry no marks and are skipped; manual
// questions count only once the backend has awarded marks.
func Summarize(r model.AttemptReview) ReviewSummary {
	parents := make(map[string]bool)
	for _, q := range r.Questions {
		if q.ParentQuestion != "" {
			parents[q.ParentQuestion] = true
		}
	}
	answers := make(map[string]model.Answer, len(r.Answers))
	for _, a := range r.Answers {
		answers[a.QuestionID] = a
	}

	var s ReviewSummary
	for _, q := range r.Questions {
		if parents[q.ID] {
			continue
		}
		s.Total += q.Marks
		ans, answered := answers[q.ID]

		if q.Type == model.QuestionManual {
			switch {
			case !answered || ans.ManualAnswer == "":
				s.Unattempted++
			case ans.MarksAwarded == nil:
				s.Pending++
			default:
				s.Obtained += *ans.MarksAwarded
				if *ans.MarksAwarded > 0 {
					s.Correct++
				} else {
					s.Incorrect++
				}
			}
			continue
		}

		switch {
		case !answered || len(ans.SelectedOptions) == 0:
			s.Unattempted++
		case sameOptions(ans.SelectedOptions, q.CorrectOptions):
			s.Correct++
			s.Obtained += q.Marks
		default:
			s.Incorrect++
			s.Obtained -= q.NegativeMarks
		}
	}

	s.Obtained = round2(s.Obtained)
	s.Percentage = Percentage(s.Obtained, s.Total)
	return s
}

func sameOptions(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[int]int, len(a))
	for _, v := range a {
		set[v]++
	}
	for _, v := range b {
		if set[v] == 0 {
			return false
		}
		set[v]--
	}
	return true
}

type QuestionGroup struct {
	Passage   *model.Question  `json:"passage,omitempty"`
	Questions []model.Question `json:"questions"`
}

// GroupByPassage keeps question order and nests passage children under
// their parent. Children whose parent is missing stand alone.
func GroupByPassage(questions []model.Question) []QuestionGroup {
	byID := make(map[string]int, len(questions))
	for i, q := range questions {
		byID[q.ID] = i
	}
	isParent := make(map[string]bool)
	for _, q := range questions {
		if q.ParentQuestion != "" {
			if _, ok := byID[q.ParentQuestion]; ok {
				isParent[q.ParentQuestion] = true
			}
		}
	}

	var groups []QuestionGroup
	groupOf := make(map[string]int)
	for _, q := range questions {
		switch {
		case isParent[q.ID]:
			if _, seen := groupOf[q.ID]; seen {
				continue
			}
			passage := q
			groupOf[q.ID] = len(groups)
			groups = append(groups, QuestionGroup{Passage: &passage})
		case q.ParentQuestion != "" && isParent[q.ParentQuestion]:
			idx, seen := groupOf[q.ParentQuestion]
			if !seen {
				parent := questions[byID[q.ParentQuestion]]
				idx = len(groups)
				groupOf[q.ParentQuestion] = idx
				groups = append(groups, QuestionGroup{Passage: &parent})
			}
			groups[idx].Questions = append(groups[idx].Questions, q)
		default:
			groups = append(groups, QuestionGroup{Questions: []model.Question{q}})
		}
	}
	return groups
}
