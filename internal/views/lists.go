package views

import (
	"sort"
	"strings"

	"github.com/saulo-duarte/mockprep/internal/model"
)

// FilterDoubts matches status exactly and subject case-insensitively;
// empty arguments match everything.
func FilterDoubts(doubts []model.Doubt, status model.DoubtStatus, subject string) []model.Doubt {
	out := make([]model.Doubt, 0, len(doubts))
	for _, d := range doubts {
		if status != "" && d.Status != status {
			continue
		}
		if subject != "" && !strings.EqualFold(d.Subject, subject) {
			continue
		}
		out = append(out, d)
	}
	return out
}

type AttemptRow struct {
	model.Attempt
	AttemptScore
}

// CompletedAttempts lists finished attempts, newest first, with scores.
func CompletedAttempts(attempts []model.Attempt) []AttemptRow {
	rows := make([]AttemptRow, 0, len(attempts))
	for _, a := range attempts {
		if !a.IsCompleted() {
			continue
		}
		rows = append(rows, AttemptRow{Attempt: a, AttemptScore: AttemptPercentage(a)})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt.Time)
	})
	return rows
}
