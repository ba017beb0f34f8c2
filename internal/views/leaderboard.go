package views

import "github.com/saulo-duarte/mockprep/internal/model"

type Tier string

const (
	TierGold    Tier = "gold"
	TierSilver  Tier = "silver"
	TierBronze  Tier = "bronze"
	TierNeutral Tier = "neutral"
)

var podium = []Tier{TierGold, TierSilver, TierBronze}

type RankedEntry struct {
	model.LeaderboardEntry
	Tier       Tier    `json:"tier"`
	Percentage float64 `json:"percentage"`
}

// RankTiers assumes entries arrive sorted by rank.
func RankTiers(entries []model.LeaderboardEntry) []RankedEntry {
	out := make([]RankedEntry, len(entries))
	for i, e := range entries {
		tier := TierNeutral
		if i < len(podium) {
			tier = podium[i]
		}
		out[i] = RankedEntry{
			LeaderboardEntry: e,
			Tier:             tier,
			Percentage:       Percentage(e.Score, e.TotalMarks),
		}
	}
	return out
}

func TopN[T any](entries []T, n int) []T {
	if n > len(entries) {
		n = len(entries)
	}
	if n < 0 {
		n = 0
	}
	out := make([]T, n)
	copy(out, entries[:n])
	return out
}
