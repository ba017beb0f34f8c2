package model

type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	Name       string  `json:"name"`
	Avatar     string  `json:"avatar,omitempty"`
	Score      float64 `json:"score"`
	TotalMarks float64 `json:"totalMarks"`
}

type Notification struct {
	Event   string `json:"event"`
	Message string `json:"message,omitempty"`
	At      int64  `json:"at"`
}
