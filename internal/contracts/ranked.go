package contracts

import "time"

// ScoreResult is the score breakdown for one security.
// Total is always Safety + Potential + Analyst.
type ScoreResult struct {
	Safety    float64 `json:"safety"`
	Potential float64 `json:"potential"`
	Analyst   float64 `json:"analyst"`
	Total     float64 `json:"total"`
}

// NewScoreResult builds a result whose Total is the exact sum of the parts
func NewScoreResult(safety, potential, analyst float64) ScoreResult {
	return ScoreResult{
		Safety:    safety,
		Potential: potential,
		Analyst:   analyst,
		Total:     safety + potential + analyst,
	}
}

// RankedEntry is one row of the ranked table
// ⭐ SSOT: Ranking → Report 랭킹 결과 전달
type RankedEntry struct {
	Rank   int            `json:"rank"` // 1-based ranking
	Record SecurityRecord `json:"record"`
	Score  ScoreResult    `json:"score"`
}

// RankedTable is ordered by Total descending, ties in input order
type RankedTable []RankedEntry

// FetchFailure records a symbol dropped during fetch
type FetchFailure struct {
	Symbol    string `json:"symbol"`
	Error     string `json:"error"`
	Transient bool   `json:"transient"`
}

// ScoringSkip records a fetched symbol that could not be scored
type ScoringSkip struct {
	Symbol string `json:"symbol"`
	Error  string `json:"error"`
}

// RankingResult is everything one pipeline run produced
type RankingResult struct {
	Table     RankedTable    `json:"table"`
	Sectors   SectorAverages `json:"sectors"`
	Failures  []FetchFailure `json:"failures"`
	Skipped   []ScoringSkip  `json:"skipped"`
	Requested int            `json:"requested"`
	StartedAt time.Time      `json:"started_at"`
	Duration  time.Duration  `json:"duration"`
}
