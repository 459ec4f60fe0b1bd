// Package evaluation scores competency evaluations and places employees on
// the nine-box grid.
package evaluation

import "math"

// Competency is one scored item of an evaluation. Scores run from 1 to 5; a
// missing score counts as zero.
type Competency struct {
	Name     string  `json:"name" binding:"required"`
	Category string  `json:"category" binding:"required"`
	Score    float64 `json:"score" binding:"gte=0,lte=5"`
}

// CategoryScore is the mean score of the competencies in category, rounded
// to two decimals. It is zero when the category has no competencies.
func CategoryScore(competencies []Competency, category string) float64 {
	var sum float64
	n := 0
	for _, c := range competencies {
		if c.Category == category {
			sum += c.Score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return round2(sum / float64(n))
}

// FinalScore is the mean of every score, rounded to two decimals.
func FinalScore(competencies []Competency) float64 {
	if len(competencies) == 0 {
		return 0
	}
	var sum float64
	for _, c := range competencies {
		sum += c.Score
	}
	return round2(sum / float64(len(competencies)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Level buckets a 1..5 rating.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

func LevelOf(rating float64) Level {
	switch {
	case rating <= 2:
		return LevelLow
	case rating <= 3:
		return LevelMedium
	default:
		return LevelHigh
	}
}

const Unclassified = "Unclassified"

var nineBox = map[[2]Level]string{
	{LevelLow, LevelLow}:       "Questionable",
	{LevelLow, LevelMedium}:    "New/Developing",
	{LevelLow, LevelHigh}:      "Enigma",
	{LevelMedium, LevelLow}:    "Effective",
	{LevelMedium, LevelMedium}: "Keeper",
	{LevelMedium, LevelHigh}:   "Strong Performer",
	{LevelHigh, LevelLow}:      "Specialist",
	{LevelHigh, LevelMedium}:   "High Performer",
	{LevelHigh, LevelHigh}:     "Star",
}

// NineBoxPosition names the grid cell for a performance/potential pair.
func NineBoxPosition(performance, potential float64) string {
	if math.IsNaN(performance) || math.IsNaN(potential) {
		return Unclassified
	}
	if label, ok := nineBox[[2]Level{LevelOf(performance), LevelOf(potential)}]; ok {
		return label
	}
	return Unclassified
}

// Summary is the scored result of one evaluation.
type Summary struct {
	CategoryScores map[string]float64 `json:"category_scores"`
	FinalScore     float64            `json:"final_score"`
	NineBox        string             `json:"nine_box"`
}

// Summarize scores every category present in competencies. Performance
// defaults to the final score when it is zero.
func Summarize(competencies []Competency, performance, potential float64) Summary {
	s := Summary{
		CategoryScores: map[string]float64{},
		FinalScore:     FinalScore(competencies),
	}
	for _, c := range competencies {
		if _, ok := s.CategoryScores[c.Category]; !ok {
			s.CategoryScores[c.Category] = CategoryScore(competencies, c.Category)
		}
	}
	if performance == 0 {
		performance = s.FinalScore
	}
	s.NineBox = NineBoxPosition(performance, potential)
	return s
}
