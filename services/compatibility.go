package services

import (
	"math"

	"loneton_server/models"
)

// CalculateCompatibilityScore compares two 1-5 answer vectors and returns a
// 0-100 similarity. Vectors of different length are compared on the shorter
// prefix so that questionnaire revisions keep working.
func CalculateCompatibilityScore(answers1, answers2 []int) int {
	n := len(answers1)
	if len(answers2) < n {
		n = len(answers2)
	}
	if n == 0 {
		return 0
	}

	totalDifference := 0
	for i := 0; i < n; i++ {
		diff := answers1[i] - answers2[i]
		if diff < 0 {
			diff = -diff
		}
		totalDifference += diff
	}

	maxPossibleDifference := float64(models.MaxAnswerDifference * n)
	similarity := 1 - float64(totalDifference)/maxPossibleDifference
	return int(math.Round(similarity * 100))
}
