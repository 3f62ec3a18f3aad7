package service

import "leetstreak/models"

// Points per newly solved problem, by difficulty. Total solved is tracked but never weighted.
var difficultyWeights = map[models.Difficulty]int64{
	models.DifficultyEasy:   10,
	models.DifficultyMedium: 20,
	models.DifficultyHard:   30,
}

// CalculateScore returns the weighted progress a participant made since joining.
// Counts that went down contribute nothing.
func CalculateScore(p models.Participant) int64 {
	return WeightedGain(p.Initial(), p.Current())
}

// WeightedGain applies the difficulty weights to the per-bucket increase from prev to next
func WeightedGain(prev, next models.ProfileSnapshot) int64 {
	var total int64
	for difficulty, weight := range difficultyWeights {
		if delta := next.Solved(difficulty) - prev.Solved(difficulty); delta > 0 {
			total += weight * int64(delta)
		}
	}
	return total
}
