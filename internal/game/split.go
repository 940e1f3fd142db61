// internal/game/split.go
//
// Split scoring and the numeric-threshold question.

package game

import (
	"sort"

	"github.com/robalobadob/pokeguess/internal/pokemon"
)

// SplitQuality scores how evenly q divides candidates:
// min(|yes|, |no|) / |candidates|. One-sided splits score 0, a perfect
// halving scores 0.5.
func SplitQuality(q Question, candidates []pokemon.Pokemon) float64 {
	if len(candidates) == 0 {
		return 0
	}
	yes := 0
	for _, p := range candidates {
		if q.Matches(p) {
			yes++
		}
	}
	no := len(candidates) - yes
	if yes == 0 || no == 0 {
		return 0
	}
	return float64(min(yes, no)) / float64(len(candidates))
}

// NumberQuestion builds a fresh numeric-threshold question whose threshold
// is the number of the candidate at index n/2 when sorted by pokedex number.
// With unique numbers and at least two candidates both sides are non-empty.
// It reports false for an empty candidate set.
func NumberQuestion(candidates []pokemon.Pokemon) (Question, bool) {
	if len(candidates) == 0 {
		return Question{}, false
	}
	nums := make([]int, len(candidates))
	for i, p := range candidates {
		nums[i] = p.Num()
	}
	sort.Ints(nums)
	return NumberBelow(nums[len(nums)/2]), true
}
