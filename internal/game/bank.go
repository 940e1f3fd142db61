// internal/game/bank.go
//
// Question bank: the fixed, non-numeric questions derivable from a population.
// Responsibilities:
//   - Enumerate every question from observed attributes (types, weaknesses,
//     weakness counts, evolution flags).
//   - Look questions up by ID for stateless reconstruction.
//
// Ordering is deterministic: fixed questions first, then weakness counts
// ascending, then types and weaknesses in lexical order.

package game

import (
	"sort"

	"github.com/robalobadob/pokeguess/internal/pokemon"
)

// Bank holds the fixed question set of one population.
type Bank struct {
	questions []Question
	byID      map[string]Question
}

// NewBank builds the question bank for population.
func NewBank(population []pokemon.Pokemon) *Bank {
	types := map[string]struct{}{}
	weaknesses := map[string]struct{}{}
	counts := map[int]struct{}{}
	for _, p := range population {
		for _, t := range p.Types() {
			types[t] = struct{}{}
		}
		for _, w := range p.Weaknesses() {
			weaknesses[w] = struct{}{}
		}
		counts[p.WeaknessCount()] = struct{}{}
	}

	qs := []Question{DualType(), EvolvesFrom(), EvolvesInto()}
	for _, n := range sortedInts(counts) {
		qs = append(qs, WeaknessCountOver(n))
	}
	for _, t := range sortedKeys(types) {
		qs = append(qs, HasType(t))
	}
	for _, w := range sortedKeys(weaknesses) {
		qs = append(qs, HasWeakness(w))
	}

	b := &Bank{questions: qs, byID: make(map[string]Question, len(qs))}
	for _, q := range qs {
		b.byID[q.ID()] = q
	}
	return b
}

// Questions returns the bank in deterministic order.
func (b *Bank) Questions() []Question {
	return append([]Question(nil), b.questions...)
}

// Len is the number of fixed questions.
func (b *Bank) Len() int { return len(b.questions) }

// Reconstruct returns the question with the given ID.
// Numeric IDs are parsed directly since their threshold is carried in the ID;
// all other IDs must belong to the bank.
func (b *Bank) Reconstruct(id string) (Question, bool) {
	if IsNumberID(id) {
		return ParseID(id)
	}
	q, ok := b.byID[id]
	return q, ok
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedInts(m map[int]struct{}) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
