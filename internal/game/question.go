// internal/game/question.go
//
// Yes/no questions the guesser can ask.
// Each question is a tagged value (Kind + parameter) rather than a closure,
// so it can be rebuilt exactly from its string ID on a later request.
//
// ID formats:
//   dual_type, evolves_from, evolves_into   fixed questions
//   weakness_gt:N                            more than N weaknesses
//   type:T                                   has type T
//   weakness:W                               weak to W
//   num:<T                                   pokedex number below T

package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robalobadob/pokeguess/internal/pokemon"
)

// Kind tags the predicate family of a Question.
type Kind int

const (
	KindDualType Kind = iota
	KindEvolvesFrom
	KindEvolvesInto
	KindWeaknessCount
	KindType
	KindWeakness
	KindNumber
)

const (
	idDualType       = "dual_type"
	idEvolvesFrom    = "evolves_from"
	idEvolvesInto    = "evolves_into"
	prefixWeaknessGT = "weakness_gt:"
	prefixType       = "type:"
	prefixWeakness   = "weakness:"
	prefixNumber     = "num:<"
)

var kindNames = map[Kind]string{
	KindDualType:      "dual_type",
	KindEvolvesFrom:   "evolves_from",
	KindEvolvesInto:   "evolves_into",
	KindWeaknessCount: "weakness_count",
	KindType:          "type",
	KindWeakness:      "weakness",
	KindNumber:        "number",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Question is a re-derivable yes/no predicate over a Pokemon.
// Label is used by KindType/KindWeakness, N by KindWeaknessCount/KindNumber.
type Question struct {
	Kind  Kind
	Label string
	N     int
}

func DualType() Question { return Question{Kind: KindDualType} }

func EvolvesFrom() Question { return Question{Kind: KindEvolvesFrom} }

func EvolvesInto() Question { return Question{Kind: KindEvolvesInto} }

func WeaknessCountOver(n int) Question { return Question{Kind: KindWeaknessCount, N: n} }

func HasType(t string) Question { return Question{Kind: KindType, Label: t} }

func HasWeakness(w string) Question { return Question{Kind: KindWeakness, Label: w} }

// NumberBelow asks whether the pokedex number is less than t.
func NumberBelow(t int) Question { return Question{Kind: KindNumber, N: t} }

// ID returns the stable string key of the question.
func (q Question) ID() string {
	switch q.Kind {
	case KindDualType:
		return idDualType
	case KindEvolvesFrom:
		return idEvolvesFrom
	case KindEvolvesInto:
		return idEvolvesInto
	case KindWeaknessCount:
		return prefixWeaknessGT + strconv.Itoa(q.N)
	case KindType:
		return prefixType + q.Label
	case KindWeakness:
		return prefixWeakness + q.Label
	case KindNumber:
		return prefixNumber + strconv.Itoa(q.N)
	}
	return ""
}

// Prompt returns the human-readable question text.
func (q Question) Prompt() string {
	switch q.Kind {
	case KindDualType:
		return "Does your Pokémon have more than one type?"
	case KindEvolvesFrom:
		return "Does your Pokémon evolve from another Pokémon?"
	case KindEvolvesInto:
		return "Does your Pokémon evolve into another Pokémon?"
	case KindWeaknessCount:
		return fmt.Sprintf("Does your Pokémon have more than %d weaknesses?", q.N)
	case KindType:
		return fmt.Sprintf("Is your Pokémon a %s type?", q.Label)
	case KindWeakness:
		return fmt.Sprintf("Is your Pokémon weak to %s?", q.Label)
	case KindNumber:
		return fmt.Sprintf("Is your Pokémon's number less than %d?", q.N)
	}
	return ""
}

// Matches evaluates the predicate against p.
func (q Question) Matches(p pokemon.Pokemon) bool {
	switch q.Kind {
	case KindDualType:
		return p.IsDualType()
	case KindEvolvesFrom:
		return p.EvolvesFrom()
	case KindEvolvesInto:
		return p.EvolvesInto()
	case KindWeaknessCount:
		return p.WeaknessCount() > q.N
	case KindType:
		return p.HasType(q.Label)
	case KindWeakness:
		return p.HasWeakness(q.Label)
	case KindNumber:
		return p.Num() < q.N
	}
	return false
}

// IsNumber reports whether q is a numeric-threshold question.
func (q Question) IsNumber() bool { return q.Kind == KindNumber }

// IsNumberID reports whether id has the numeric-threshold shape.
func IsNumberID(id string) bool { return strings.HasPrefix(id, prefixNumber) }

// ParseID rebuilds the question an ID was derived from.
// It only checks syntax; whether a non-numeric question belongs to a given
// population is decided by Bank.Reconstruct.
func ParseID(id string) (Question, bool) {
	switch id {
	case idDualType:
		return DualType(), true
	case idEvolvesFrom:
		return EvolvesFrom(), true
	case idEvolvesInto:
		return EvolvesInto(), true
	}
	switch {
	case strings.HasPrefix(id, prefixNumber):
		n, ok := canonicalInt(strings.TrimPrefix(id, prefixNumber))
		if !ok {
			return Question{}, false
		}
		return NumberBelow(n), true
	case strings.HasPrefix(id, prefixWeaknessGT):
		n, ok := canonicalInt(strings.TrimPrefix(id, prefixWeaknessGT))
		if !ok || n < 0 {
			return Question{}, false
		}
		return WeaknessCountOver(n), true
	case strings.HasPrefix(id, prefixType):
		if t := strings.TrimPrefix(id, prefixType); t != "" {
			return HasType(t), true
		}
	case strings.HasPrefix(id, prefixWeakness):
		if w := strings.TrimPrefix(id, prefixWeakness); w != "" {
			return HasWeakness(w), true
		}
	}
	return Question{}, false
}

// canonicalInt parses s only when it is spelled the way ID writes it
// ("5", not "05" or "+5"), so every question has exactly one ID.
func canonicalInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || strconv.Itoa(n) != s {
		return 0, false
	}
	return n, true
}

// Split partitions candidates into the yes and no sides of q.
// Input order is preserved on both sides.
func (q Question) Split(candidates []pokemon.Pokemon) (yes, no []pokemon.Pokemon) {
	for _, p := range candidates {
		if q.Matches(p) {
			yes = append(yes, p)
		} else {
			no = append(no, p)
		}
	}
	return yes, no
}
