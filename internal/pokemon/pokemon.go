// internal/pokemon/pokemon.go
//
// Entity model for the guesser.
// Defines:
//   - Record:  the raw catalog entry as found in the pokedex JSON.
//   - Pokemon: the immutable value the game engine reasons about.
//
// Notes:
//   - Pokemon fields are unexported; accessors return copies so a catalog
//     entry can be shared between concurrent games without anyone mutating it.
//   - Evolution flags are derived once at construction from the presence of
//     prev/next evolution data.

package pokemon

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrMissingNumber is returned when a record has no usable pokedex number.
var ErrMissingNumber = errors.New("pokemon: missing or invalid number")

// EvolutionRef points at a neighbouring evolution stage.
type EvolutionRef struct {
	Num  string `json:"num"`
	Name string `json:"name"`
}

// Record mirrors one entry of the pokedex JSON file.
type Record struct {
	Num           string         `json:"num" validate:"required,numeric"`
	Name          string         `json:"name" validate:"required"`
	Img           string         `json:"img,omitempty"`
	Type          []string       `json:"type" validate:"dive,required"`
	Weaknesses    []string       `json:"weaknesses,omitempty" validate:"dive,required"`
	PrevEvolution []EvolutionRef `json:"prev_evolution,omitempty"`
	NextEvolution []EvolutionRef `json:"next_evolution,omitempty"`
}

// Pokemon is a single guessable creature.
type Pokemon struct {
	num         int
	name        string
	img         string
	types       []string // sorted, unique
	weaknesses  []string // sorted, unique
	typeSet     map[string]struct{}
	weakSet     map[string]struct{}
	evolvesFrom bool
	evolvesInto bool
}

var validate = validator.New()

// New builds a Pokemon from a raw record.
// A missing or non-numeric num is fatal (ErrMissingNumber); everything else
// that is optional defaults to empty/false.
func New(r Record) (Pokemon, error) {
	r.Num = strings.TrimSpace(r.Num)
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Field() == "Num" {
					return Pokemon{}, fmt.Errorf("%w: %q", ErrMissingNumber, r.Num)
				}
			}
		}
		return Pokemon{}, fmt.Errorf("pokemon %s: %w", r.Num, err)
	}
	n, err := strconv.Atoi(r.Num)
	if err != nil || n <= 0 {
		return Pokemon{}, fmt.Errorf("%w: %q", ErrMissingNumber, r.Num)
	}

	types, typeSet := normalize(r.Type)
	weak, weakSet := normalize(r.Weaknesses)
	return Pokemon{
		num:         n,
		name:        r.Name,
		img:         r.Img,
		types:       types,
		weaknesses:  weak,
		typeSet:     typeSet,
		weakSet:     weakSet,
		evolvesFrom: len(r.PrevEvolution) > 0,
		evolvesInto: len(r.NextEvolution) > 0,
	}, nil
}

// normalize trims, dedupes and sorts labels.
func normalize(in []string) ([]string, map[string]struct{}) {
	set := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := set[s]; dup {
			continue
		}
		set[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out, set
}

func (p Pokemon) Num() int { return p.num }

func (p Pokemon) Name() string { return p.name }

func (p Pokemon) Img() string { return p.img }

// Types returns a copy of the type labels, sorted.
func (p Pokemon) Types() []string { return append([]string(nil), p.types...) }

// Weaknesses returns a copy of the weakness labels, sorted.
func (p Pokemon) Weaknesses() []string { return append([]string(nil), p.weaknesses...) }

func (p Pokemon) HasType(t string) bool {
	_, ok := p.typeSet[t]
	return ok
}

func (p Pokemon) HasWeakness(w string) bool {
	_, ok := p.weakSet[w]
	return ok
}

func (p Pokemon) IsDualType() bool { return len(p.types) > 1 }

func (p Pokemon) WeaknessCount() int { return len(p.weaknesses) }

func (p Pokemon) EvolvesFrom() bool { return p.evolvesFrom }

func (p Pokemon) EvolvesInto() bool { return p.evolvesInto }
