// internal/simulate/simulate.go
//
// Batch simulator: plays one game per catalog entry with that entry as the
// secret, answering every question truthfully.
// Responsibilities:
//   - Enforce harness limits (step cap, no-progress streak).
//   - Classify each game: guessed, wrong guess, secret eliminated, stuck.
//   - Summarise success rate and games that took suspiciously long.

package simulate

import (
	"github.com/robalobadob/pokeguess/internal/game"
	"github.com/robalobadob/pokeguess/internal/pokemon"
)

// Limits bound a single simulated game.
type Limits struct {
	MaxSteps      int // give up after this many questions
	MaxNoProgress int // give up after this many answers in a row that removed nobody
	LongGame      int // games with more questions than this are reported
}

// DefaultLimits mirrors the thresholds the guesser is expected to meet.
func DefaultLimits() Limits {
	return Limits{MaxSteps: 40, MaxNoProgress: 5, LongGame: 20}
}

// Status of a simulated game.
type Status string

const (
	StatusGuessed    Status = "guessed"
	StatusWrongGuess Status = "wrong_guess"
	StatusEliminated Status = "eliminated" // the secret was filtered out
	StatusStepLimit  Status = "step_limit"
	StatusStuck      Status = "no_progress"
)

// Outcome of one simulated game.
type Outcome struct {
	Secret          pokemon.Pokemon
	Guess           pokemon.Pokemon // zero when no guess was made
	Status          Status
	Steps           int
	NumberQuestions int
	Asked           []string // question ids in order
}

// OK reports whether the guesser named the secret.
func (o Outcome) OK() bool { return o.Status == StatusGuessed }

// Report aggregates a batch run.
type Report struct {
	Outcomes  []Outcome
	Succeeded int
	Long      []Outcome // finished but took more than Limits.LongGame questions
	Failed    []Outcome
	OverQuota int // games that needed numeric questions beyond the budget
}

// SuccessRate is the fraction of games that ended in a correct guess.
func (r Report) SuccessRate() float64 {
	if len(r.Outcomes) == 0 {
		return 0
	}
	return float64(r.Succeeded) / float64(len(r.Outcomes))
}

// Play runs one game against secret.
func Play(eng *game.Engine, secret pokemon.Pokemon, lim Limits) Outcome {
	out := Outcome{Secret: secret}
	g := eng.Start()
	for !g.Done() {
		if out.Steps >= lim.MaxSteps {
			out.Status = StatusStepLimit
			break
		}
		q, ok := eng.Next(g)
		if !ok {
			break
		}
		g = g.Answer(q, q.Matches(secret))
		out.Steps++
		out.Asked = append(out.Asked, q.ID())

		if !contains(g.Remaining(), secret) {
			out.Status = StatusEliminated
			break
		}
		if lim.MaxNoProgress > 0 && g.NoProgressSteps() >= lim.MaxNoProgress {
			out.Status = StatusStuck
			break
		}
	}
	out.NumberQuestions = g.NumberQuestionsUsed()
	if out.Status != "" {
		return out
	}
	guess, ok := g.Guess()
	switch {
	case !ok:
		out.Status = StatusEliminated
	case guess.Num() != secret.Num():
		out.Guess, out.Status = guess, StatusWrongGuess
	default:
		out.Guess, out.Status = guess, StatusGuessed
	}
	return out
}

// Run plays one game per secret.
func Run(eng *game.Engine, secrets []pokemon.Pokemon, lim Limits) Report {
	var rep Report
	budget := eng.Config().MaxNumberQuestions
	for _, s := range secrets {
		o := Play(eng, s, lim)
		rep.Outcomes = append(rep.Outcomes, o)
		if o.OK() {
			rep.Succeeded++
			if o.Steps > lim.LongGame {
				rep.Long = append(rep.Long, o)
			}
		} else {
			rep.Failed = append(rep.Failed, o)
		}
		if o.NumberQuestions > budget {
			rep.OverQuota++
		}
	}
	return rep
}

func contains(ps []pokemon.Pokemon, p pokemon.Pokemon) bool {
	for _, c := range ps {
		if c.Num() == p.Num() {
			return true
		}
	}
	return false
}
