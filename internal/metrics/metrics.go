// internal/metrics/metrics.go
//
// Prometheus metrics for the guesser, served on /metrics.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/robalobadob/pokeguess/internal/game"
	"github.com/robalobadob/pokeguess/internal/store"
)

var (
	// gamesStarted counts new games.
	// Labels: mode (classic, daily)
	gamesStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pokeguess",
		Subsystem: "game",
		Name:      "started_total",
		Help:      "Total games started",
	}, []string{"mode"})

	// gamesFinished counts finished games.
	// Labels: outcome (guessed, no_guess)
	gamesFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pokeguess",
		Subsystem: "game",
		Name:      "finished_total",
		Help:      "Total games finished by outcome",
	}, []string{"outcome"})

	// questionsAsked counts questions handed to players.
	// Labels: kind (type, weakness, number, ...), source (strong, weak, number, fallback)
	questionsAsked = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pokeguess",
		Subsystem: "engine",
		Name:      "questions_total",
		Help:      "Questions selected by kind and selection rule",
	}, []string{"kind", "source"})

	// questionsPerGame is the distribution of game lengths.
	questionsPerGame = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pokeguess",
		Subsystem: "game",
		Name:      "questions",
		Help:      "Questions needed per finished game",
		Buckets:   []float64{2, 4, 6, 8, 10, 12, 15, 20, 30, 40},
	})

	// invalidStates counts rejected round-trip payloads.
	// Labels: reason (token, answer, snapshot, question)
	invalidStates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pokeguess",
		Subsystem: "roundtrip",
		Name:      "invalid_total",
		Help:      "Round-trip states rejected and restarted",
	}, []string{"reason"})
)

func GameStarted(mode string) { gamesStarted.WithLabelValues(mode).Inc() }

func QuestionSelected(sel game.Selection) {
	questionsAsked.WithLabelValues(sel.Question.Kind.String(), string(sel.Source)).Inc()
}

func GameFinished(outcome store.Outcome, questions int) {
	gamesFinished.WithLabelValues(string(outcome)).Inc()
	questionsPerGame.Observe(float64(questions))
}

func InvalidState(reason string) { invalidStates.WithLabelValues(reason).Inc() }
