package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/robalobadob/pokeguess/internal/game"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Think of a Pokémon and answer yes/no until the guesser names it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, eng, err := loadEngine()
		if err != nil {
			return err
		}
		_, err = tea.NewProgram(newPlayModel(eng)).Run()
		return err
	},
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFCB05")).
			Bold(true)

	questionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)

	historyStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3D7DCA")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)
)

type turn struct {
	question string
	answer   bool
}

// playModel is the bubbletea model for one interactive game.
type playModel struct {
	engine  *game.Engine
	game    *game.Game
	pending game.Question
	asking  bool
	history []turn
}

func newPlayModel(eng *game.Engine) playModel {
	m := playModel{engine: eng}
	m.restart()
	return m
}

func (m *playModel) restart() {
	m.game = m.engine.Start()
	m.history = nil
	m.next()
}

func (m *playModel) next() {
	m.pending, m.asking = m.engine.Next(m.game)
}

func (m playModel) Init() tea.Cmd { return nil }

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch strings.ToLower(key.String()) {
	case "ctrl+c", "esc", "q":
		return m, tea.Quit
	case "r":
		m.restart()
	case "y", "n":
		if !m.asking {
			return m, nil
		}
		yes := strings.ToLower(key.String()) == "y"
		m.history = append(m.history, turn{question: m.pending.Prompt(), answer: yes})
		m.game = m.game.Answer(m.pending, yes)
		m.next()
	}
	return m, nil
}

func (m playModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Think of a Pokémon!"))
	b.WriteString("\n\n")

	if len(m.history) > 0 {
		lines := make([]string, 0, len(m.history))
		for i, t := range m.history {
			a := "no"
			if t.answer {
				a = "yes"
			}
			lines = append(lines, fmt.Sprintf("%2d. %s %s", i+1, t.question, a))
		}
		b.WriteString(historyStyle.Render(strings.Join(lines, "\n")))
		b.WriteString("\n\n")
	}

	if m.asking {
		b.WriteString(questionStyle.Render(m.pending.Prompt()))
		b.WriteString(fmt.Sprintf("\n%d candidates left\n\n", len(m.game.Remaining())))
		b.WriteString(helpStyle.Render("y: yes • n: no • r: restart • q: quit"))
		return b.String()
	}

	if p, ok := m.game.Guess(); ok {
		b.WriteString(resultStyle.Render(fmt.Sprintf("Is it %s (#%03d)?", p.Name(), p.Num())))
		b.WriteString(fmt.Sprintf("\nGot there in %d questions.\n\n", len(m.game.Asked())))
	} else {
		b.WriteString(resultStyle.Render("No Pokémon matches those answers."))
		b.WriteString("\n\n")
	}
	b.WriteString(helpStyle.Render("r: play again • q: quit"))
	return b.String()
}
