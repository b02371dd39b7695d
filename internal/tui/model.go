package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"digest/internal/domain"
)

// DigestPort is the TUI-facing subset of the digest service.
type DigestPort interface {
	Analyze(ctx context.Context, text string, maxSentences int) (*domain.Summary, error)
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	ctx      context.Context
	service  DigestPort
	input    textinput.Model
	viewport viewport.Model
	docs     []domain.DocumentSummary
	status   string
	cursor   int
	ready    bool
}

// New creates a new TUI model over already summarized documents.
func New(ctx context.Context, service DigestPort, docs []domain.DocumentSummary) Model {
	ti := textinput.New()
	ti.Prompt = "max sentences> "
	ti.Placeholder = "number, then Enter"
	ti.Focus()
	ti.CharLimit = 4
	vp := viewport.New(0, 0)
	return Model{
		ctx:      ctx,
		service:  service,
		input:    ti,
		viewport: vp,
		docs:     docs,
		status:   fmt.Sprintf("Summarized %d document(s). Up/down to browse.", len(docs)),
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := rankingBoxStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		reserved := 3 + m.summaryLines(msg.Width) + qh + 1
		vh := msg.Height - reserved
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderRanking())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			m.resummarize(strings.TrimSpace(m.input.Value()))
			m.input.SetValue("")
			m.viewport.SetContent(m.renderRanking())
			m.viewport.GotoTop()
			return m, nil
		case "down":
			if len(m.docs) > 0 {
				m.cursor = (m.cursor + 1) % len(m.docs)
				m.viewport.SetContent(m.renderRanking())
				m.viewport.GotoTop()
				return m, nil
			}
		case "up":
			if len(m.docs) > 0 {
				m.cursor = (m.cursor - 1 + len(m.docs)) % len(m.docs)
				m.viewport.SetContent(m.renderRanking())
				m.viewport.GotoTop()
				return m, nil
			}
		case "pgdown", "pgup":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) resummarize(value string) {
	if value == "" || len(m.docs) == 0 {
		return
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		m.status = fmt.Sprintf("Error: %q is not a positive number", value)
		return
	}
	doc := m.docs[m.cursor].Document
	summary, err := m.service.Analyze(m.ctx, doc.Content, n)
	if err != nil {
		m.status = "Error: " + err.Error()
		return
	}
	m.docs[m.cursor].Summary = summary
	m.status = fmt.Sprintf("Re-summarized %s with at most %d sentence(s)", filepath.Base(doc.Path), n)
}

// View renders the TUI layout and current document.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Digest") + "  " + m.renderDocTitle()
	summary := summaryStyle.Width(m.viewport.Width).Render(m.currentSummaryText())
	ranking := rankingBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + summary + "\n" + ranking + "\n" + input + "\n" + status
}

func (m Model) renderDocTitle() string {
	if len(m.docs) == 0 {
		return "(no documents)"
	}
	return fmt.Sprintf("%d/%d %s", m.cursor+1, len(m.docs), m.docs[m.cursor].Document.Path)
}

func (m Model) currentSummary() *domain.Summary {
	if len(m.docs) == 0 {
		return nil
	}
	return m.docs[m.cursor].Summary
}

func (m Model) currentSummaryText() string {
	s := m.currentSummary()
	if s == nil || s.Text == "" {
		return "(empty summary)"
	}
	return s.Text
}

func (m Model) summaryLines(width int) int {
	if width <= 0 {
		return 1
	}
	return max(1, (len([]rune(m.currentSummaryText()))+width-1)/width)
}

func (m Model) renderRanking() string {
	s := m.currentSummary()
	if s == nil || len(s.Ranked) == 0 {
		return "No sentences."
	}
	selected := make(map[int]struct{}, len(s.Selected))
	for _, r := range s.Selected {
		selected[r.Index] = struct{}{}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d sentences, %d selected\n\n", s.SentenceCount, len(s.Selected))
	for rank, r := range s.Ranked {
		line := fmt.Sprintf("#%d [%d] score=%.3f  lex=%.3f freq=%.3f sem=%.3f pos=%.3f len=%.3f",
			rank+1, r.Index, r.Score, r.Signals.Lexical, r.Signals.Frequency,
			r.Signals.Semantic, r.Signals.Position, r.Signals.Length)
		for name, v := range r.Signals.Extra {
			line += fmt.Sprintf(" %s=%.3f", name, v)
		}
		text := r.Text
		if _, ok := selected[r.Index]; ok {
			line = highlightStyle.Render(line)
			text = highlightStyle.Render(text)
		}
		b.WriteString(line + "\n  " + text + "\n")
	}
	return b.String()
}

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	summaryStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	rankingBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)
