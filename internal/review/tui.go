package review

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jobsift/jobsift/internal/model"
)

// StatusStore is the slice of the seen store the review flow writes through.
type StatusStore interface {
	SetStatus(url string, status model.Status) error
}

// Lines per entry in the list (title + subtitle + blank separator).
const entryHeight = 3

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	entryTitleStyle = lipgloss.NewStyle().
			Bold(true)

	entrySubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	statusStyles = map[model.Status]lipgloss.Style{
		model.StatusNew:          lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		model.StatusApplied:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		model.StatusSkipped:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		model.StatusInterviewing: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
)

type reviewModel struct {
	entries  []model.SeenEntry
	store    StatusStore
	viewport viewport.Model
	cursor   int
	width    int
	height   int
	ready    bool
	errMsg   string
}

func (m reviewModel) Init() tea.Cmd {
	return nil
}

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			m.moveCursor(-1)
			return m, nil
		case "down", "j":
			m.moveCursor(1)
			return m, nil
		case "a":
			m.setStatus(model.StatusApplied)
			return m, nil
		case "s":
			m.setStatus(model.StatusSkipped)
			return m, nil
		case "i":
			m.setStatus(model.StatusInterviewing)
			return m, nil
		case "n":
			m.setStatus(model.StatusNew)
			return m, nil
		case "o":
			if len(m.entries) > 0 {
				openURL(m.entries[m.cursor].URL)
			}
			return m, nil
		}

		// Forward other keys (pgup/pgdn/home/end) to the viewport.
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *reviewModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(len(m.entries)-1, 0))
	m.recalcContent()
	m.ensureCursorVisible()
}

// setStatus writes the status for the entry under the cursor through the
// ledger, then mirrors it in the list.
func (m *reviewModel) setStatus(status model.Status) {
	if len(m.entries) == 0 {
		return
	}
	e := &m.entries[m.cursor]
	if err := m.store.SetStatus(e.URL, status); err != nil {
		m.errMsg = fmt.Sprintf("saving status: %v", err)
		return
	}
	m.errMsg = ""
	e.Status = status
	m.recalcContent()
}

func (m *reviewModel) ensureCursorVisible() {
	cursorTop := m.cursor * entryHeight
	cursorBottom := cursorTop + entryHeight - 1

	if cursorTop < m.viewport.YOffset {
		m.viewport.SetYOffset(cursorTop)
	} else if cursorBottom >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(cursorBottom - m.viewport.Height + 1)
	}
}

func (m *reviewModel) recalcLayout() {
	// Header (1) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	vpWidth := max(m.width-2, 20)
	vpHeight := max(m.height-4, 5)

	if !m.ready {
		m.viewport = viewport.New(vpWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = vpWidth
		m.viewport.Height = vpHeight
	}

	m.recalcContent()
}

func (m *reviewModel) recalcContent() {
	m.viewport.SetContent(renderEntries(m.entries, m.cursor))
}

func (m reviewModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := headerStyle.Render(fmt.Sprintf(" Recent Listings (%d)", len(m.entries)))
	list := borderStyle.Width(m.viewport.Width).Render(m.viewport.View())

	statusText := " a applied  s skipped  i interviewing  n new  o open  ↑/↓ cursor  q quit"
	if m.errMsg != "" {
		statusText = " " + errorStyle.Render("⚠ "+m.errMsg)
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return header + "\n" + list + "\n" + statusBar
}

func renderEntries(entries []model.SeenEntry, cursor int) string {
	if len(entries) == 0 {
		return "  (no listings yet, run `jobsift run` first)"
	}

	var b strings.Builder
	for i, e := range entries {
		titleSt := entryTitleStyle
		subtitleSt := entrySubtitleStyle
		prefix := "  "
		if i == cursor {
			titleSt = selectedTitleStyle
			subtitleSt = selectedSubtitleStyle
			prefix = "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(e.Title))
		b.WriteString("  ")
		b.WriteString(statusStyles[e.Status].Render(string(e.Status)))
		b.WriteByte('\n')

		subtitle := fmt.Sprintf("%s · %.0f/100 · %s · %s",
			e.Company, e.Score, e.Source, e.FirstSeen.Format("2006-01-02"))
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(subtitle))
		b.WriteByte('\n')

		if i < len(entries)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// Run launches the review TUI over the given entries. Status changes are
// written through immediately; quitting needs no save step.
func Run(entries []model.SeenEntry, store StatusStore) error {
	m := reviewModel{entries: entries, store: store}
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running review ui: %w", err)
	}
	return nil
}
