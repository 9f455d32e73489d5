package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"cool/internal/driver"
)

// Loading counts for the first half of the bar, solving for the second.
const loadShare = 0.5

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	prog    progress.Model
	files   []fileItem
	index   map[string]int
	stage   driver.Stage
	pass    int
	pending int
	queued  int // queue length after declaration
	width   int
	done    bool
}

type fileItem struct {
	path   string
	status driver.Status
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders resolver
// progress from events until the channel is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]fileItem, 0, len(files))
	index := make(map[string]int, len(files))
	for _, file := range files {
		if _, dup := index[file]; dup {
			continue
		}
		index[file] = len(items)
		items = append(items, fileItem{path: file, status: driver.StatusQueued})
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		files:   items,
		index:   index,
		stage:   driver.StageLoad,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(driver.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *progressModel) header() string {
	label := string(m.stage)
	switch m.stage {
	case driver.StageSolve:
		label = fmt.Sprintf("pass %d, %d pending", m.pass, m.pending)
	case driver.StageDeclare:
		label = "declaring"
	}
	return fmt.Sprintf("%s (%s)", m.title, label)
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.header()
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-16, 20)
	for _, item := range m.files {
		status := styleStatus(item.status).Render(fmt.Sprintf("%12s", item.status))
		fmt.Fprintf(&b, "  %s %s\n", status, Truncate(item.path, nameWidth))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	m.stage = ev.Stage
	switch ev.Stage {
	case driver.StageLoad:
		if idx, ok := m.index[ev.File]; ok {
			m.files[idx].status = ev.Status
		}
	case driver.StageDeclare:
		if ev.Status == driver.StatusDone {
			m.queued = ev.Pending
			m.pending = ev.Pending
		}
	case driver.StageSolve:
		if ev.Status == driver.StatusWorking {
			m.pass = ev.Pass
			m.pending = ev.Pending
		}
	}
	return m.prog.SetPercent(m.percent())
}

// percent: loaded files fill the first share; the queue draining fills the
// rest.
func (m *progressModel) percent() float64 {
	loaded := 1.0
	if len(m.files) > 0 {
		n := 0
		for _, f := range m.files {
			if f.status == driver.StatusDone || f.status == driver.StatusError {
				n++
			}
		}
		loaded = float64(n) / float64(len(m.files))
	}
	solved := 0.0
	switch {
	case m.stage == driver.StageLayout:
		solved = 1
	case m.stage == driver.StageSolve && m.queued > 0:
		solved = 1 - float64(m.pending)/float64(m.queued)
	}
	return loaded*loadShare + solved*(1-loadShare)
}

func styleStatus(status driver.Status) lipgloss.Style {
	switch status {
	case driver.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case driver.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case driver.StatusWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

// Truncate shortens value to width display cells, ending with "...".
func Truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
