package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"nixkit/internal/driver"
)

const statusWidth = 10

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	statusColors = map[driver.Status]lipgloss.Color{
		driver.StatusQueued:  "7",
		driver.StatusWorking: "6",
		driver.StatusDone:    "2",
		driver.StatusError:   "1",
	}
	stageLabels = map[driver.Stage]string{
		driver.StageLoad:    "loading",
		driver.StageAnalyze: "analyzing",
		driver.StageAssists: "assists",
	}
	// доля работы, сделанной к началу стадии
	stageWeights = map[driver.Stage]float64{
		driver.StageAnalyze: 0.2,
		driver.StageAssists: 0.7,
	}
)

// fileRow is the last known state of one file.
type fileRow struct {
	path   string
	status driver.Status
	stage  driver.Stage
	offers int
}

func (r fileRow) final() bool {
	return r.status == driver.StatusDone || r.status == driver.StatusError
}

func (r fileRow) label() string {
	if r.status == driver.StatusWorking {
		return stageLabels[r.stage]
	}
	return string(r.status)
}

func (r fileRow) progress() float64 {
	if r.final() {
		return 1
	}
	if r.status == driver.StatusWorking {
		return stageWeights[r.stage]
	}
	return 0
}

type progressModel struct {
	title  string
	events <-chan driver.ProgressEvent
	rows   []fileRow
	byPath map[string]int

	spin  spinner.Model
	bar   progress.Model
	width int

	offers int
	failed int
	done   bool
}

type (
	eventMsg  driver.ProgressEvent
	closedMsg struct{}
)

// NewProgressModel returns a Bubble Tea model that renders check progress
// for files. It quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.ProgressEvent) tea.Model {
	m := &progressModel{
		title:  title,
		events: events,
		rows:   make([]fileRow, len(files)),
		byPath: make(map[string]int, len(files)),
		spin:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		width:  80,
	}
	m.spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	for i, f := range files {
		m.rows[i] = fileRow{path: f, status: driver.StatusQueued}
		m.byPath[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.waitEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.ProgressEvent(msg)), m.waitEvent())
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			break
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	}
	return m, nil
}

// waitEvent blocks on the next event; a closed channel ends the program.
func (m *progressModel) waitEvent() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return closedMsg{}
	}
}

func (m *progressModel) apply(ev driver.ProgressEvent) tea.Cmd {
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	row := &m.rows[i]
	row.status, row.stage = ev.Status, ev.Stage
	switch ev.Status {
	case driver.StatusDone:
		row.offers = ev.Offers
		m.offers += ev.Offers
	case driver.StatusError:
		m.failed++
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) finished() int {
	n := 0
	for _, r := range m.rows {
		if r.final() {
			n++
		}
	}
	return n
}

func (m *progressModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range m.rows {
		sum += r.progress()
	}
	return sum / float64(len(m.rows))
}

func (m *progressModel) header() string {
	h := fmt.Sprintf("%s (%d/%d, %d assists)", m.title, m.finished(), len(m.rows), m.offers)
	if m.failed > 0 {
		h += fmt.Sprintf(", %d failed", m.failed)
	}
	if m.done {
		return "done: " + h
	}
	return m.spin.View() + " " + h
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	lines := []string{headerStyle.Render(m.header()), ""}
	nameWidth := max(m.width-statusWidth-12, 20)
	for _, r := range m.rows {
		status := lipgloss.NewStyle().Foreground(statusColors[r.status]).
			Render(fmt.Sprintf("%*s", statusWidth, r.label()))
		line := "  " + status + " " + truncate(r.path, nameWidth)
		if r.offers > 0 {
			line += fmt.Sprintf(" (%d)", r.offers)
		}
		lines = append(lines, line)
	}
	bar := m.bar.View()
	if m.done {
		bar = m.bar.ViewAs(1)
	}
	lines = append(lines, "", bar)
	return strings.Join(lines, "\n") + "\n"
}

// truncate shortens value to width terminal cells, marking the cut with "...".
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	tail := "..."
	if width <= len(tail) {
		tail = ""
	}
	return runewidth.Truncate(value, width, tail)
}
