package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"cncmacro/internal/pipeline"
)

type progressModel struct {
	title      string
	events     <-chan pipeline.Event
	spinner    spinner.Model
	prog       progress.Model
	items      []fileItem
	index      map[string]int
	stageLabel string
	width      int
	done       bool
}

type fileItem struct {
	path   string
	status string
	stage  pipeline.Stage
	err    string
}

type eventMsg pipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders per-file progress of
// a directory run. The model quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan pipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]fileItem, 0, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		items = append(items, fileItem{path: file, status: labelQueued})
		index[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.applyEvent(pipeline.Event(msg))
		return m, m.listenForEvent()
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
			m.prog.Width = max(msg.Width-4, 10)
		}
		return m, nil
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	finished, failed := m.counts()
	header := fmt.Sprintf("%s  %d/%d", m.title, finished, len(m.items))
	if failed > 0 {
		header += fmt.Sprintf(", %d failed", failed)
	}
	if m.stageLabel != "" && !m.done {
		header += " · " + m.stageLabel
	}
	lead := m.spinner.View()
	if m.done {
		lead = statusStyles[labelDone].Render("✓")
	}

	var b strings.Builder
	b.WriteString(lead + " " + titleStyle.Render(header) + "\n\n")

	nameWidth := max(m.width-statusColumn-4, 20)
	for _, item := range m.items {
		fmt.Fprintf(&b, "  %s %s", styleStatus(item.status).Render(fmt.Sprintf("%*s", statusColumn, item.status)), truncate(item.path, nameWidth))
		if item.err != "" {
			b.WriteString("  " + statusStyles[labelError].Render(item.err))
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	percent := m.percent()
	if m.done {
		percent = 1
	}
	b.WriteString(m.prog.ViewAs(percent))
	b.WriteByte('\n')
	return b.String()
}

// counts returns files that reached done or error, and the error share of them.
func (m *progressModel) counts() (finished, failed int) {
	for _, item := range m.items {
		switch item.status {
		case labelDone:
			finished++
		case labelError:
			finished++
			failed++
		}
	}
	return finished, failed
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

func (m *progressModel) applyEvent(ev pipeline.Event) {
	label := statusLabel(ev.Stage, ev.Status)
	if ev.File == "" {
		if label != "" {
			m.stageLabel = label
		}
		return
	}
	idx, ok := m.index[ev.File]
	if !ok {
		return
	}
	if label != "" {
		m.items[idx].status = label
		m.items[idx].stage = ev.Stage
	}
	if ev.Status == pipeline.StatusError && ev.Err != nil {
		m.items[idx].err = ev.Err.Error()
	}
}

// percent: законченные файлы дают 1, остальные долю своей стадии.
func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, item := range m.items {
		switch item.status {
		case labelDone, labelError:
			total++
		default:
			total += item.stage.Fraction()
		}
	}
	return total / float64(len(m.items))
}

const (
	labelQueued = "queued"
	labelDone   = "done"
	labelError  = "error"
)

func statusLabel(stage pipeline.Stage, status pipeline.Status) string {
	switch status {
	case pipeline.StatusQueued:
		return labelQueued
	case pipeline.StatusDone:
		return labelDone
	case pipeline.StatusError:
		return labelError
	case pipeline.StatusWorking:
		return stageLabel(stage)
	default:
		return ""
	}
}

func stageLabel(stage pipeline.Stage) string {
	switch stage {
	case pipeline.StageLoad:
		return "loading"
	case pipeline.StageParse:
		return "parsing"
	case pipeline.StageResolve:
		return "resolving"
	case pipeline.StageLint:
		return "linting"
	default:
		return ""
	}
}

const statusColumn = 10

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	statusStyles = map[string]lipgloss.Style{
		labelQueued: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		labelDone:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		labelError:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

func styleStatus(status string) lipgloss.Style {
	if st, ok := statusStyles[status]; ok {
		return st
	}
	return workingStyle
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	// путь обрезаем слева: имя файла важнее каталога
	tail := []rune(value)
	for runewidth.StringWidth(string(tail)) > width-3 {
		tail = tail[1:]
	}
	return "..." + string(tail)
}
