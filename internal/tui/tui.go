package tui

import (
	"fmt"
	"strings"
	"time"

	"codeberg.org/pixelmind/server/internal/config"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	maxBarWidth = 60
	barPadding  = 24
)

// returns a new quota viewer for the given flags
func NewApp(flags config.ViewerFlags) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = infoStyle

	refresh := flags.Refresh
	if refresh <= 0 {
		refresh = config.DefaultViewerFlags().Refresh
	}

	return &Model{
		client:   NewUsageClient(flags.Endpoint, flags.Token),
		refresh:  refresh,
		now:      time.Now,
		spinner:  s,
		imageBar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxBarWidth)),
		videoBar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxBarWidth)),
		loading:  true,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.client.FetchCmd())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "r":
			if m.loading {
				return m, nil
			}

			m.loading = true
			return m, m.client.FetchCmd()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		width := min(maxBarWidth, max(msg.Width-barPadding, 10))
		m.imageBar.Width = width
		m.videoBar.Width = width

	case UsageMsg:
		usage := msg.Usage
		m.usage = &usage
		m.history = msg.History
		m.loading = false
		m.err = nil
		m.updated = m.now()

		return m, m.scheduleRefresh()

	case ErrorMsg:
		m.err = msg.err
		m.loading = false

		return m, m.scheduleRefresh()

	case refreshMsg:
		m.loading = true
		return m, m.client.FetchCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(logo))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("daily generation quota"))
	b.WriteString("\n")

	switch {
	case m.usage == nil && m.err == nil:
		b.WriteString(m.spinner.View() + infoStyle.Render(" loading usage..."))
		b.WriteString("\n")

	case m.usage != nil:
		b.WriteString(infoStyle.Render(fmt.Sprintf("day %s (UTC), resets in %s", m.usage.Date, formatCountdown(untilReset(m.now())))))
		b.WriteString("\n\n")
		b.WriteString(m.renderResource("images", m.imageBar, m.usage.Image))
		b.WriteString("\n")
		b.WriteString(m.renderResource("videos", m.videoBar, m.usage.Video))
		b.WriteString("\n")
		b.WriteString(renderHistory(m.history))
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(m.statusLine())

	return b.String()
}

func (m *Model) statusLine() string {
	help := fmt.Sprintf("r to refresh, q to quit. auto refresh every %s.", m.refresh)

	if m.loading && m.usage != nil {
		return "\n" + m.spinner.View() + helpStyle.Render(" refreshing... "+help)
	}

	if !m.updated.IsZero() {
		help = fmt.Sprintf("updated %s. %s", m.updated.Format("15:04:05"), help)
	}

	return "\n" + helpStyle.Render(help)
}

func (m *Model) renderResource(label string, bar progress.Model, status ResourceStatus) string {
	counts := fmt.Sprintf("%d / %d", status.Used, status.Limit)

	line := labelStyle.Render(label) + bar.ViewAs(usageRatio(status)) + countStyle.Render(counts)
	if !status.Allowed {
		return line + exhaustedStyle.Render("limit reached")
	}

	return line + countStyle.Render(fmt.Sprintf("(%d left)", status.Remaining))
}

func (m *Model) scheduleRefresh() tea.Cmd {
	return tea.Tick(m.refresh, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}
