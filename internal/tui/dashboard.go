package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"critpace/internal/service"
)

// DashboardModel is the dashboard screen model
type DashboardModel struct {
	queryService *service.QueryService
	data         *service.DashboardData
	loading      bool
	err          error
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(qs *service.QueryService) DashboardModel {
	return DashboardModel{
		queryService: qs,
		loading:      true,
	}
}

// Init initializes the dashboard
func (m DashboardModel) Init() tea.Cmd {
	return m.loadData
}

func (m DashboardModel) loadData() tea.Msg {
	data, err := m.queryService.GetDashboardData()
	if err != nil {
		return dashboardDataMsg{err: err}
	}
	return dashboardDataMsg{data: data}
}

type dashboardDataMsg struct {
	data *service.DashboardData
	err  error
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.data = msg.data
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		}
	}
	return m, nil
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if m.loading {
		return "\n  Loading dashboard..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.data == nil || m.data.SessionCount == 0 {
		return "\n  No sessions yet. Press 's' to sync with Strava."
	}

	var sections []string

	if m.data.State == nil {
		sections = append(sections, m.renderNoEstimate())
	} else {
		thresholdCard := m.renderThresholdCard()
		zonesCard := m.renderZonesCard()
		topRow := lipgloss.JoinHorizontal(lipgloss.Top, thresholdCard, "  ", zonesCard)
		sections = append(sections, topRow)
	}

	if len(m.data.HeartRateSeries) > 2 {
		sections = append(sections, m.renderChart())
	}

	if len(m.data.RecentSessions) > 0 {
		sections = append(sections, m.renderRecentSessions())
	}

	sections = append(sections, m.renderStatusCard())

	help := statusStyle.Render("Press 'r' to refresh, '2' to rate sessions, 's' to sync")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderNoEstimate() string {
	title := cardTitleStyle.Render("Thresholds")

	lines := []string{
		"Not enough usable sessions to estimate thresholds yet.",
		"",
		statusStyle.Render("Keep logging runs with heart-rate data, then sync again."),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderThresholdCard() string {
	title := cardTitleStyle.Render("Thresholds")
	st := m.data.State

	lines := []string{
		RenderMetric("Critical pace", formatPaceWithUnit(st.Threshold.AnaerobicPaceSec)),
		RenderMetric("  at heart rate", fmt.Sprintf("%.0f bpm", st.Threshold.AnaerobicHR)),
		RenderMetric("Aerobic pace", formatPaceWithUnit(st.Threshold.AerobicPaceSec)),
		RenderMetric("  at heart rate", fmt.Sprintf("%.0f bpm", st.Threshold.AerobicHR)),
		"",
		RenderMetric("Method", string(st.Threshold.Method)),
		RenderMetric("Samples used", fmt.Sprintf("%d", st.SampleCount)),
		RenderMetric("Computed", formatWhen(st.ComputedAt)),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(42).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderZonesCard() string {
	title := cardTitleStyle.Render("Training Zones")

	var lines []string
	for _, z := range m.data.State.Zones.Zones {
		label := fmt.Sprintf("Z%d %s", z.Number, z.Name)
		lines = append(lines, RenderMetric(label, formatPaceBand(z.SlowSec, z.FastSec)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(48).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderChart() string {
	title := cardTitleStyle.Render("Heart Rate Across Paces (slow to fast)")

	graph := asciigraph.Plot(m.data.HeartRateSeries,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(0),
	)

	caption := statusStyle.Render("The kink in this curve is where your thresholds live.")

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph, caption))
}

func (m DashboardModel) renderRecentSessions() string {
	title := cardTitleStyle.Render("Recent Sessions")

	var lines []string
	for _, sr := range m.data.RecentSessions {
		s := sr.Session

		pace := "-"
		if s.AverageSpeed > 0 {
			pace = formatPace(1000 / s.AverageSpeed)
		}

		zone := ""
		if sr.Zone != nil {
			zone = fmt.Sprintf("Z%d", sr.Zone.Number)
		}

		lines = append(lines, fmt.Sprintf("%-10s  %-24s  %8s  %6s  %6s  %3s",
			s.StartDate.Format("Jan 02"),
			truncateName(s.Name, 24),
			formatDistance(s.Distance),
			formatDuration(s.MovingTime),
			pace,
			zone,
		))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderStatusCard() string {
	title := cardTitleStyle.Render("Data")

	lines := []string{
		RenderMetric("Sessions stored", fmt.Sprintf("%d", m.data.SessionCount)),
		RenderMetric("Ratings given", fmt.Sprintf("%d", m.data.RatingCount)),
		RenderMetric("Last sync", formatWhen(m.data.LastSync)),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}
