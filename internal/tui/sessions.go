package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"critpace/internal/engine"
	"critpace/internal/service"
)

// SessionsModel is the session list screen model, with inline effort rating
type SessionsModel struct {
	queryService *service.QueryService
	estimator    *service.EstimatorService

	sessions []service.SessionWithRating
	cursor   int
	offset   int
	total    int
	pageSize int
	loading  bool
	err      error

	entering    bool
	ratingInput textinput.Model
	status      string
	statusIsErr bool
}

// NewSessionsModel creates a new sessions model
func NewSessionsModel(qs *service.QueryService, es *service.EstimatorService) SessionsModel {
	ti := textinput.New()
	ti.Placeholder = "1-10"
	ti.CharLimit = 2
	ti.Width = 4

	return SessionsModel{
		queryService: qs,
		estimator:    es,
		pageSize:     15,
		loading:      true,
		ratingInput:  ti,
	}
}

// EnteringRating reports whether the rating input currently has focus
func (m SessionsModel) EnteringRating() bool {
	return m.entering
}

// Init initializes the sessions screen
func (m SessionsModel) Init() tea.Cmd {
	return m.loadPage
}

type sessionsLoadedMsg struct {
	sessions []service.SessionWithRating
	total    int
	err      error
}

type ratingSubmittedMsg struct {
	result *service.RatingResult
	err    error
}

func (m SessionsModel) loadPage() tea.Msg {
	sessions, err := m.queryService.GetSessionsList(m.pageSize, m.offset)
	if err != nil {
		return sessionsLoadedMsg{err: err}
	}

	total, err := m.queryService.GetTotalSessionCount()
	if err != nil {
		return sessionsLoadedMsg{err: err}
	}

	return sessionsLoadedMsg{sessions: sessions, total: total}
}

// Update handles messages
func (m SessionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.sessions = msg.sessions
		m.total = msg.total

	case ratingSubmittedMsg:
		m.entering = false
		m.ratingInput.Blur()
		if msg.err != nil {
			m.status = fmt.Sprintf("Rating failed: %v", msg.err)
			m.statusIsErr = true
			return m, nil
		}
		m.status = outcomeMessage(msg.result)
		m.statusIsErr = false
		m.loading = true
		return m, m.loadPage

	case tea.KeyMsg:
		if m.entering {
			return m.updateRatingInput(msg)
		}

		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			} else if m.offset > 0 {
				m.offset -= m.pageSize
				m.cursor = m.pageSize - 1
				m.loading = true
				return m, m.loadPage
			}
		case "down", "j":
			if m.cursor < len(m.sessions)-1 {
				m.cursor++
			} else if m.offset+len(m.sessions) < m.total {
				m.offset += m.pageSize
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "pgup":
			if m.offset > 0 {
				m.offset -= m.pageSize
				if m.offset < 0 {
					m.offset = 0
				}
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "pgdown":
			if m.offset+m.pageSize < m.total {
				m.offset += m.pageSize
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "r":
			m.loading = true
			return m, m.loadPage
		case "enter", "e":
			if len(m.sessions) > 0 && m.cursor < len(m.sessions) {
				m.entering = true
				m.status = ""
				m.ratingInput.SetValue("")
				return m, m.ratingInput.Focus()
			}
		}
	}
	return m, nil
}

func (m SessionsModel) updateRatingInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.entering = false
		m.ratingInput.Blur()
		return m, nil
	case "enter":
		rating, err := strconv.Atoi(m.ratingInput.Value())
		if err != nil {
			m.status = "Enter a number from 1 to 10"
			m.statusIsErr = true
			return m, nil
		}
		sessionID := m.sessions[m.cursor].Session.ID
		return m, func() tea.Msg {
			result, err := m.estimator.SubmitRating(sessionID, rating)
			return ratingSubmittedMsg{result: result, err: err}
		}
	}

	var cmd tea.Cmd
	m.ratingInput, cmd = m.ratingInput.Update(msg)
	return m, cmd
}

// outcomeMessage describes what a rating did to the threshold estimate
func outcomeMessage(r *service.RatingResult) string {
	var msg string
	switch r.Outcome {
	case engine.RatingTightened:
		msg = "Felt easy: threshold nudged faster"
	case engine.RatingLoosened:
		msg = "Felt hard: threshold nudged slower"
	case engine.RatingValidated:
		msg = "Rating recorded: estimate holds"
	case engine.RatingSkipped:
		msg = "Rating recorded: session pace too far from threshold to calibrate"
	}
	if r.Redetected {
		msg += " (thresholds re-detected from history)"
	}
	return msg
}

// View renders the session list
func (m SessionsModel) View() string {
	if m.loading {
		return "\n  Loading sessions..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if len(m.sessions) == 0 {
		return "\n  No sessions found. Press 's' to sync with Strava."
	}

	var sections []string

	startNum := m.offset + 1
	endNum := m.offset + len(m.sessions)
	title := cardTitleStyle.Render(fmt.Sprintf("Sessions (%d-%d of %d)", startNum, endNum, m.total))
	sections = append(sections, title)

	header := tableHeaderStyle.Render(fmt.Sprintf("   %-10s  %-24s  %8s  %6s  %5s  %-14s  %6s",
		"Date", "Name", "Distance", "Pace", "HR", "Zone", "Rating"))
	sections = append(sections, header)

	for i, sr := range m.sessions {
		s := sr.Session

		pace := "-"
		if s.AverageSpeed > 0 {
			pace = formatPace(1000 / s.AverageSpeed)
		}

		hr := "-"
		if s.AverageHeartrate != nil {
			hr = fmt.Sprintf("%.0f", *s.AverageHeartrate)
		}

		zone := "-"
		if sr.Zone != nil {
			zone = fmt.Sprintf("Z%d %s", sr.Zone.Number, sr.Zone.Name)
		}

		rating := "-"
		if sr.Rating != nil {
			rating = fmt.Sprintf("%d", sr.Rating.Rating)
		}

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		row := fmt.Sprintf("%s%-10s  %-24s  %8s  %6s  %5s  %-14s  %6s",
			cursor,
			s.StartDate.Format("Jan 02"),
			truncateName(s.Name, 24),
			formatDistance(s.Distance),
			pace,
			hr,
			zone,
			rating,
		)

		if i == m.cursor {
			sections = append(sections, tableSelectedStyle.Render(row))
		} else {
			sections = append(sections, tableRowStyle.Render(row))
		}
	}

	if m.entering {
		prompt := fmt.Sprintf("\n  How hard did %q feel? (1 easy - 10 all-out): %s",
			truncateName(m.sessions[m.cursor].Session.Name, 24),
			m.ratingInput.View())
		sections = append(sections, prompt)
		sections = append(sections, statusStyle.Render("  enter: submit  esc: cancel"))
	} else if m.status != "" {
		if m.statusIsErr {
			sections = append(sections, errorStyle.Render("\n  "+m.status))
		} else {
			sections = append(sections, successStyle.Render("\n  "+m.status))
		}
	}

	help := statusStyle.Render("\n  enter/e: rate effort  j/k: navigate  pgup/pgdn: page  r: refresh")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
