package ui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kestrelhq/kestrel/internal/bus"
	"github.com/kestrelhq/kestrel/internal/geo"
	"github.com/kestrelhq/kestrel/internal/state"
)

// Filter form field order.
const (
	fieldCollection = iota
	fieldQuery
	fieldDateStart
	fieldDateEnd
	fieldCloudCover
	fieldBBox
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"collection",
	"query",
	"date from (YYYY-MM-DD)",
	"date to   (YYYY-MM-DD)",
	"max cloud cover %",
	"bbox (west,south,east,north)",
}

// filterForm is the modal filter editor.
type filterForm struct {
	active bool
	inputs [fieldCount]textinput.Model
	focus  int
	err    string
}

func newFilterForm() filterForm {
	var f filterForm
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = "> "
		in.CharLimit = 120
		f.inputs[i] = in
	}
	return f
}

// open populates the form from the current state and focuses the first field.
func (f *filterForm) open(snap state.AppState) {
	f.inputs[fieldCollection].SetValue(snap.CollectionID)
	f.inputs[fieldQuery].SetValue(snap.Query)
	f.inputs[fieldDateStart].SetValue(snap.DateStart)
	f.inputs[fieldDateEnd].SetValue(snap.DateEnd)
	if snap.CloudCoverMax != nil {
		f.inputs[fieldCloudCover].SetValue(strconv.Itoa(*snap.CloudCoverMax))
	} else {
		f.inputs[fieldCloudCover].SetValue("")
	}
	if snap.BBox != nil {
		f.inputs[fieldBBox].SetValue(snap.BBox.String())
	} else {
		f.inputs[fieldBBox].SetValue("")
	}
	f.err = ""
	f.focus = 0
	f.active = true
	f.setFocus(0)
}

func (f *filterForm) setFocus(idx int) {
	f.focus = idx
	for i := range f.inputs {
		if i == idx {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

// handleFilterKey processes keys while the filter form is open.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filterForm.active = false
		return m, nil

	case "tab", "down":
		m.filterForm.setFocus((m.filterForm.focus + 1) % fieldCount)
		return m, nil

	case "shift+tab", "up":
		m.filterForm.setFocus((m.filterForm.focus + fieldCount - 1) % fieldCount)
		return m, nil

	case "enter":
		if m.filterForm.focus < fieldCount-1 {
			m.filterForm.setFocus(m.filterForm.focus + 1)
			return m, nil
		}
		if err := m.applyFilters(); err != "" {
			m.filterForm.err = err
			return m, nil
		}
		m.filterForm.active = false
		return m, m.runSearch()
	}

	var cmd tea.Cmd
	m.filterForm.inputs[m.filterForm.focus], cmd = m.filterForm.inputs[m.filterForm.focus].Update(msg)
	return m, cmd
}

// applyFilters validates the form and writes it into the state. It returns
// a non-empty message on the first invalid field.
func (m *Model) applyFilters() string {
	collection := strings.TrimSpace(m.filterForm.inputs[fieldCollection].Value())
	query := strings.TrimSpace(m.filterForm.inputs[fieldQuery].Value())

	dateStart := strings.TrimSpace(m.filterForm.inputs[fieldDateStart].Value())
	if dateStart != "" {
		if _, err := time.Parse("2006-01-02", dateStart); err != nil {
			return "invalid start date: " + dateStart
		}
	}
	dateEnd := strings.TrimSpace(m.filterForm.inputs[fieldDateEnd].Value())
	if dateEnd != "" {
		if _, err := time.Parse("2006-01-02", dateEnd); err != nil {
			return "invalid end date: " + dateEnd
		}
	}

	var cloudCover *int
	if raw := strings.TrimSpace(m.filterForm.inputs[fieldCloudCover].Value()); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 || v > 100 {
			return "cloud cover must be 0-100"
		}
		cloudCover = &v
	}

	var box *geo.BBox
	if raw := strings.TrimSpace(m.filterForm.inputs[fieldBBox].Value()); raw != "" {
		b, err := geo.ParseBBox(raw)
		if err != nil {
			return "invalid bbox: " + err.Error()
		}
		box = &b
	}

	m.store.Mutate(func(s *state.AppState) {
		s.CollectionID = collection
		s.Query = query
		s.DateStart = dateStart
		s.DateEnd = dateEnd
		s.CloudCoverMax = cloudCover
		if box != nil {
			s.SetBBox(*box)
		} else if s.Geometry == nil {
			s.ClearSpatial()
		}
	})
	if err := m.bus.Publish(bus.TopicFiltersChanged, bus.FiltersChanged{Field: "form"}); err != nil {
		m.setStatus("filter event lost: " + err.Error())
	}
	return ""
}

func (m Model) renderFilterForm() string {
	var b strings.Builder
	b.WriteString(m.styles.AccentText.Render("filters"))
	b.WriteString("\n\n")
	for i := range m.filterForm.inputs {
		label := fieldLabels[i]
		if i == m.filterForm.focus {
			b.WriteString(m.styles.Text.Render(label))
		} else {
			b.WriteString(m.styles.MutedText.Render(label))
		}
		b.WriteString("\n")
		b.WriteString(m.filterForm.inputs[i].View())
		b.WriteString("\n")
	}
	if m.filterForm.err != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.DangerText.Render(m.filterForm.err))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.MutedText.Render("enter to apply, esc to cancel"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String(),
		lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.Background)))
}
