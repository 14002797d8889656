// Package tui implements the catalog browser: a scrollable list of model
// records with incremental search. Selecting a record exits the program
// loop so the viewer session can take over the terminal.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Amirkhon3223/first3d/pkg/catalog"
)

type mode int

const (
	modeList mode = iota
	modeSearch
)

type Model struct {
	records  []catalog.Record
	filtered []catalog.Record
	cursor   int
	offset   int // scroll offset
	width    int
	height   int
	mode     mode

	searchInput textinput.Model

	loadErr  error
	selected *catalog.Record
	quitting bool
}

// NewModel builds the browser over catalog records, in catalog order.
// A non-nil loadErr renders an error banner instead of the list.
func NewModel(records []catalog.Record, loadErr error) Model {
	si := textinput.New()
	si.Placeholder = "search..."
	si.CharLimit = 100

	m := Model{
		records:     records,
		searchInput: si,
		loadErr:     loadErr,
		width:       80,
		height:      24,
	}
	m.applyFilter()
	return m
}

func (m *Model) applyFilter() {
	m.filtered = nil
	search := strings.ToLower(m.searchInput.Value())

	for _, r := range m.records {
		if search != "" {
			haystack := strings.ToLower(r.Name + " " + r.File)
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		m.filtered = append(m.filtered, r)
	}

	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
	m.clampOffset()
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampOffset()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeList:
			return m.updateList(msg)
		case modeSearch:
			return m.updateSearch(msg)
		}
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.clampOffset()
		}

	case "down", "j":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
			m.clampOffset()
		}

	case "home", "g":
		m.cursor = 0
		m.clampOffset()

	case "end", "G":
		m.cursor = max(0, len(m.filtered)-1)
		m.clampOffset()

	case "enter":
		if len(m.filtered) > 0 {
			r := m.filtered[m.cursor]
			m.selected = &r
			m.quitting = true
			return m, tea.Quit
		}

	case "/":
		m.searchInput.Focus()
		m.mode = modeSearch
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.searchInput.Blur()
		m.mode = modeList
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := titleStyle.Render("first3d")
	count := dimStyle.Render(fmt.Sprintf("  %d models", len(m.filtered)))
	b.WriteString(title + count + "\n")

	if m.loadErr != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("  catalog unavailable: " + m.loadErr.Error()))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("  q: quit"))
		return b.String()
	}

	b.WriteString(m.renderHeader() + "\n")

	visible := m.visibleRows()
	end := min(m.offset+visible, len(m.filtered))

	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(m.filtered[i], i == m.cursor) + "\n")
	}

	if len(m.filtered) == 0 {
		b.WriteString(dimStyle.Render("  no models match") + "\n")
	}

	// pad remaining rows
	for i := end - m.offset; i < visible; i++ {
		b.WriteString("\n")
	}

	if m.mode == modeSearch {
		b.WriteString(statusBarStyle.Render("Search: ") + m.searchInput.View())
	} else {
		b.WriteString(helpStyle.Render("  Enter: view  /: search  q: quit"))
	}

	return b.String()
}

func (m Model) renderHeader() string {
	w := m.colWidths()
	cols := []string{
		pad("Name", w.name),
		pad("File", w.file),
	}
	return headerStyle.Render(strings.Join(cols, " "))
}

func (m Model) renderRow(r catalog.Record, selected bool) string {
	w := m.colWidths()
	cols := []string{
		pad(r.Name, w.name),
		pad(r.File, w.file),
	}
	row := strings.Join(cols, " ")

	if selected {
		row = selectedStyle.Render(row)
		row = lipgloss.PlaceHorizontal(m.width, lipgloss.Left, row)
	}

	return row
}

type colWidths struct {
	name int
	file int
}

func (m Model) colWidths() colWidths {
	w := colWidths{name: 28}
	w.file = m.width - w.name - 4
	if w.file < 16 {
		w.file = 16
	}
	return w
}

func (m Model) visibleRows() int {
	// total height minus title, header, bottom bar
	rows := m.height - 4
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *Model) clampOffset() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// Selected returns the record picked with Enter, if any.
func (m Model) Selected() (catalog.Record, bool) {
	if m.selected == nil {
		return catalog.Record{}, false
	}
	return *m.selected, true
}

func pad(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return string(runes[:width])
	}
	return s + strings.Repeat(" ", width-len(runes))
}
