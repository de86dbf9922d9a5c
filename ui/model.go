// Package ui is the interactive terminal search.
package ui

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/montrey/shelf/catalog"
	"github.com/montrey/shelf/search"
)

type suggestMsg struct {
	query   string
	entries []search.Entry
}

type viewMode int

const (
	modeBrowse viewMode = iota
	modeFilters
)

type Options struct {
	// Debounce is the quiet period before suggestions are computed.
	Debounce time.Duration
	// DropdownLimit caps the dropdown rows; 0 means no cap.
	DropdownLimit int
	// State is the search shown on start, typically decoded from a bookmark.
	State  search.State
	Logger *slog.Logger
}

type Model struct {
	engine    *search.Engine
	history   *search.History
	debouncer *search.Debouncer
	logger    *slog.Logger
	limit     int

	input    textinput.Model
	results  ResultsModel
	filters  filtersModel
	dropdown []search.Entry
	// dropSel is the highlighted dropdown row, -1 when the input has focus
	dropSel int

	state    search.State
	result   search.Result
	selected *catalog.Product
	mode     viewMode
	status   string
	width    int
	height   int
}

func New(engine *search.Engine, history *search.History, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Search products..."
	ti.Focus()
	ti.CharLimit = 156
	ti.Width = 40

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	state := opts.State
	if state.PerPage <= 0 {
		state.PerPage = engine.Codec().DefaultPerPage
	}
	if state.Page < 1 {
		state.Page = 1
	}
	if state.Sort == "" {
		state.Sort = search.SortRelevance
	}
	ti.SetValue(state.Filters.Search)

	m := Model{
		engine:    engine,
		history:   history,
		debouncer: search.NewDebouncer(opts.Debounce),
		logger:    logger,
		limit:     opts.DropdownLimit,
		input:     ti,
		results:   NewResultsModel(nil, 80, 20),
		dropSel:   -1,
		state:     state,
		mode:      modeBrowse,
	}
	m.runSearch()
	if state.Query() == "" {
		m.showHistory()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Selected returns the product picked with Enter, if any.
func (m Model) Selected() (catalog.Product, bool) {
	if m.selected == nil {
		return catalog.Product{}, false
	}
	return *m.selected, true
}

// State returns the current search as a query string.
func (m Model) State() string {
	return m.engine.Codec().Encode(m.state)
}

// Result returns the page currently shown.
func (m Model) Result() search.Result {
	return m.result
}

// Dropdown returns the rows currently offered under the search box.
func (m Model) Dropdown() []search.Entry {
	return m.dropdown
}

func (m *Model) runSearch() {
	m.result = m.engine.Search(m.state)
	m.state.Page = m.result.Page
	m.results = NewResultsModel(m.result.Items, m.results.Width, m.results.Height)
}

// submit searches for query and records it in the history.
func (m *Model) submit(query string) {
	query = strings.TrimSpace(query)
	m.input.SetValue(query)
	m.input.CursorEnd()
	m.debouncer.Cancel()
	m.closeDropdown()

	m.state.Filters.Search = query
	m.state.Page = 1
	m.runSearch()

	if query == "" || m.history == nil {
		return
	}
	if err := m.history.Record(query, m.result.Total); err != nil {
		m.logger.Warn("failed to record search history", "query", query, "error", err)
	}
}

func (m *Model) closeDropdown() {
	m.dropdown = nil
	m.dropSel = -1
}

func (m *Model) historyItems() []search.HistoryItem {
	if m.history == nil {
		return nil
	}
	return m.history.List()
}

// showHistory opens the dropdown with past searches, for an empty input.
func (m *Model) showHistory() {
	m.dropdown = m.engine.Dropdown("", m.historyItems(), m.limit)
	m.dropSel = -1
}

// scheduleSuggest computes dropdown rows for query once typing pauses. A
// newer keystroke supersedes it, in which case the command yields nothing.
func (m *Model) scheduleSuggest(query string) tea.Cmd {
	fired := m.debouncer.Schedule()
	engine := m.engine
	history := m.historyItems()
	limit := m.limit
	return func() tea.Msg {
		if !<-fired {
			return nil
		}
		return suggestMsg{query: query, entries: engine.Dropdown(query, history, limit)}
	}
}

func (m *Model) setSort(delta int) {
	modes := search.SortModes()
	idx := max(slices.Index(modes, m.state.Sort), 0)
	idx = (idx + delta + len(modes)) % len(modes)
	m.state.Sort = modes[idx]
	m.state.Page = 1
	m.runSearch()
}

func (m *Model) setPage(delta int) {
	m.state.Page += delta
	m.runSearch()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case suggestMsg:
		// Only the latest input gets a dropdown
		if msg.query == m.input.Value() {
			m.dropdown = msg.entries
			m.dropSel = -1
		}

	case tea.KeyMsg:
		if m.mode == modeFilters {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "esc", "enter", "ctrl+f":
				m.state.Filters = m.filters.filters
				m.state.Page = 1
				m.runSearch()
				m.mode = modeBrowse
			case "up":
				m.filters.move(-1)
			case "down":
				m.filters.move(1)
			case " ", "x":
				m.filters.toggle()
			case "r":
				m.filters.reset()
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c":
			m.debouncer.Cancel()
			return m, tea.Quit
		case "esc":
			if len(m.dropdown) > 0 {
				m.debouncer.Cancel()
				m.closeDropdown()
				return m, nil
			}
			m.debouncer.Cancel()
			return m, tea.Quit
		case "enter":
			if m.dropSel >= 0 && m.dropSel < len(m.dropdown) {
				m.submit(m.dropdown[m.dropSel].Text())
				return m, nil
			}
			if m.input.Value() != m.state.Filters.Search || len(m.dropdown) > 0 {
				m.submit(m.input.Value())
				return m, nil
			}
			if p, ok := m.results.SelectedProduct(); ok {
				m.selected = &p
				m.debouncer.Cancel()
				return m, tea.Quit
			}
			return m, nil
		case "up":
			if len(m.dropdown) > 0 {
				if m.dropSel >= 0 {
					m.dropSel--
				}
				return m, nil
			}
			m.results, cmd = m.results.Update(msg)
			cmds = append(cmds, cmd)
		case "down":
			if len(m.dropdown) > 0 {
				if m.dropSel < len(m.dropdown)-1 {
					m.dropSel++
				}
				return m, nil
			}
			m.results, cmd = m.results.Update(msg)
			cmds = append(cmds, cmd)
		case "ctrl+d":
			// Forget the highlighted history entry
			if m.dropSel >= 0 && m.dropSel < len(m.dropdown) && m.history != nil {
				if e, ok := m.dropdown[m.dropSel].(search.HistoryEntry); ok {
					if err := m.history.Remove(e.Item.Query); err != nil {
						m.logger.Warn("failed to remove history entry", "query", e.Item.Query, "error", err)
					}
					m.dropdown = slices.Delete(slices.Clone(m.dropdown), m.dropSel, m.dropSel+1)
					m.dropSel = min(m.dropSel, len(m.dropdown)-1)
				}
			}
		case "ctrl+k":
			if m.history != nil {
				if err := m.history.Clear(); err != nil {
					m.logger.Warn("failed to clear history", "error", err)
				}
				m.status = "history cleared"
			}
			m.dropdown = slices.DeleteFunc(slices.Clone(m.dropdown), func(e search.Entry) bool {
				return e.Kind() == search.KindHistory
			})
			m.dropSel = -1
		case "ctrl+s", "tab":
			m.setSort(1)
		case "shift+tab":
			m.setSort(-1)
		case "pgdown", "ctrl+n":
			m.setPage(1)
		case "pgup", "ctrl+p":
			m.setPage(-1)
		case "ctrl+f":
			m.debouncer.Cancel()
			m.closeDropdown()
			m.filters = newFiltersModel(m.engine.Facets(), m.state.Filters)
			m.mode = modeFilters
		default:
			oldValue := m.input.Value()
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)

			if newValue := m.input.Value(); newValue != oldValue {
				m.status = ""
				if strings.TrimSpace(newValue) == "" {
					m.debouncer.Cancel()
					m.showHistory()
				} else {
					cmds = append(cmds, m.scheduleSuggest(newValue))
				}
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Input, state line and footer
		listHeight := msg.Height - 4
		if listHeight > 0 {
			m.results.Width = msg.Width
			m.results.Height = listHeight
		}
		m.input.Width = msg.Width - 4
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.mode == modeFilters {
		return m.filters.View()
	}

	body := m.results.View()
	if len(m.dropdown) > 0 {
		body = m.dropdownView()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.input.View(),
		m.stateView(),
		body,
		m.footerView(),
	)
}

func (m Model) dropdownView() string {
	lines := make([]string, 0, len(m.dropdown))
	for i, e := range m.dropdown {
		prefix := "  "
		style := lipgloss.NewStyle()
		switch e := e.(type) {
		case search.HistoryEntry:
			style = historyStyle
			prefix = "↺ "
		case search.SuggestionEntry:
			style = dimStyle
			if e.Suggestion.Type != search.SuggestionProduct {
				prefix = "# "
			}
		}
		if i == m.dropSel {
			style = selectedStyle
			prefix = "> "
		}
		lines = append(lines, prefix+style.Render(search.Describe(e)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) stateView() string {
	summary := fmt.Sprintf("%d results • page %d/%d", m.result.Total, m.result.Page, m.result.Pages)
	if encoded := m.State(); encoded != "" {
		summary += " • ?" + encoded
	}
	if m.status != "" {
		summary += " • " + m.status
	}
	return dimStyle.Render(summary)
}

func (m Model) footerView() string {
	var tabs []string
	for _, s := range search.SortModes() {
		style := dimStyle
		if s == m.state.Sort {
			style = selectedStyle
		}
		tabs = append(tabs, style.Render("["+string(s)+"]"))
	}
	help := dimStyle.Render("Tab: sort • PgUp/PgDn: page • Ctrl+F: filters • Ctrl+K: clear history")
	return lipgloss.JoinHorizontal(lipgloss.Left, strings.Join(tabs, " "), "  ", help)
}
