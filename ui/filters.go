package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/montrey/shelf/search"
)

type facetKind int

const (
	facetCategory facetKind = iota
	facetOrigin
	facetStatus
	facetType
	facetBrand
)

func (k facetKind) String() string {
	switch k {
	case facetCategory:
		return "Category"
	case facetOrigin:
		return "Origin"
	case facetStatus:
		return "Status"
	case facetType:
		return "Type"
	case facetBrand:
		return "Brand"
	}
	return "?"
}

type facetRow struct {
	kind  facetKind
	value search.FacetValue
}

// filtersModel is the facet picker. It edits a copy of the filter state that
// the caller applies when the picker closes.
type filtersModel struct {
	rows     []facetRow
	selected int
	filters  search.FilterState
}

func newFiltersModel(f search.Facets, filters search.FilterState) filtersModel {
	var rows []facetRow
	add := func(kind facetKind, values []search.FacetValue) {
		for _, v := range values {
			rows = append(rows, facetRow{kind: kind, value: v})
		}
	}
	add(facetCategory, f.Categories)
	add(facetOrigin, f.Origins)
	add(facetStatus, f.Statuses)
	add(facetType, f.Types)
	add(facetBrand, f.Brands)

	return filtersModel{rows: rows, filters: filters.Clone()}
}

func (m *filtersModel) move(delta int) {
	next := m.selected + delta
	if next >= 0 && next < len(m.rows) {
		m.selected = next
	}
}

func (m *filtersModel) facet(kind facetKind) *[]string {
	switch kind {
	case facetCategory:
		return &m.filters.Categories
	case facetOrigin:
		return &m.filters.Origins
	case facetStatus:
		return &m.filters.Statuses
	case facetType:
		return &m.filters.Types
	default:
		return &m.filters.Brands
	}
}

func (m *filtersModel) toggle() {
	if m.selected >= len(m.rows) {
		return
	}
	row := m.rows[m.selected]
	set := m.facet(row.kind)
	*set = search.Toggle(*set, row.value.Value)
}

// reset clears the facets, keeping the query and price range.
func (m *filtersModel) reset() {
	m.filters = search.FilterState{
		Search:      m.filters.Search,
		PriceRange:  m.filters.PriceRange,
		QuickFilter: m.filters.QuickFilter,
	}
}

func (m filtersModel) isOn(row facetRow) bool {
	return slices.Contains(*m.facet(row.kind), row.value.Value)
}

func (m filtersModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Render("Filters")
	help := dimStyle.Render("Space: toggle • R: reset • Esc/Enter: apply")

	var lines []string
	var last facetKind = -1
	for i, row := range m.rows {
		if row.kind != last {
			lines = append(lines, accentStyle.Render(row.kind.String()))
			last = row.kind
		}
		prefix := "  "
		if i == m.selected {
			prefix = "> "
		}
		box := "[ ]"
		if m.isOn(row) {
			box = "[x]"
		}
		line := fmt.Sprintf("%s%s %s (%d)", prefix, box, row.value.Label, row.value.Count)
		if i == m.selected {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = append(lines, "(no facets)")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		help,
		strings.Join(lines, "\n"),
	)
}
