package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/montrey/shelf/catalog"
)

var (
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	historyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	dealStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// ResultsModel is a scrollable list of products with one selected row.
type ResultsModel struct {
	Items    []catalog.Product
	Selected int
	Width    int
	Height   int

	// ScrollOffset is the index of the first visible row
	ScrollOffset int
}

func NewResultsModel(items []catalog.Product, width, height int) ResultsModel {
	return ResultsModel{
		Items:  items,
		Width:  width,
		Height: height,
	}
}

func (m ResultsModel) Update(msg tea.Msg) (ResultsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up":
			m.moveSelection(-1)
		case "down":
			m.moveSelection(1)
		case "home":
			m.Selected = 0
		case "end":
			m.Selected = max(len(m.Items)-1, 0)
		}
	}

	// Keep the selection in view
	if m.Selected < m.ScrollOffset {
		m.ScrollOffset = m.Selected
	}
	if m.Height > 0 && m.Selected >= m.ScrollOffset+m.Height {
		m.ScrollOffset = m.Selected - m.Height + 1
	}
	return m, nil
}

func (m *ResultsModel) moveSelection(delta int) {
	next := m.Selected + delta
	if next >= 0 && next < len(m.Items) {
		m.Selected = next
	}
}

// SelectedProduct returns the highlighted product, if any.
func (m ResultsModel) SelectedProduct() (catalog.Product, bool) {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return catalog.Product{}, false
	}
	return m.Items[m.Selected], true
}

func (m ResultsModel) View() string {
	if len(m.Items) == 0 {
		return dimStyle.Render("  no products match")
	}

	end := len(m.Items)
	if m.Height > 0 {
		end = min(end, m.ScrollOffset+m.Height)
	}

	lines := make([]string, 0, end-m.ScrollOffset)
	for i := m.ScrollOffset; i < end; i++ {
		lines = append(lines, m.renderRow(m.Items[i], i == m.Selected))
	}
	return strings.Join(lines, "\n")
}

func (m ResultsModel) renderRow(p catalog.Product, selected bool) string {
	cursor := "  "
	nameStyle := lipgloss.NewStyle()
	if selected {
		cursor = "> "
		nameStyle = selectedStyle
	}

	name := p.Name
	// Leave room for the price and rating columns
	if limit := m.Width - 40; limit > 8 && len([]rune(name)) > limit {
		name = string([]rune(name)[:limit-2]) + ".."
	}

	parts := []string{
		cursor + nameStyle.Render(name),
		accentStyle.Render(p.Category.Name),
		fmt.Sprintf("$%.2f", p.SellingPrice),
	}
	if d := p.Discount(); d > 0 {
		parts = append(parts, dealStyle.Render(fmt.Sprintf("-%.0f%%", d*100)))
	}
	parts = append(parts, dimStyle.Render(fmt.Sprintf("★ %.1f (%d)", p.Rating.Average, p.Rating.Count)))
	if p.Status != catalog.StatusAvailable {
		parts = append(parts, warnStyle.Render(statusLabel(p.Status)))
	}
	return strings.Join(parts, "  ")
}

func statusLabel(s catalog.Status) string {
	switch s {
	case catalog.StatusPreorder:
		return "pre-order"
	case catalog.StatusOutOfStock:
		return "out of stock"
	default:
		return string(s)
	}
}
