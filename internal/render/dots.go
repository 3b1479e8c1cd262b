package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ppiankov/liarlens/internal/aggregate"
	"github.com/ppiankov/liarlens/internal/model"
)

// Glyph marks one unit cell in dot mode
const Glyph = "●"

// Run is a contiguous stretch of cells of one category
type Run struct {
	Category model.Category
	Count    int
}

// Runs lists one run per category in display order, each as long as the
// category's scaled count. Empty runs are kept so callers can rely on the
// category position.
func Runs(c aggregate.Counts, hideOthers bool) []Run {
	runs := make([]Run, 0, model.NumCategories)
	for _, cat := range model.Categories {
		if cat == model.CatOthers && hideOthers {
			break
		}
		runs = append(runs, Run{Category: cat, Count: c.Scaled[cat]})
	}
	return runs
}

// Rows splits the runs into rows of at most width cells. A run crossing a
// row boundary is split into two. width <= 0 keeps everything on one row.
func Rows(runs []Run, width int) [][]Run {
	var rows [][]Run
	var row []Run
	used := 0
	for _, r := range runs {
		n := r.Count
		for n > 0 {
			take := n
			if width > 0 && used+take > width {
				take = width - used
			}
			row = append(row, Run{Category: r.Category, Count: take})
			used += take
			n -= take
			if width > 0 && used == width {
				rows = append(rows, row)
				row, used = nil, 0
			}
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func cells(n int, dots bool) string {
	if dots {
		return strings.Repeat(Glyph, n)
	}
	return strings.Repeat(" ", n)
}

// dotGrid draws the runs with each category's background colour
func (r *Renderer) dotGrid(c aggregate.Counts, mode Mode) string {
	var b strings.Builder
	for _, row := range Rows(Runs(c, mode.HideOthers), r.opts.Width) {
		for _, run := range row {
			b.WriteString(r.cellStyle(run.Category).Render(cells(run.Count, mode.Dots)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (r *Renderer) cellStyle(cat model.Category) lipgloss.Style {
	return r.term.NewStyle().
		Background(ColorOf(cat).Lipgloss()).
		Foreground(lipgloss.Color("#ffffff"))
}

// legendLine draws one swatch and name per category
func (r *Renderer) legendLine() string {
	parts := make([]string, 0, model.NumCategories)
	for _, e := range Legend() {
		swatch := r.term.NewStyle().Background(e.Color.Lipgloss()).Render("    ")
		parts = append(parts, swatch+" "+e.Name)
	}
	return strings.Join(parts, "    ")
}
