package render

import (
	"io"

	"github.com/cockroachdb/errors"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ppiankov/liarlens/internal/aggregate"
	"github.com/ppiankov/liarlens/internal/model"
)

// Region is one horizontal band of the proportional-area chart, spanning
// x in [0, 1] and y in [Y0, Y1]
type Region struct {
	Category model.Category
	Color    RGB
	Y0, Y1   float64
}

// Height of the band
func (r Region) Height() float64 {
	return r.Y1 - r.Y0
}

// Area is the geometry of a proportional-area chart. Regions are stacked
// from y=0 in category order; the vertical display range is [0, YMax] with
// 0 at the top.
type Area struct {
	Regions []Region
	YMax    float64
}

// Layout stacks the scaled counts into bands. With hideOthers the residual
// band is omitted and the range ends at the top of the six label bands.
func Layout(c aggregate.Counts, hideOthers bool) Area {
	a := Area{YMax: float64(c.ScaledSum(!hideOthers))}
	y := 0.0
	for _, cat := range model.Categories {
		if cat == model.CatOthers && hideOthers {
			break
		}
		h := float64(c.Scaled[cat])
		a.Regions = append(a.Regions, Region{Category: cat, Color: ColorOf(cat), Y0: y, Y1: y + h})
		y += h
	}
	return a
}

// DrawPNG renders the area as a PNG image of the given size. Axes, grid and
// title are hidden; only the coloured bands are drawn.
func DrawPNG(w io.Writer, a Area, width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.Newf("invalid chart size %dx%d", width, height)
	}

	// An empty selection still renders as a blank canvas.
	yMax := a.YMax
	if yMax <= 0 {
		yMax = 1
	}

	// The y axis is flipped so the first category sits at the top. Each band
	// is filled from its upper edge down to the baseline and later bands
	// paint over earlier ones.
	var series []chart.Series
	for _, r := range a.Regions {
		if r.Height() <= 0 {
			continue
		}
		top := yMax - r.Y0
		col := r.Color.Drawing()
		series = append(series, chart.ContinuousSeries{
			Name:    r.Category.DisplayName(),
			XValues: []float64{0, 1},
			YValues: []float64{top, top},
			Style: chart.Style{
				StrokeColor: col,
				StrokeWidth: 1,
				FillColor:   col,
			},
		})
	}
	if len(series) == 0 {
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{0, 1},
			YValues: []float64{0, 0},
			Style:   chart.Style{StrokeColor: drawing.ColorTransparent},
		})
	}

	ch := chart.Chart{
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 1, Left: 1, Right: 1, Bottom: 1}},
		XAxis: chart.XAxis{
			Style: chart.Hidden(),
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		YAxis: chart.YAxis{
			Style: chart.Hidden(),
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
		},
		Series: series,
	}
	if err := ch.Render(chart.PNG, w); err != nil {
		return errors.Wrap(err, "render chart")
	}
	return nil
}
