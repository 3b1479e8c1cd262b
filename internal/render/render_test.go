package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/ppiankov/liarlens/internal/aggregate"
	"github.com/ppiankov/liarlens/internal/model"
)

// counts builds unscaled counts for a corpus of total statements
func counts(total int, buckets ...int) aggregate.Counts {
	c := aggregate.Counts{Total: total, DatapointsPerDot: 1}
	sum := 0
	for i, n := range buckets {
		c.Raw[i] = n
		sum += n
	}
	c.Raw[model.CatOthers] = total - sum
	c.Scaled = c.Raw
	return c
}

func plain() *Renderer {
	return New(Options{Color: ColorNever, Terminal: &bytes.Buffer{}})
}

func TestPalette(t *testing.T) {
	assert.Equal(t, "#e95b58", ColorOf(model.CatPantsFire).Hex())
	assert.Equal(t, "#01a250", ColorOf(model.CatFalse).Hex())
	assert.Equal(t, "#3f3f3f", ColorOf(model.CatOthers).Hex())
	assert.Equal(t, uint8(255), ColorOf(model.CatTrue).Drawing().A)
}

func TestHeader(t *testing.T) {
	assert.Equal(t,
		"There is a total of 4 statements, out of which 4 satisfy your requirements.",
		Header(counts(4, 1, 1, 0, 0, 0, 2)))
	assert.Equal(t,
		"There is a total of 4 statements, out of which 2 satisfy your requirements.",
		Header(counts(4, 0, 1, 0, 0, 0, 1)))
}

func TestHeader_UsesExactResidual(t *testing.T) {
	c := counts(9, 0, 3, 0, 1, 0, 5)
	c.DatapointsPerDot = 2
	for i, n := range c.Raw {
		c.Scaled[i] = aggregate.Scale(n, 2)
	}
	assert.Contains(t, Header(c), "out of which 9 satisfy")
}

func TestLegend(t *testing.T) {
	entries := Legend()
	require.Len(t, entries, model.NumCategories)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
		assert.Equal(t, model.Categories[i], e.Category)
		assert.Equal(t, Palette[i], e.Color)
	}
	assert.Equal(t, []string{"Pants on fire", "False", "Barely true", "Half true", "Mostly true", "True", "Excluded"}, names)
}

func TestLayout(t *testing.T) {
	c := counts(6, 1, 1, 0, 0, 0, 2)

	a := Layout(c, false)
	require.Len(t, a.Regions, model.NumCategories)
	assert.Equal(t, 6.0, a.YMax)

	y := 0.0
	for i, r := range a.Regions {
		assert.Equal(t, model.Categories[i], r.Category)
		assert.Equal(t, y, r.Y0, "regions are contiguous")
		assert.Equal(t, float64(c.Scaled[i]), r.Height())
		y = r.Y1
	}

	hidden := Layout(c, true)
	require.Len(t, hidden.Regions, model.NumLabels)
	assert.Equal(t, 4.0, hidden.YMax, "range clipped to the six label bands")
	for _, r := range hidden.Regions {
		assert.NotEqual(t, model.CatOthers, r.Category)
	}
}

func TestRuns(t *testing.T) {
	c := counts(6, 1, 1, 0, 0, 0, 2)
	runs := Runs(c, false)
	require.Len(t, runs, model.NumCategories)
	assert.Equal(t, Run{Category: model.CatOthers, Count: 2}, runs[6])
	assert.Len(t, Runs(c, true), model.NumLabels)
}

func TestRows(t *testing.T) {
	runs := []Run{
		{Category: model.CatPantsFire, Count: 2},
		{Category: model.CatFalse, Count: 0},
		{Category: model.CatTrue, Count: 3},
	}

	assert.Equal(t, [][]Run{{
		{Category: model.CatPantsFire, Count: 2},
		{Category: model.CatTrue, Count: 3},
	}}, Rows(runs, 0))

	assert.Equal(t, [][]Run{
		{{Category: model.CatPantsFire, Count: 2}, {Category: model.CatTrue, Count: 1}},
		{{Category: model.CatTrue, Count: 2}},
	}, Rows(runs, 3))

	assert.Equal(t, [][]Run{
		{{Category: model.CatPantsFire, Count: 2}},
		{{Category: model.CatTrue, Count: 2}},
		{{Category: model.CatTrue, Count: 1}},
	}, Rows(runs, 2))

	assert.Empty(t, Rows(nil, 5))
}

func TestRender_Text(t *testing.T) {
	c := counts(4, 1, 1, 0, 0, 0, 2)

	out, err := plain().Render(c, Mode{Dots: true}, FormatText)
	require.NoError(t, err)
	assert.Equal(t, FormatText, out.Format)

	lines := strings.Split(string(out.Body), "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, out.Header, lines[0])
	for _, e := range Legend() {
		assert.Contains(t, lines[2], e.Name)
	}
	assert.Equal(t, "●●●●", lines[4])
}

func TestRender_TextBlankCells(t *testing.T) {
	c := counts(7, 1, 1, 0, 0, 0, 2)

	dots, err := plain().Render(c, Mode{Dots: true}, FormatText)
	require.NoError(t, err)
	blank, err := plain().Render(c, Mode{Dots: false}, FormatText)
	require.NoError(t, err)

	dotRow := strings.Split(string(dots.Body), "\n")[4]
	blankRow := strings.Split(string(blank.Body), "\n")[4]
	assert.Equal(t, strings.Repeat(Glyph, 7), dotRow)
	assert.Equal(t, strings.Repeat(" ", 7), blankRow, "same length in both modes")
}

func TestRender_TextHideOthers(t *testing.T) {
	c := counts(10, 1, 0, 0, 0, 0, 1)

	out, err := plain().Render(c, Mode{Dots: true, HideOthers: true}, FormatText)
	require.NoError(t, err)
	assert.Equal(t, "●●", strings.Split(string(out.Body), "\n")[4])
}

func TestRender_TextWraps(t *testing.T) {
	r := New(Options{Color: ColorNever, Width: 3, Terminal: &bytes.Buffer{}})
	out, err := r.Render(counts(7, 7), Mode{Dots: true}, FormatText)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(out.Body), "\n"), "\n")
	assert.Equal(t, []string{"●●●", "●●●", "●"}, lines[4:])
}

func TestRender_TextTrueColor(t *testing.T) {
	r := New(Options{Color: ColorAlways, Terminal: &bytes.Buffer{}})
	out, err := r.Render(counts(1, 1), Mode{Dots: true}, FormatText)
	require.NoError(t, err)
	assert.Contains(t, string(out.Body), "48;2;233;91;88", "pants-fire background")
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			found = append(found, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func TestRender_HTML(t *testing.T) {
	c := counts(5, 1, 1, 0, 0, 0, 2)

	out, err := plain().Render(c, Mode{Dots: true}, FormatHTML)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out.Body, []byte("<!DOCTYPE html>")))

	doc, err := html.Parse(bytes.NewReader(out.Body))
	require.NoError(t, err)

	grids := findAll(doc, func(n *html.Node) bool { return n.Type == html.ElementNode && attr(n, "class") == "grid" })
	require.Len(t, grids, 1)

	cells := findAll(grids[0], func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == "span" })
	var got []string
	for _, s := range cells {
		got = append(got, attr(s, "data-category")+"="+attr(s, "data-count"))
	}
	assert.Equal(t, []string{"pants-fire=1", "false=1", "true=2", "others=1"}, got)
	assert.Equal(t, Glyph+Glyph, cells[2].FirstChild.Data)
	assert.Equal(t, "background:#67c2cb", attr(cells[2], "style"))

	headers := findAll(doc, func(n *html.Node) bool { return attr(n, "class") == "header" })
	require.Len(t, headers, 1)
	assert.Equal(t, out.Header, headers[0].FirstChild.Data)

	swatches := findAll(doc, func(n *html.Node) bool { return attr(n, "class") == "swatch" })
	assert.Len(t, swatches, model.NumCategories)
}

func TestRender_PNG(t *testing.T) {
	r := New(Options{Color: ColorNever, ChartWidth: 200, ChartHeight: 400, Terminal: &bytes.Buffer{}})
	out, err := r.Render(counts(4, 1, 1, 0, 0, 0, 2), Mode{HideOthers: true}, FormatPNG)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out.Body))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())

	near := func(want RGB, x, y int) {
		t.Helper()
		r, g, b, _ := img.At(x, y).RGBA()
		got := [3]int{int(r >> 8), int(g >> 8), int(b >> 8)}
		for i, w := range [3]int{int(want.R), int(want.G), int(want.B)} {
			assert.InDelta(t, w, got[i], 3, "pixel (%d,%d) = %v, want %s", x, y, got, want.Hex())
		}
	}
	// Pants on fire occupies the top quarter, true the bottom half.
	near(ColorOf(model.CatPantsFire), 100, 50)
	near(ColorOf(model.CatTrue), 100, 350)
}

func TestRender_PNGEmpty(t *testing.T) {
	out, err := plain().Render(counts(3), Mode{HideOthers: true}, FormatPNG)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(out.Body))
	require.NoError(t, err)
}

func TestDrawPNG_InvalidSize(t *testing.T) {
	err := DrawPNG(&bytes.Buffer{}, Area{}, 0, 10)
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	for raw, want := range map[string]Format{"": FormatText, "TEXT": FormatText, "html": FormatHTML, " png ": FormatPNG} {
		got, err := ParseFormat(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("svg")
	assert.True(t, errors.Is(err, ErrUnknownFormat))

	_, err = plain().Render(counts(1), Mode{}, Format("svg"))
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestParseColorMode(t *testing.T) {
	m, err := ParseColorMode("")
	require.NoError(t, err)
	assert.Equal(t, ColorAuto, m)
	m, err = ParseColorMode("Always")
	require.NoError(t, err)
	assert.Equal(t, ColorAlways, m)
	_, err = ParseColorMode("sometimes")
	assert.Error(t, err)
}
