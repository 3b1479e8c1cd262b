// Package render turns aggregated counts into a proportional-area chart or a
// dot-density grid, with a summary header and a colour legend.
package render

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
	"github.com/muesli/termenv"

	"github.com/ppiankov/liarlens/internal/aggregate"
	"github.com/ppiankov/liarlens/internal/model"
)

// Format selects the output medium
type Format string

const (
	FormatText Format = "text" // Dot grid for a terminal
	FormatHTML Format = "html" // Dot grid as a standalone HTML document
	FormatPNG  Format = "png"  // Proportional-area chart
)

// ErrUnknownFormat is returned for an unsupported output format
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat validates a format name
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case FormatText, FormatHTML, FormatPNG:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", errors.WithHint(errors.Wrapf(ErrUnknownFormat, "%q", raw), "use text, html or png")
}

// ColorMode controls ANSI colour in text output
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a colour mode name
func ParseColorMode(raw string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(raw))); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	case "":
		return ColorAuto, nil
	}
	return "", errors.Newf("unknown color mode %q", raw)
}

// Mode is the display mode of one render
type Mode struct {
	HideOthers bool // Omit the residual category
	Dots       bool // Draw a glyph per cell instead of a blank cell
}

// Options configures a Renderer
type Options struct {
	Width       int // Cells per dot-grid row; 0 disables wrapping
	Color       ColorMode
	ChartWidth  int
	ChartHeight int
	Terminal    io.Writer // Destination used to detect colour support; defaults to stdout
}

// LegendEntry pairs a category with its colour and display name
type LegendEntry struct {
	Category model.Category `json:"category"`
	Color    RGB            `json:"-"`
	Name     string         `json:"name"`
}

// Legend lists every category in display order
func Legend() []LegendEntry {
	entries := make([]LegendEntry, 0, model.NumCategories)
	for _, c := range model.Categories {
		entries = append(entries, LegendEntry{Category: c, Color: ColorOf(c), Name: c.DisplayName()})
	}
	return entries
}

// Header summarizes the corpus size and the number of matching statements
func Header(c aggregate.Counts) string {
	return fmt.Sprintf("There is a total of %d statements, out of which %d satisfy your requirements.", c.Total, c.Matched())
}

// Output is one rendered result
type Output struct {
	Format Format
	Header string
	Legend []LegendEntry
	Counts aggregate.Counts
	Body   []byte // Complete document in Format
}

// WriteTo writes the rendered document
func (o *Output) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(o.Body)
	return int64(n), err
}

// Renderer draws counts in one of the supported formats
type Renderer struct {
	opts Options
	term *lipgloss.Renderer
}

// New creates a renderer
func New(opts Options) *Renderer {
	if opts.Terminal == nil {
		opts.Terminal = os.Stdout
	}
	if opts.ChartWidth <= 0 {
		opts.ChartWidth = 1000
	}
	if opts.ChartHeight <= 0 {
		opts.ChartHeight = 500
	}
	if opts.Width < 0 {
		opts.Width = 0
	}

	term := lipgloss.NewRenderer(opts.Terminal)
	switch opts.Color {
	case ColorAlways:
		term.SetColorProfile(termenv.TrueColor)
	case ColorNever:
		term.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{opts: opts, term: term}
}

// Render draws c in the requested format
func (r *Renderer) Render(c aggregate.Counts, mode Mode, format Format) (*Output, error) {
	out := &Output{
		Format: format,
		Header: Header(c),
		Legend: Legend(),
		Counts: c,
	}

	switch format {
	case FormatText, "":
		out.Format = FormatText
		out.Body = []byte(r.renderText(c, mode, out.Header))
	case FormatHTML:
		body, err := r.renderHTML(c, mode, out.Header)
		if err != nil {
			return nil, err
		}
		out.Body = body
	case FormatPNG:
		var buf bytes.Buffer
		if err := DrawPNG(&buf, Layout(c, mode.HideOthers), r.opts.ChartWidth, r.opts.ChartHeight); err != nil {
			return nil, err
		}
		out.Body = buf.Bytes()
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
	return out, nil
}

func (r *Renderer) renderText(c aggregate.Counts, mode Mode, header string) string {
	var b strings.Builder
	b.WriteString(r.term.NewStyle().Bold(true).Render(header))
	b.WriteString("\n\n")
	b.WriteString(r.legendLine())
	b.WriteString("\n\n")
	b.WriteString(r.dotGrid(c, mode))
	return b.String()
}
