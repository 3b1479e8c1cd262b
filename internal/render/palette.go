package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ppiankov/liarlens/internal/model"
)

// RGB is an opaque 8-bit colour
type RGB struct {
	R, G, B uint8
}

// Hex returns the colour as #rrggbb
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Lipgloss converts the colour for terminal styling
func (c RGB) Lipgloss() lipgloss.Color {
	return lipgloss.Color(c.Hex())
}

// Drawing converts the colour for chart rendering
func (c RGB) Drawing() drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: 255}
}

// Palette is the fixed colour of each display category, indexed like model.Categories
var Palette = [model.NumCategories]RGB{
	model.CatPantsFire:  {233, 91, 88},
	model.CatFalse:      {1, 162, 80},
	model.CatBarelyTrue: {224, 181, 42},
	model.CatHalfTrue:   {37, 141, 246},
	model.CatMostlyTrue: {191, 85, 180},
	model.CatTrue:       {103, 194, 203},
	model.CatOthers:     {63, 63, 63},
}

// ColorOf returns the palette colour of a category
func ColorOf(c model.Category) RGB {
	return Palette[c]
}
