package render

import (
	"bytes"
	"fmt"

	"github.com/cockroachdb/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ppiankov/liarlens/internal/aggregate"
)

const htmlStyle = `body{font-family:sans-serif;background:#fff;color:#222}
.header{font-weight:bold;margin-bottom:1em}
.legend span.swatch{display:inline-block;width:2em;height:1em;margin-right:.3em;vertical-align:middle}
.legend span.entry{margin-right:2em}
.grid{font-family:monospace;line-height:1.2em;white-space:pre}
.grid span{color:#fff}`

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func appendAll(parent *html.Node, children ...*html.Node) *html.Node {
	for _, c := range children {
		parent.AppendChild(c)
	}
	return parent
}

// renderHTML builds a standalone document with the header, legend and dot grid
func (r *Renderer) renderHTML(c aggregate.Counts, mode Mode, header string) ([]byte, error) {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	head := appendAll(element(atom.Head),
		element(atom.Meta, "charset", "utf-8"),
		appendAll(element(atom.Title), textNode("liarlens")),
		appendAll(element(atom.Style), textNode(htmlStyle)),
	)

	legend := element(atom.Div, "class", "legend")
	for _, e := range Legend() {
		appendAll(legend, appendAll(element(atom.Span, "class", "entry", "data-category", e.Category.String()),
			element(atom.Span, "class", "swatch", "style", "background:"+e.Color.Hex()),
			textNode(e.Name),
		))
	}

	grid := element(atom.Div, "class", "grid")
	for i, row := range Rows(Runs(c, mode.HideOthers), r.opts.Width) {
		if i > 0 {
			grid.AppendChild(element(atom.Br))
		}
		for _, run := range row {
			span := element(atom.Span,
				"data-category", run.Category.String(),
				"data-count", fmt.Sprint(run.Count),
				"style", "background:"+ColorOf(run.Category).Hex(),
			)
			grid.AppendChild(appendAll(span, textNode(cells(run.Count, mode.Dots))))
		}
	}

	body := appendAll(element(atom.Body),
		appendAll(element(atom.Div, "class", "header"), textNode(header)),
		legend,
		grid,
	)
	doc.AppendChild(appendAll(element(atom.Html, "lang", "en"), head, body))

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, errors.Wrap(err, "render html")
	}
	return buf.Bytes(), nil
}
