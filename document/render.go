package document

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// utf8BOM marks the text report as UTF-8 for editors that need it.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TextOptions controls WriteText.
type TextOptions struct {
	BOM bool // start the output with a UTF-8 byte-order mark
}

// WriteText writes a plain text report of r: a page count header, then for
// every page a "==== Page N ====" line followed by the page text or a line
// saying why the page has none.
func WriteText(w io.Writer, r *Result, opts TextOptions) error {
	bw := bufio.NewWriter(w)

	if opts.BOM {
		bw.Write(utf8BOM)
	}
	fmt.Fprintf(bw, "Number of pages: %d\n", r.TotalPages)

	for _, p := range r.Pages {
		fmt.Fprintf(bw, "==== Page %d ====\n", p.Number)
		if p.OK() {
			bw.WriteString(p.Text)
		} else {
			bw.WriteString(p.Message())
		}
		bw.WriteByte('\n')
	}

	// bufio.Writer keeps the first write error and returns it here.
	return bw.Flush()
}

// WriteHTML writes r as an HTML fragment: an article holding one section
// per page. Page text goes in a pre element; failed pages get a paragraph
// with class "error".
func WriteHTML(w io.Writer, r *Result) error {
	article := element(atom.Article,
		html.Attribute{Key: "class", Val: "document"},
		html.Attribute{Key: "data-pages", Val: strconv.Itoa(r.TotalPages)},
	)

	for _, p := range r.Pages {
		section := element(atom.Section,
			html.Attribute{Key: "class", Val: "page"},
			html.Attribute{Key: "data-page", Val: strconv.Itoa(p.Number)},
			html.Attribute{Key: "data-status", Val: p.Status.String()},
		)

		var body *html.Node
		if p.OK() {
			body = element(atom.Pre)
			body.AppendChild(&html.Node{Type: html.TextNode, Data: p.Text})
		} else {
			body = element(atom.P, html.Attribute{Key: "class", Val: "error"})
			body.AppendChild(&html.Node{Type: html.TextNode, Data: p.Message()})
		}

		section.AppendChild(body)
		article.AppendChild(section)
	}

	if err := html.Render(w, article); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}
