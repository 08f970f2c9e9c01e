// Package pdftest builds small, uncompressed PDF documents for tests.
// Pages may carry text widget annotations and a trivial content stream.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Widget is a text field annotation.
type Widget struct {
	Name string
	Rect [4]float64
}

// Page describes one page of a fixture document.
type Page struct {
	// Box is the media box; zero selects A4 portrait.
	Box [4]float64

	// Widgets are attached to the page's /Annots array.
	Widgets []Widget

	// Content is the page content stream; empty draws a small square.
	Content string

	// InheritBox moves the media box to the page tree node.
	InheritBox bool
}

// A4 is the A4 portrait media box in points.
var A4 = [4]float64{0, 0, 595, 842}

// Build returns a PDF document with the given pages.
func Build(pages ...Page) []byte {
	b := &builder{}

	// Object numbers: 1 catalog, 2 page tree, then per page: page, content, widgets.
	next := 3
	type pageRefs struct {
		page, content int
		widgets       []int
	}
	refs := make([]pageRefs, len(pages))
	for i, p := range pages {
		refs[i].page = next
		refs[i].content = next + 1
		next += 2
		for range p.Widgets {
			refs[i].widgets = append(refs[i].widgets, next)
			next++
		}
	}

	var fields []string
	var kids []string
	for _, r := range refs {
		kids = append(kids, fmt.Sprintf("%d 0 R", r.page))
		for _, w := range r.widgets {
			fields = append(fields, fmt.Sprintf("%d 0 R", w))
		}
	}

	b.header()
	b.object(1, fmt.Sprintf("<< /Type /Catalog /Pages 2 0 R /AcroForm << /Fields [%s] /DA (/Helv 0 Tf 0 g) >> >>",
		strings.Join(fields, " ")))

	treeBox := ""
	if len(pages) > 0 && pages[0].InheritBox {
		treeBox = " /MediaBox " + boxString(boxOf(pages[0]))
	}
	b.object(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d%s >>", strings.Join(kids, " "), len(pages), treeBox))

	for i, p := range pages {
		r := refs[i]
		var annots []string
		for _, w := range r.widgets {
			annots = append(annots, fmt.Sprintf("%d 0 R", w))
		}
		box := ""
		if !p.InheritBox {
			box = " /MediaBox " + boxString(boxOf(p))
		}
		annotsEntry := ""
		if len(annots) > 0 {
			annotsEntry = fmt.Sprintf(" /Annots [%s]", strings.Join(annots, " "))
		}
		b.object(r.page, fmt.Sprintf("<< /Type /Page /Parent 2 0 R%s /Resources << >> /Contents %d 0 R%s >>",
			box, r.content, annotsEntry))

		content := p.Content
		if content == "" {
			content = fmt.Sprintf("0.5 g %d 10 20 20 re f", 10+i*30)
		}
		b.object(r.content, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))

		for j, w := range p.Widgets {
			b.object(r.widgets[j], fmt.Sprintf(
				"<< /Type /Annot /Subtype /Widget /FT /Tx /T (%s) /Rect [%s] /P %d 0 R /F 4 >>",
				escape(w.Name), numbers(w.Rect[:]), r.page))
		}
	}

	b.trailer(next)
	return b.buf.Bytes()
}

type builder struct {
	buf     bytes.Buffer
	offsets map[int]int
}

func (b *builder) header() {
	b.offsets = make(map[int]int)
	b.buf.WriteString("%PDF-1.4\n")
}

func (b *builder) object(num int, body string) {
	b.offsets[num] = b.buf.Len()
	fmt.Fprintf(&b.buf, "%d 0 obj\n%s\nendobj\n", num, body)
}

func (b *builder) trailer(size int) {
	xref := b.buf.Len()
	fmt.Fprintf(&b.buf, "xref\n0 %d\n", size)
	b.buf.WriteString("0000000000 65535 f \n")
	for num := 1; num < size; num++ {
		fmt.Fprintf(&b.buf, "%010d 00000 n \n", b.offsets[num])
	}
	fmt.Fprintf(&b.buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", size, xref)
}

func boxOf(p Page) [4]float64 {
	if p.Box == ([4]float64{}) {
		return A4
	}
	return p.Box
}

func boxString(box [4]float64) string {
	return "[" + numbers(box[:]) + "]"
}

func numbers(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return strings.Join(parts, " ")
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`)
	return r.Replace(s)
}
