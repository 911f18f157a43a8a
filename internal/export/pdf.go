package export

import (
	"bytes"
	"fmt"
	"strings"

	"autonote-backend/internal/summarize"
)

// Minimal single-font PDF 1.4 writer. No metadata or timestamps are
// emitted so identical notes always render to identical bytes.

const (
	pdfPageWidth    = 595 // A4 in points
	pdfPageHeight   = 842
	pdfMarginLeft   = 56
	pdfMarginTop    = 64
	pdfFontSize     = 11
	pdfTitleSize    = 16
	pdfLeading      = 16
	pdfMaxLineChars = 88
	pdfLinesPerPage = 44
)

func renderPDF(note summarize.StructuredNote) ([]byte, error) {
	lines := pdfLines(note)
	pages := paginate(lines, pdfLinesPerPage)
	if len(pages) == 0 {
		pages = [][]pdfLine{nil}
	}

	// Object layout: 1 catalog, 2 pages tree, 3 font, then per page a
	// page object followed by its content stream.
	var objects [][]byte
	objects = append(objects, nil, nil, nil)

	pageCount := len(pages)
	var pageRefs []string
	for i, page := range pages {
		pageObj := 4 + i*2
		contentObj := pageObj + 1
		pageRefs = append(pageRefs, fmt.Sprintf("%d 0 R", pageObj))

		stream := contentStream(page)
		objects = append(objects,
			[]byte(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
				pdfPageWidth, pdfPageHeight, contentObj)),
			[]byte(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream)),
		)
	}

	objects[0] = []byte("<< /Type /Catalog /Pages 2 0 R >>")
	objects[1] = []byte(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(pageRefs, " "), pageCount))
	objects[2] = []byte("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n", i+1)
		buf.Write(obj)
		buf.WriteString("\nendobj\n")
	}

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefStart)

	return buf.Bytes(), nil
}

type pdfLine struct {
	text  string
	title bool
}

func pdfLines(note summarize.StructuredNote) []pdfLine {
	lines := []pdfLine{{text: "Notes", title: true}, {}}
	for _, bullet := range note.Bullets {
		wrapped := wrapText("- "+bullet, pdfMaxLineChars)
		for i, w := range wrapped {
			if i > 0 {
				w = "  " + w
			}
			lines = append(lines, pdfLine{text: w})
		}
	}
	return lines
}

func paginate(lines []pdfLine, perPage int) [][]pdfLine {
	var pages [][]pdfLine
	for len(lines) > perPage {
		pages = append(pages, lines[:perPage])
		lines = lines[perPage:]
	}
	if len(lines) > 0 {
		pages = append(pages, lines)
	}
	return pages
}

func contentStream(lines []pdfLine) string {
	var b strings.Builder
	b.WriteString("BT\n")
	y := pdfPageHeight - pdfMarginTop
	for _, line := range lines {
		size := pdfFontSize
		if line.title {
			size = pdfTitleSize
		}
		if line.text != "" {
			fmt.Fprintf(&b, "/F1 %d Tf\n1 0 0 1 %d %d Tm\n(%s) Tj\n", size, pdfMarginLeft, y, escapePDF(line.text))
		}
		y -= pdfLeading
	}
	b.WriteString("ET")
	return b.String()
}

// escapePDF escapes the PDF string delimiters and downgrades characters
// outside WinAnsi to '?'.
func escapePDF(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '(' || r == ')' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r >= 32 && r < 127:
			b.WriteRune(r)
		case r >= 0xA0 && r <= 0xFF:
			b.WriteByte(byte(r))
		default:
			b.WriteByte('?')
		}
	}
	return b.String()
}

func wrapText(s string, maxChars int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		if len(current)+1+len(w) > maxChars {
			lines = append(lines, current)
			current = w
			continue
		}
		current += " " + w
	}
	return append(lines, current)
}
