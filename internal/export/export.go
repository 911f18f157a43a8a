package export

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"autonote-backend/internal/summarize"
)

// ErrUnsupportedFormat is returned for formats outside the supported set.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ErrExportFailed wraps renderer failures.
var ErrExportFailed = errors.New("export failed")

// Format is a downloadable note representation.
type Format string

const (
	FormatTXT  Format = "txt"
	FormatMD   Format = "md"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Formats lists every supported format in a stable order.
func Formats() []Format {
	return []Format{FormatTXT, FormatMD, FormatPDF, FormatDOCX}
}

// ParseFormat validates a user-supplied format string.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatTXT:
		return FormatTXT, nil
	case FormatMD:
		return FormatMD, nil
	case FormatPDF:
		return FormatPDF, nil
	case FormatDOCX:
		return FormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, raw)
	}
}

// ContentType returns the MIME type served for a format.
func (f Format) ContentType() string {
	switch f {
	case FormatTXT:
		return "text/plain; charset=utf-8"
	case FormatMD:
		return "text/markdown; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}

// Render produces the bytes for a note in the given format. Rendering is
// deterministic: the same note and format always yield identical bytes.
func Render(ctx context.Context, note summarize.StructuredNote, format Format) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch format {
	case FormatTXT:
		return renderTXT(note), nil
	case FormatMD:
		return renderMD(note), nil
	case FormatPDF:
		data, err := renderPDF(note)
		if err != nil {
			return nil, fmt.Errorf("%w: pdf: %v", ErrExportFailed, err)
		}
		return data, nil
	case FormatDOCX:
		data, err := renderDOCX(note)
		if err != nil {
			return nil, fmt.Errorf("%w: docx: %v", ErrExportFailed, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func renderTXT(note summarize.StructuredNote) []byte {
	var b strings.Builder
	for _, bullet := range note.Bullets {
		b.WriteString("• ")
		b.WriteString(bullet)
		b.WriteString("\n")
	}
	return []byte(b.String())
}

func renderMD(note summarize.StructuredNote) []byte {
	var b strings.Builder
	b.WriteString("# Notes\n\n")
	for _, bullet := range note.Bullets {
		b.WriteString("- ")
		b.WriteString(bullet)
		b.WriteString("\n")
	}
	return []byte(b.String())
}
