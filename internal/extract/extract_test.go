package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"autonote-backend/internal/export"
	"autonote-backend/internal/summarize"
)

func buildDocx(t *testing.T, paragraphs []string) []byte {
	t.Helper()
	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>`)
		body.WriteString(p)
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(body.String())); err != nil {
		t.Fatalf("write document.xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestDetectKindByMimeAndExtension(t *testing.T) {
	cases := []struct {
		name     string
		mime     string
		fileName string
		data     []byte
		want     Kind
	}{
		{"pdf mime", "application/pdf", "doc.pdf", nil, KindPDF},
		{"docx mime", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "doc.docx", nil, KindDOCX},
		{"plain text", "text/plain; charset=utf-8", "notes.txt", nil, KindText},
		{"markdown by extension", "", "notes.md", nil, KindText},
		{"png", "image/png", "scan.png", nil, KindImage},
		{"jpeg", "image/jpeg", "scan.jpg", nil, KindImage},
		{"octet-stream pdf extension", "application/octet-stream", "doc.pdf", nil, KindPDF},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectKind(tc.mime, tc.fileName, tc.data)
			if err != nil {
				t.Fatalf("detect: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestDetectKindZipDocxNormalizes(t *testing.T) {
	data := buildDocx(t, []string{"hello"})
	kind, err := DetectKind("application/zip", "report.bin", data)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if kind != KindDOCX {
		t.Fatalf("expected docx from zip payload, got %s", kind)
	}
}

func TestDetectKindRejectsUnsupported(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("notes.txt")
	_, _ = w.Write([]byte("hello"))
	_ = zw.Close()

	if _, err := DetectKind("application/zip", "notes.zip", buf.Bytes()); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := DetectKind("video/mp4", "clip.mp4", nil); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat for video, got %v", err)
	}
}

func TestTextPassthroughNormalizesNewlines(t *testing.T) {
	got, err := Text(context.Background(), []byte("line one\r\nline two\r\n"), KindText)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != "line one\nline two" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestDocxExtraction(t *testing.T) {
	data := buildDocx(t, []string{"First paragraph.", "Second paragraph."})
	got, err := Text(context.Background(), data, KindDOCX)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(got, "First paragraph.") || !strings.Contains(got, "Second paragraph.") {
		t.Fatalf("missing paragraphs in %q", got)
	}
	if !strings.Contains(got, "\n") {
		t.Fatalf("expected paragraph break in %q", got)
	}
}

func TestPDFExtraction(t *testing.T) {
	note := summarize.StructuredNote{
		Bullets: []string{
			"Durability survives crashes.",
			"Indexes accelerate lookups.",
		},
	}
	data, err := export.Render(context.Background(), note, export.FormatPDF)
	if err != nil {
		t.Fatalf("render pdf fixture: %v", err)
	}

	got, err := Text(context.Background(), data, KindPDF)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	for _, want := range []string{"Durability", "Indexes"} {
		if !strings.Contains(got, want) {
			t.Fatalf("extracted text missing %q:\n%s", want, got)
		}
	}
}

func TestCorruptPDFIsExtractionFailed(t *testing.T) {
	_, err := Text(context.Background(), []byte("%PDF-1.4 garbage"), KindPDF)
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestEmptyDocumentError(t *testing.T) {
	if _, err := Text(context.Background(), []byte("   \n\t "), KindText); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	data := buildDocx(t, nil)
	if _, err := Text(context.Background(), data, KindDOCX); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument for empty docx, got %v", err)
	}
}

func TestImageExtractionUsesOCR(t *testing.T) {
	orig := ocrConvert
	defer func() { ocrConvert = orig }()
	ocrConvert = func(data []byte, mimeType string) (string, error) {
		if !strings.HasPrefix(mimeType, "image/") && mimeType != "application/octet-stream" {
			t.Fatalf("unexpected mime %q", mimeType)
		}
		return "recognized words", nil
	}

	// Minimal PNG header so content sniffing sees an image.
	png := append([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, make([]byte, 32)...)
	got, err := Text(context.Background(), png, KindImage)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != "recognized words" {
		t.Fatalf("unexpected OCR result %q", got)
	}
}

func TestImageExtractionFailureWrapped(t *testing.T) {
	orig := ocrConvert
	defer func() { ocrConvert = orig }()
	ocrConvert = func(data []byte, mimeType string) (string, error) {
		return "", errors.New("tesseract not installed")
	}

	_, err := Text(context.Background(), []byte{0xff, 0xd8, 0xff}, KindImage)
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}
