package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Kind identifies the extractor used for an uploaded document.
type Kind string

const (
	KindText  Kind = "text"
	KindPDF   Kind = "pdf"
	KindDOCX  Kind = "docx"
	KindImage Kind = "image"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// DetectKind maps a declared MIME type and file name to an extractor kind.
func DetectKind(mimeType, fileName string, data []byte) (Kind, error) {
	normalized := normalizeMimeType(mimeType, fileName, data)
	switch {
	case normalized == mimePDF:
		return KindPDF, nil
	case normalized == mimeDOCX:
		return KindDOCX, nil
	case strings.HasPrefix(normalized, "image/"):
		switch normalized {
		case "image/png", "image/jpeg":
			return KindImage, nil
		}
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, normalized)
	case strings.HasPrefix(normalized, "text/"), normalized == "":
		if kind, ok := kindFromExtension(fileName); ok {
			return kind, nil
		}
		if strings.HasPrefix(normalized, "text/") {
			return KindText, nil
		}
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, normalized)
	default:
		if kind, ok := kindFromExtension(fileName); ok {
			return kind, nil
		}
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, normalized)
	}
}

// Text extracts plain text from an in-memory payload using the extractor for kind.
func Text(ctx context.Context, data []byte, kind Kind) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		text string
		err  error
	)
	switch kind {
	case KindText:
		text, err = extractPlain(data)
	case KindPDF:
		text, err = extractPDF(data)
	case KindDOCX:
		text, err = extractDOCX(data)
	case KindImage:
		text, err = extractImage(ctx, data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrExtractionFailed, kind, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

func extractPlain(data []byte) (string, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return text, nil
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	return stripDocxXML(string(raw)), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if last := buf.Len(); last > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func normalizeMimeType(mimeType, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if clean != "application/zip" && clean != "application/octet-stream" {
		return clean
	}

	// OOXML uploads often arrive declared as generic zip.
	if hasZipEntry(data, "word/document.xml") {
		return mimeDOCX
	}

	if ext := strings.ToLower(filepath.Ext(fileName)); ext == ".docx" {
		return mimeDOCX
	}
	return clean
}

func kindFromExtension(fileName string) (Kind, bool) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".txt", ".md":
		return KindText, true
	case ".pdf":
		return KindPDF, true
	case ".docx":
		return KindDOCX, true
	case ".png", ".jpg", ".jpeg":
		return KindImage, true
	}
	return "", false
}

func hasZipEntry(data []byte, entry string) bool {
	if len(data) == 0 {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == entry {
			return true
		}
	}
	return false
}
