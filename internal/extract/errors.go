package extract

import "errors"

var (
	// ErrUnsupportedFormat means the declared type maps to no extractor.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrExtractionFailed wraps parser/OCR failures on supported formats.
	ErrExtractionFailed = errors.New("extraction failed")
	// ErrEmptyDocument means extraction succeeded but produced no text.
	ErrEmptyDocument = errors.New("document contains no extractable text")
)
