package extract

import (
	"bytes"
	"context"
	"net/http"

	"code.sajari.com/docconv"
)

// ocrConvert is swappable in tests to avoid a Tesseract dependency.
var ocrConvert = func(data []byte, mimeType string) (string, error) {
	res, err := docconv.Convert(bytes.NewReader(data), mimeType, false)
	if err != nil {
		return "", err
	}
	return res.Body, nil
}

func extractImage(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	mimeType := http.DetectContentType(data)
	return ocrConvert(data, mimeType)
}
