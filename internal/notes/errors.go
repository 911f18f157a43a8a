package notes

import "errors"

// ErrNotFound is returned when a note does not exist or has expired.
var ErrNotFound = errors.New("note not found")

// ErrNoInput is returned when the request carries neither text nor a file.
var ErrNoInput = errors.New("no text or file provided")

// ErrPayloadTooLarge is returned when the upload exceeds the size cap.
var ErrPayloadTooLarge = errors.New("payload too large")
