package notes

import "time"

// Note statuses. A note moves received → extracting → summarizing →
// exporting → ready → served; failed is terminal.
const (
	StatusReceived    = "received"
	StatusExtracting  = "extracting"
	StatusSummarizing = "summarizing"
	StatusExporting   = "exporting"
	StatusReady       = "ready"
	StatusServed      = "served"
	StatusFailed      = "failed"
)

// NoteRecord is the in-memory record for one processed document.
type NoteRecord struct {
	ID          string
	Status      string
	Bullets     []string
	Degraded    bool
	Provider    string
	SourceName  string
	SourceChars int
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the record is past its retention window.
func (n NoteRecord) Expired(now time.Time) bool {
	return now.After(n.ExpiresAt)
}
