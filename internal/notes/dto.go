package notes

import (
	"time"

	"autonote-backend/internal/export"
)

type noteResponse struct {
	NoteID    string    `json:"noteId"`
	Status    string    `json:"status"`
	Bullets   []string  `json:"bullets"`
	Degraded  bool      `json:"degraded"`
	Formats   []string  `json:"formats"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func toNoteResponse(note NoteRecord) noteResponse {
	formats := make([]string, 0, 4)
	if note.Status == StatusReady || note.Status == StatusServed {
		for _, f := range export.Formats() {
			formats = append(formats, string(f))
		}
	}
	bullets := note.Bullets
	if bullets == nil {
		bullets = []string{}
	}
	return noteResponse{
		NoteID:    note.ID,
		Status:    note.Status,
		Bullets:   bullets,
		Degraded:  note.Degraded,
		Formats:   formats,
		ExpiresAt: note.ExpiresAt,
	}
}
