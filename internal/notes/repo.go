package notes

import (
	"context"
	"time"
)

// Repo stores note records. No durable backend: notes are ephemeral and
// swept after their retention window.
type Repo interface {
	Create(ctx context.Context, note NoteRecord) error
	GetByID(ctx context.Context, id string) (NoteRecord, error)
	UpdateStatus(ctx context.Context, id, status string) error
	ListExpired(ctx context.Context, now time.Time) ([]NoteRecord, error)
	Delete(ctx context.Context, id string) error
}
