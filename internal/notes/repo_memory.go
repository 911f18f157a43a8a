package notes

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo stores note records in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]NoteRecord
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]NoteRecord)}
}

// Create stores the note, replacing any existing record with the same ID.
func (r *MemoryRepo) Create(ctx context.Context, note NoteRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[note.ID] = note
	return nil
}

// GetByID returns a note by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (NoteRecord, error) {
	if err := ctx.Err(); err != nil {
		return NoteRecord{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	note, ok := r.byID[id]
	if !ok {
		return NoteRecord{}, ErrNotFound
	}
	return note, nil
}

// UpdateStatus moves an existing note to a new status.
func (r *MemoryRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	note, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	note.Status = status
	r.byID[id] = note
	return nil
}

// ListExpired returns every note whose retention window has passed.
func (r *MemoryRepo) ListExpired(ctx context.Context, now time.Time) ([]NoteRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var expired []NoteRecord
	for _, note := range r.byID {
		if note.Expired(now) {
			expired = append(expired, note)
		}
	}
	return expired, nil
}

// Delete removes a note. Deleting a missing note is a no-op.
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}
