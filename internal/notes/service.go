package notes

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"autonote-backend/internal/export"
	"autonote-backend/internal/extract"
	"autonote-backend/internal/quota"
	"autonote-backend/internal/shared/metrics"
	"autonote-backend/internal/shared/storage/object"
	"autonote-backend/internal/shared/telemetry"
	"autonote-backend/internal/summarize"
)

// ProcessInput carries one upload through the pipeline.
type ProcessInput struct {
	ClientID    string
	Text        string
	FileName    string
	ContentType string
	FileData    []byte
}

// Download is a streamable export of a processed note.
type Download struct {
	Reader      io.ReadCloser
	ContentType string
	FileName    string
}

// Service orchestrates extract → summarize → export and owns note records.
type Service struct {
	Repo       Repo
	Store      object.ObjectStore
	Summarizer *summarize.Service
	Quota      *quota.Service
	Retention  time.Duration

	now func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo, store object.ObjectStore, summarizer *summarize.Service, quotaSvc *quota.Service, retention time.Duration) *Service {
	return &Service{
		Repo:       repo,
		Store:      store,
		Summarizer: summarizer,
		Quota:      quotaSvc,
		Retention:  retention,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Process runs the full pipeline for one upload and returns the ready record.
func (s *Service) Process(ctx context.Context, input ProcessInput) (NoteRecord, error) {
	if strings.TrimSpace(input.Text) == "" && len(input.FileData) == 0 {
		return NoteRecord{}, ErrNoInput
	}

	if s.Quota != nil {
		if _, err := s.Quota.Consume(ctx, input.ClientID, 1); err != nil {
			return NoteRecord{}, err
		}
	}

	start := s.now()
	note := NoteRecord{
		ID:         uuid.NewString(),
		Status:     StatusReceived,
		SourceName: input.FileName,
		CreatedAt:  start,
		ExpiresAt:  start.Add(s.Retention),
	}
	if err := s.Repo.Create(ctx, note); err != nil {
		return NoteRecord{}, err
	}
	metrics.IncNoteStarted()

	text, err := s.gatherText(ctx, &note, input)
	if err != nil {
		return NoteRecord{}, s.fail(ctx, note.ID, err)
	}
	note.SourceChars = len(text)

	s.transition(ctx, &note, StatusSummarizing)
	structured, err := s.Summarizer.Notes(ctx, text)
	if err != nil {
		return NoteRecord{}, s.fail(ctx, note.ID, err)
	}
	note.Bullets = structured.Bullets
	note.Degraded = structured.Degraded
	note.Provider = structured.Provider

	s.transition(ctx, &note, StatusExporting)
	if err := s.exportAll(ctx, note.ID, structured); err != nil {
		return NoteRecord{}, s.fail(ctx, note.ID, err)
	}

	note.Status = StatusReady
	if err := s.Repo.Create(ctx, note); err != nil {
		return NoteRecord{}, s.fail(ctx, note.ID, err)
	}

	metrics.IncNoteCompleted()
	metrics.ObserveNoteDurationMs(float64(s.now().Sub(start).Microseconds()) / 1000.0)
	telemetry.Info("note.ready", map[string]any{
		"note_id":      note.ID,
		"client_id":    input.ClientID,
		"bullets":      len(note.Bullets),
		"degraded":     note.Degraded,
		"provider":     note.Provider,
		"source_chars": note.SourceChars,
	})
	return note, nil
}

func (s *Service) gatherText(ctx context.Context, note *NoteRecord, input ProcessInput) (string, error) {
	parts := []string{}
	if t := strings.TrimSpace(input.Text); t != "" {
		parts = append(parts, t)
	}

	if len(input.FileData) > 0 {
		s.transition(ctx, note, StatusExtracting)
		kind, err := extract.DetectKind(input.ContentType, input.FileName, input.FileData)
		if err != nil {
			return "", err
		}
		extracted, err := extract.Text(ctx, input.FileData, kind)
		if err != nil {
			return "", err
		}
		parts = append(parts, extracted)
	}

	return strings.Join(parts, "\n\n"), nil
}

func (s *Service) exportAll(ctx context.Context, id string, structured summarize.StructuredNote) error {
	for _, format := range export.Formats() {
		data, err := export.Render(ctx, structured, format)
		if err != nil {
			return err
		}
		key := objectKey(id, format)
		if _, err := s.Store.Save(ctx, key, format.ContentType(), bytes.NewReader(data)); err != nil {
			s.removeExports(ctx, id)
			return fmt.Errorf("%w: save %s: %v", export.ErrExportFailed, format, err)
		}
	}
	return nil
}

func (s *Service) removeExports(ctx context.Context, id string) {
	for _, format := range export.Formats() {
		if err := s.Store.Delete(ctx, objectKey(id, format)); err != nil {
			telemetry.Warn("note.export_cleanup", map[string]any{"note_id": id, "error": err.Error()})
		}
	}
}

func (s *Service) transition(ctx context.Context, note *NoteRecord, status string) {
	note.Status = status
	if err := s.Repo.UpdateStatus(ctx, note.ID, status); err != nil {
		telemetry.Warn("note.status_update", map[string]any{"note_id": note.ID, "status": status, "error": err.Error()})
	}
}

func (s *Service) fail(ctx context.Context, id string, cause error) error {
	metrics.IncNoteFailed()
	if err := s.Repo.UpdateStatus(ctx, id, StatusFailed); err != nil {
		telemetry.Warn("note.status_update", map[string]any{"note_id": id, "status": StatusFailed, "error": err.Error()})
	}
	telemetry.Error("note.failed", map[string]any{"note_id": id, "error": cause.Error()})
	return cause
}

// Get returns a note record, treating expired notes as missing.
func (s *Service) Get(ctx context.Context, id string) (NoteRecord, error) {
	note, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return NoteRecord{}, err
	}
	if note.Expired(s.now()) {
		return NoteRecord{}, ErrNotFound
	}
	return note, nil
}

// OpenDownload streams a stored export and marks the note served.
func (s *Service) OpenDownload(ctx context.Context, id string, format export.Format) (Download, error) {
	note, err := s.Get(ctx, id)
	if err != nil {
		return Download{}, err
	}
	if note.Status != StatusReady && note.Status != StatusServed {
		return Download{}, ErrNotFound
	}

	rc, err := s.Store.Open(ctx, objectKey(id, format))
	if err != nil {
		return Download{}, ErrNotFound
	}

	if note.Status != StatusServed {
		s.transition(ctx, &note, StatusServed)
	}
	return Download{
		Reader:      rc,
		ContentType: format.ContentType(),
		FileName:    fmt.Sprintf("notes_%s.%s", id, format),
	}, nil
}

func objectKey(id string, format export.Format) string {
	return fmt.Sprintf("notes/%s.%s", id, format)
}
