package cleanup

import (
	"context"
	"strings"
	"time"

	"autonote-backend/internal/notes"
	"autonote-backend/internal/shared/metrics"
	"autonote-backend/internal/shared/storage/object"
	"autonote-backend/internal/shared/telemetry"
)

const objectPrefix = "notes/"

// SweepResult reports one cleanup cycle.
type SweepResult struct {
	RecordsRemoved int
	ObjectsRemoved int
	Orphans        int
}

// Sweeper periodically removes expired note records and their exported
// files. Deletes are idempotent so concurrent sweeps do not conflict.
type Sweeper struct {
	Repo      notes.Repo
	Store     object.ObjectStore
	Retention time.Duration
	Interval  time.Duration

	now func() time.Time
}

// NewSweeper constructs a Sweeper.
func NewSweeper(repo notes.Repo, store object.ObjectStore, retention, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{
		Repo:      repo,
		Store:     store,
		Retention: retention,
		Interval:  interval,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Run launches the periodic sweep. Blocks until ctx.Done().
func (sw *Sweeper) Run(ctx context.Context) {
	telemetry.Info("cleanup.started", map[string]any{"interval": sw.Interval.String()})
	ticker := time.NewTicker(sw.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			telemetry.Info("cleanup.stopped", nil)
			return
		case <-ticker.C:
			result := sw.SweepOnce(ctx)
			if result.RecordsRemoved > 0 || result.ObjectsRemoved > 0 {
				telemetry.Info("cleanup.cycle", map[string]any{
					"records_removed": result.RecordsRemoved,
					"objects_removed": result.ObjectsRemoved,
					"orphans":         result.Orphans,
				})
			}
		}
	}
}

// SweepOnce removes expired records with their files, then orphaned
// objects older than the retention window.
func (sw *Sweeper) SweepOnce(ctx context.Context) SweepResult {
	var result SweepResult
	now := sw.now()

	expired, err := sw.Repo.ListExpired(ctx, now)
	if err != nil {
		telemetry.Warn("cleanup.list_expired", map[string]any{"error": err.Error()})
		return result
	}

	for _, note := range expired {
		removed := 0
		for _, suffix := range []string{".txt", ".md", ".pdf", ".docx"} {
			key := objectPrefix + note.ID + suffix
			if err := sw.Store.Delete(ctx, key); err != nil {
				telemetry.Warn("cleanup.delete_object", map[string]any{"key": key, "error": err.Error()})
				continue
			}
			removed++
		}
		if err := sw.Repo.Delete(ctx, note.ID); err != nil {
			telemetry.Warn("cleanup.delete_record", map[string]any{"note_id": note.ID, "error": err.Error()})
			continue
		}
		result.RecordsRemoved++
		result.ObjectsRemoved += removed
	}

	result.Orphans = sw.sweepOrphans(ctx, now)
	result.ObjectsRemoved += result.Orphans

	metrics.AddFilesSwept(result.ObjectsRemoved)
	return result
}

// sweepOrphans removes stored objects past retention whose record is gone,
// e.g. after a restart cleared the in-memory repo.
func (sw *Sweeper) sweepOrphans(ctx context.Context, now time.Time) int {
	objects, err := sw.Store.List(ctx, objectPrefix)
	if err != nil {
		telemetry.Warn("cleanup.list_objects", map[string]any{"error": err.Error()})
		return 0
	}

	removed := 0
	cutoff := now.Add(-sw.Retention)
	for _, info := range objects {
		if info.Modified.After(cutoff) {
			continue
		}
		if _, err := sw.Repo.GetByID(ctx, noteIDFromKey(info.Key)); err == nil {
			continue
		}
		if err := sw.Store.Delete(ctx, info.Key); err != nil {
			telemetry.Warn("cleanup.delete_orphan", map[string]any{"key": info.Key, "error": err.Error()})
			continue
		}
		removed++
	}
	return removed
}

func noteIDFromKey(key string) string {
	name := strings.TrimPrefix(key, objectPrefix)
	if idx := strings.LastIndex(name, "."); idx > 0 {
		return name[:idx]
	}
	return name
}
