package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	notesStartedTotal    atomic.Uint64
	notesCompletedTotal  atomic.Uint64
	notesFailedTotal     atomic.Uint64
	summarizerFallbacks  atomic.Uint64
	exportedFilesSwept   atomic.Uint64

	noteDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncNoteStarted increments the started counter.
func IncNoteStarted() {
	notesStartedTotal.Add(1)
}

// IncNoteCompleted increments the completed counter.
func IncNoteCompleted() {
	notesCompletedTotal.Add(1)
}

// IncNoteFailed increments the failed counter.
func IncNoteFailed() {
	notesFailedTotal.Add(1)
}

// IncSummarizerFallback increments the degraded-summary counter.
func IncSummarizerFallback() {
	summarizerFallbacks.Add(1)
}

// AddFilesSwept records files removed by the cleanup sweep.
func AddFilesSwept(n int) {
	if n > 0 {
		exportedFilesSwept.Add(uint64(n))
	}
}

// ObserveNoteDurationMs records an end-to-end pipeline duration in milliseconds.
func ObserveNoteDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	noteDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "notes_started_total", "Total note requests started", notesStartedTotal.Load())
	writeCounter(&buf, "notes_completed_total", "Total note requests completed", notesCompletedTotal.Load())
	writeCounter(&buf, "notes_failed_total", "Total note requests failed", notesFailedTotal.Load())
	writeCounter(&buf, "summarizer_fallback_total", "Total degraded summaries served", summarizerFallbacks.Load())
	writeCounter(&buf, "exported_files_swept_total", "Total exported files removed by cleanup", exportedFilesSwept.Load())
	writeHistogram(&buf, "note_duration_ms", "Note pipeline duration in milliseconds", noteDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)+1),
	}
}

func (h *histogram) Observe(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	idx := len(h.buckets)
	for i, b := range h.buckets {
		if v <= b {
			idx = i
			break
		}
	}
	h.counts[idx]++
	h.sum += v
	h.count++
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	counts := make([]uint64, len(h.counts))
	copy(counts, h.counts)
	return histogramSnapshot{
		buckets: h.buckets,
		counts:  counts,
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	cumulative := uint64(0)
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=%q} %d\n", name, strconv.FormatFloat(bound, 'f', -1, 64), cumulative)
	}
	cumulative += snap.counts[len(snap.buckets)]
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, cumulative)
	fmt.Fprintf(buf, "%s_sum %s\n", name, strconv.FormatFloat(snap.sum, 'f', -1, 64))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}
