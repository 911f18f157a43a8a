package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeClient struct {
	bullets []string
	err     error
	calls   int
}

func (f *fakeClient) Summarize(_ context.Context, _ string) ([]string, error) {
	f.calls++
	return f.bullets, f.err
}

func (f *fakeClient) Name() string { return "fake" }

func TestNotesEmptyInput(t *testing.T) {
	svc := &Service{}
	if _, err := svc.Notes(context.Background(), "   \n\t "); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestNotesNoProviderFallsBack(t *testing.T) {
	svc := &Service{}
	note, err := svc.Notes(context.Background(), "Go is a statically typed language. The key feature is simplicity. It compiles fast.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !note.Degraded {
		t.Fatal("expected degraded note without a provider")
	}
	if note.Provider != "heuristic" {
		t.Fatalf("provider = %q, want heuristic", note.Provider)
	}
	if len(note.Bullets) == 0 {
		t.Fatal("expected non-empty bullets from fallback")
	}
}

func TestNotesProviderErrorFallsBackOnce(t *testing.T) {
	client := &fakeClient{err: errors.New("quota exhausted")}
	svc := &Service{Client: client}

	note, err := svc.Notes(context.Background(), "The main idea is resilience. Systems should keep serving when a dependency dies. This is essential to uptime.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.calls != 1 {
		t.Fatalf("provider called %d times, want 1", client.calls)
	}
	if !note.Degraded || note.Provider != "heuristic" {
		t.Fatalf("expected degraded heuristic note, got %+v", note)
	}
	if len(note.Bullets) == 0 {
		t.Fatal("fallback produced no bullets")
	}
}

func TestNotesProviderSuccess(t *testing.T) {
	client := &fakeClient{bullets: []string{"- First point", "* Second point", "", "3. Third point"}}
	svc := &Service{Client: client}

	note, err := svc.Notes(context.Background(), "Some meaningful document content that needs summarizing into notes.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if note.Degraded {
		t.Fatal("provider succeeded but note marked degraded")
	}
	if note.Provider != "fake" {
		t.Fatalf("provider = %q, want fake", note.Provider)
	}
	want := []string{"First point", "Second point", "Third point"}
	if len(note.Bullets) != len(want) {
		t.Fatalf("bullets = %v, want %v", note.Bullets, want)
	}
	for i := range want {
		if note.Bullets[i] != want[i] {
			t.Fatalf("bullet %d = %q, want %q", i, note.Bullets[i], want[i])
		}
	}
}

func TestNotesProviderEmptyOutputFallsBack(t *testing.T) {
	client := &fakeClient{bullets: []string{"", "   ", "# Heading only"}}
	svc := &Service{Client: client}

	note, err := svc.Notes(context.Background(), "A document where the provider returns nothing useful at all for the summary.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !note.Degraded {
		t.Fatal("expected fallback when provider yields no usable bullets")
	}
}

func TestNotesLongInputChunks(t *testing.T) {
	client := &fakeClient{bullets: []string{"- chunk summary"}}
	svc := &Service{Client: client}

	long := strings.Repeat("word ", 2500) // ~12500 chars, 4 chunks
	note, err := svc.Notes(context.Background(), long)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.calls < 2 {
		t.Fatalf("expected chunked calls, got %d", client.calls)
	}
	if len(note.Bullets) != client.calls {
		t.Fatalf("bullets = %d, want one per chunk (%d)", len(note.Bullets), client.calls)
	}
}
