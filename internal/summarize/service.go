package summarize

import (
	"context"
	"strings"

	"autonote-backend/internal/shared/metrics"
	"autonote-backend/internal/shared/telemetry"
)

// Client abstracts summarization providers.
type Client interface {
	Summarize(ctx context.Context, text string) ([]string, error)
	Name() string
}

const maxChunkChars = 4000

// Service turns extracted text into a StructuredNote, falling back to the
// heuristic summarizer when no provider is configured or the provider fails.
// Exactly one fallback attempt is made; a degraded note is a success.
type Service struct {
	Client Client
}

// Notes summarizes text into bullet points.
func (s *Service) Notes(ctx context.Context, text string) (StructuredNote, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return StructuredNote{}, ErrEmptyInput
	}

	if s.Client == nil {
		return s.fallback(trimmed, "no provider configured"), nil
	}

	bullets, err := s.summarizeChunks(ctx, trimmed)
	if err != nil {
		return s.fallback(trimmed, err.Error()), nil
	}
	if len(bullets) == 0 {
		return s.fallback(trimmed, "provider returned no bullets"), nil
	}

	return StructuredNote{Bullets: bullets, Provider: s.Client.Name()}, nil
}

func (s *Service) summarizeChunks(ctx context.Context, text string) ([]string, error) {
	if len(text) <= maxChunkChars {
		raw, err := s.Client.Summarize(ctx, text)
		if err != nil {
			return nil, err
		}
		return cleanBullets(raw), nil
	}

	var bullets []string
	for _, chunk := range chunkText(text, maxChunkChars) {
		if len(strings.TrimSpace(chunk)) < 50 {
			continue
		}
		raw, err := s.Client.Summarize(ctx, chunk)
		if err != nil {
			return nil, err
		}
		bullets = append(bullets, cleanBullets(raw)...)
	}
	return bullets, nil
}

func (s *Service) fallback(text, reason string) StructuredNote {
	telemetry.Warn("summarize.fallback", map[string]any{"reason": reason})
	metrics.IncSummarizerFallback()
	return StructuredNote{
		Bullets:  heuristicBullets(text),
		Degraded: true,
		Provider: "heuristic",
	}
}

// chunkText splits text on word boundaries into pieces of at most maxChars.
func chunkText(text string, maxChars int) []string {
	words := strings.Fields(text)
	var chunks []string
	var current []string
	size := 0
	for _, w := range words {
		current = append(current, w)
		size += len(w) + 1
		if size >= maxChars {
			chunks = append(chunks, strings.Join(current, " "))
			current = nil
			size = 0
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// cleanBullets strips list markers and drops empty or heading lines from
// provider output.
func cleanBullets(lines []string) []string {
	var out []string
	for _, line := range lines {
		s := strings.TrimSpace(line)
		s = strings.TrimLeft(s, "-*•")
		s = trimOrdinal(s)
		s = strings.TrimSpace(s)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out
}

func trimOrdinal(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && (s[i] == '.' || s[i] == ')') {
		return s[i+1:]
	}
	return s
}
