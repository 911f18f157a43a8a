package summarize

import (
	"regexp"
	"strings"
)

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// Sentences containing these read as load-bearing and are kept first.
var keywordHints = []string{"important", "key", "main", "significant", "crucial", "essential", "primary"}

const (
	minSentenceLen = 20
	maxBullets     = 5
	minBullets     = 3
)

// heuristicBullets produces a degraded but valid summary without any model:
// the opening sentence plus keyword-bearing sentences, padded to a minimum.
func heuristicBullets(text string) []string {
	raw := sentenceSplit.Split(text, -1)
	var sentences []string
	for _, s := range raw {
		if trimmed := strings.TrimSpace(s); len(trimmed) > minSentenceLen {
			sentences = append(sentences, trimmed)
		}
	}
	if len(sentences) == 0 {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return []string{trimmed}
		}
		return nil
	}

	bullets := []string{sentences[0]}
	for _, s := range sentences[1:] {
		if len(bullets) >= maxBullets {
			break
		}
		lower := strings.ToLower(s)
		for _, kw := range keywordHints {
			if strings.Contains(lower, kw) {
				bullets = append(bullets, s)
				break
			}
		}
	}

	for _, s := range sentences[1:] {
		if len(bullets) >= minBullets {
			break
		}
		if !contains(bullets, s) {
			bullets = append(bullets, s)
		}
	}

	for i, b := range bullets {
		if !strings.HasSuffix(b, ".") {
			bullets[i] = b + "."
		}
	}
	return bullets
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
