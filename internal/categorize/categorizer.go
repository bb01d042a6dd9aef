// Package categorize assigns a spending category to a receipt vendor.
package categorize

import (
	"context"
	"strings"
)

// Uncategorized is returned when no candidate fits the vendor
const Uncategorized = "Other"

// separator joins candidate categories into the flattened form categorizers receive
const separator = ", "

// Categorizer picks one category for a vendor from a flattened candidate list
type Categorizer interface {
	Categorize(ctx context.Context, vendor string, categories string) (string, error)
}

// Join flattens candidate categories into "A, B, C"
func Join(categories []string) string {
	return strings.Join(categories, separator)
}

// Split recovers the candidate labels from a flattened list, dropping blanks
func Split(categories string) []string {
	var labels []string
	for _, label := range strings.Split(categories, ",") {
		label = strings.TrimSpace(label)
		if label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

// matchCandidate maps a free-form model answer onto one of the candidates.
// Without candidates the trimmed answer is returned as-is.
func matchCandidate(answer string, candidates []string) string {
	answer = strings.Trim(strings.TrimSpace(answer), `"'.`)
	if answer == "" {
		return Uncategorized
	}
	if len(candidates) == 0 {
		return answer
	}

	for _, c := range candidates {
		if strings.EqualFold(c, answer) {
			return c
		}
	}
	lower := strings.ToLower(answer)
	for _, c := range candidates {
		if strings.Contains(lower, strings.ToLower(c)) {
			return c
		}
	}
	return Uncategorized
}
