package diagnose

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fyrsmithlabs/advisord/internal/knowledge"
)

// statusBonus is added to a pattern's score when the HTTP status
// matches exactly. Scores are clamped to 1 by the formatter.
const statusBonus = 0.3

// statusPattern extracts a 4xx/5xx status code embedded in a message.
var statusPattern = regexp.MustCompile(`\b([45][0-9]{2})\b`)

// Match finds the best error pattern for the message.
//
// score = matched keywords / pattern keywords, plus statusBonus on an
// exact status match. Patterns with zero keyword overlap are excluded
// even when the status matches. Returns nil when nothing overlaps.
// Ties keep declaration order.
func Match(base *knowledge.Base, message, observed string, status int) (*knowledge.ErrorPattern, float64) {
	text := strings.ToLower(message)
	if observed != "" {
		text += " " + strings.ToLower(observed)
	}

	if status == 0 {
		status = ExtractStatus(message)
	}

	var best *knowledge.ErrorPattern
	bestScore := 0.0
	for i := range base.ErrorPatterns {
		pattern := &base.ErrorPatterns[i]

		hits := 0
		for _, kw := range pattern.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}

		score := float64(hits) / float64(len(pattern.Keywords))
		if status != 0 && pattern.Status == status {
			score += statusBonus
		}
		if score > 1 {
			score = 1
		}

		// Strict comparison keeps the earliest declared pattern on ties.
		if score > bestScore {
			best = pattern
			bestScore = score
		}
	}

	return best, bestScore
}

// ExtractStatus pulls an HTTP status code out of an error message.
// Returns 0 when none is present.
func ExtractStatus(message string) int {
	m := statusPattern.FindStringSubmatch(message)
	if m == nil {
		return 0
	}
	status, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return status
}
