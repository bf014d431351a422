package toolrec

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fyrsmithlabs/advisord/internal/advisory"
	"github.com/fyrsmithlabs/advisord/internal/knowledge"
)

// complexityPenalty discounts tools that exceed the task complexity by
// more than one level.
const complexityPenalty = 0.5

// Rank scores every tool profile by capability coverage.
//
// score = covered / requested, multiplied by complexityPenalty when
// the tool's complexity exceeds the task's by more than one level.
// Zero-coverage profiles are excluded. Ties keep declaration order.
func Rank(base *knowledge.Base, requirements []string, taskComplexity knowledge.Complexity) []advisory.ToolPick {
	wanted := dedupe(requirements)
	if len(wanted) == 0 {
		return nil
	}

	var picks []advisory.ToolPick
	for i := range base.ToolProfiles {
		profile := &base.ToolProfiles[i]

		covered := 0
		for _, tag := range wanted {
			if profile.HasCapability(tag) {
				covered++
			}
		}
		if covered == 0 {
			continue
		}

		score := float64(covered) / float64(len(wanted))
		score = applyComplexityPenalty(score, profile.Complexity, taskComplexity)

		picks = append(picks, advisory.ToolPick{
			ToolID:         profile.ID,
			Score:          score,
			Reason:         fmt.Sprintf("covers %d/%d requested capabilities", covered, len(wanted)),
			RequiredScopes: profile.Scopes,
			RequiresAPIKey: profile.RequiresAPIKey,
		})
	}

	sortPicks(picks)
	return picks
}

// RankByDescription derives candidates from task patterns matched
// against the free-text description.
//
// A pattern matches when at least one of its keywords appears in the
// description (case-insensitive). Each of the pattern's tools scores
// the fraction of pattern keywords found, with the complexity penalty
// applied. A tool keeps its first (highest-priority) score.
func RankByDescription(base *knowledge.Base, description string, taskComplexity knowledge.Complexity) []advisory.ToolPick {
	text := strings.ToLower(description)

	seen := make(map[string]struct{})
	var picks []advisory.ToolPick
	for i := range base.TaskPatterns {
		pattern := &base.TaskPatterns[i]

		hits := 0
		for _, kw := range pattern.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}

		fraction := float64(hits) / float64(len(pattern.Keywords))
		for _, toolID := range pattern.Tools {
			if _, dup := seen[toolID]; dup {
				continue
			}
			seen[toolID] = struct{}{}

			profile, ok := base.ToolByID(toolID)
			if !ok {
				continue
			}
			score := applyComplexityPenalty(fraction, profile.Complexity, taskComplexity)
			picks = append(picks, advisory.ToolPick{
				ToolID:         profile.ID,
				Score:          score,
				Reason:         fmt.Sprintf("matches task pattern %s", pattern.ID),
				RequiredScopes: profile.Scopes,
				RequiresAPIKey: profile.RequiresAPIKey,
			})
		}
	}

	sortPicks(picks)
	return picks
}

// FirstDeclared returns the first cataloged tool with a zero score.
// Answers queries that carry no capability criteria at all.
func FirstDeclared(base *knowledge.Base) []advisory.ToolPick {
	if len(base.ToolProfiles) == 0 {
		return nil
	}
	profile := &base.ToolProfiles[0]
	return []advisory.ToolPick{{
		ToolID:         profile.ID,
		Score:          0,
		Reason:         "no capability criteria given",
		RequiredScopes: profile.Scopes,
		RequiresAPIKey: profile.RequiresAPIKey,
	}}
}

// EstimateComplexity guesses task complexity from the description.
func EstimateComplexity(description string) knowledge.Complexity {
	text := strings.ToLower(description)

	highMarkers := []string{"automate", "workflow", "multiple steps", "end-to-end", "complex", "pipeline"}
	for _, m := range highMarkers {
		if strings.Contains(text, m) {
			return knowledge.ComplexityHigh
		}
	}

	if len(strings.Fields(text)) <= 6 {
		return knowledge.ComplexityLow
	}
	return knowledge.ComplexityMedium
}

// applyComplexityPenalty discounts a score when the tool exceeds the
// task complexity by more than one level.
func applyComplexityPenalty(score float64, tool, task knowledge.Complexity) float64 {
	if tool.Rank() > task.Rank()+1 {
		return score * complexityPenalty
	}
	return score
}

// sortPicks orders best-first; stable so ties keep declaration order.
func sortPicks(picks []advisory.ToolPick) {
	sort.SliceStable(picks, func(i, j int) bool {
		return picks[i].Score > picks[j].Score
	})
}

// dedupe removes duplicates preserving first occurrence order.
func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, item := range items {
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
