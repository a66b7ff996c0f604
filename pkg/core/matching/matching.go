package matching

import (
	"sort"

	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
)

// OverlapChecker answers whether a worker already has a commitment in an interval.
// *availability.Index implements it.
type OverlapChecker interface {
	Overlaps(workerID string, iv model.Interval) bool
}

// RankedCandidate is an eligible worker together with the skills that matched
type RankedCandidate struct {
	Worker model.Worker

	// Score is the size of the skill intersection
	Score int

	// MatchedSkills are ordered by their position in the requirement list
	MatchedSkills []string
}

// PrimarySkill returns the highest ranked matched skill
func (c RankedCandidate) PrimarySkill() string {
	if len(c.MatchedSkills) == 0 {
		return ""
	}
	return c.MatchedSkills[0]
}

// Match returns the workers eligible for the requirement list, ranked by skill overlap.
//
// A worker is eligible when at least one of their skills appears in required and
// they have no commitment overlapping interval. Candidates are ordered by descending
// score, ties broken by ascending worker ID. Match has no side effects.
func Match(required []string, pool []model.Worker, index OverlapChecker, interval model.Interval) []RankedCandidate {
	position := make(map[string]int, len(required))
	for i, skill := range required {
		if _, seen := position[skill]; !seen {
			position[skill] = i
		}
	}

	candidates := make([]RankedCandidate, 0)
	for _, worker := range pool {
		matched := matchedSkills(worker.Skills, position)
		if len(matched) == 0 {
			continue
		}
		if index != nil && index.Overlaps(worker.ID, interval) {
			continue
		}

		candidates = append(candidates, RankedCandidate{
			Worker:        worker,
			Score:         len(matched),
			MatchedSkills: matched,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Worker.ID < candidates[j].Worker.ID
	})

	return candidates
}

// matchedSkills returns the worker skills present in position, ordered by that position
func matchedSkills(skills []string, position map[string]int) []string {
	seen := make(map[string]bool, len(skills))
	matched := make([]string, 0, len(skills))
	for _, skill := range skills {
		if _, ok := position[skill]; !ok || seen[skill] {
			continue
		}
		seen[skill] = true
		matched = append(matched, skill)
	}

	sort.Slice(matched, func(i, j int) bool {
		return position[matched[i]] < position[matched[j]]
	})
	return matched
}
