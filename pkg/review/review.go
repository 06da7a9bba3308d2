// Package review implements the human override workflow for ambiguous
// or misclassified match results.
package review

import (
	"errors"
	"math"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/segmentation"
)

var (
	// ErrInvalidCandidateIndex is returned when an accept action names a
	// candidate position outside the result's candidate list.
	ErrInvalidCandidateIndex = errors.New("candidate index out of range")
	// ErrInvalidTransition is returned when the requested status change
	// is not a permitted reviewer action.
	ErrInvalidTransition = errors.New("invalid match status transition")
)

// Reviewer applies manual accept and reject decisions to match results.
// A reviewer decision always wins over the automatic classification.
type Reviewer struct {
	segmenter *segmentation.Segmenter
}

// NewReviewer creates a new reviewer.
func NewReviewer(segmenter *segmentation.Segmenter) *Reviewer {
	return &Reviewer{segmenter: segmenter}
}

// AcceptCandidate confirms the candidate at idx as the correct match.
// On an out-of-range index the result is left untouched. Accepting is
// idempotent: repeating the same accept yields the same result.
func (r *Reviewer) AcceptCandidate(result *models.MatchResult, idx int) error {
	if idx < 0 || idx >= len(result.Candidates) {
		return ErrInvalidCandidateIndex
	}
	if !result.Status.CanTransitionTo(models.MatchStatusConfirmed) {
		return ErrInvalidTransition
	}

	chosen := result.Candidates[idx].VoterRecord
	result.BestMatch = &chosen
	result.Status = models.MatchStatusConfirmed
	result.VoteScore = chosen.VoteScore()
	result.Segment = r.segmenter.Segment(result.VoteScore)
	result.UserConfirmed = true
	return nil
}

// RejectAll marks the result as having no correct candidate. The person
// stays in the default outreach category. Idempotent.
func (r *Reviewer) RejectAll(result *models.MatchResult) error {
	if !result.Status.CanTransitionTo(models.MatchStatusUnmatched) {
		return ErrInvalidTransition
	}

	result.BestMatch = nil
	result.Status = models.MatchStatusUnmatched
	result.VoteScore = 0
	result.Segment = ""
	result.UserConfirmed = true
	return nil
}

// RecomputeStats rebuilds batch aggregates from the current state of
// the results. Called after matching and after every review action so
// the numbers always reflect overrides.
func RecomputeStats(results []models.MatchResult) models.BatchStats {
	stats := models.BatchStats{Total: len(results)}
	for _, result := range results {
		switch result.Status {
		case models.MatchStatusConfirmed:
			stats.MatchedCount++
		case models.MatchStatusAmbiguous:
			stats.Ambiguous++
		default:
			stats.Unmatched++
		}
	}
	if stats.Total > 0 {
		rate := float64(stats.MatchedCount) / float64(stats.Total) * 100
		stats.ValidityRate = math.Round(rate*10) / 10
	}
	return stats
}
