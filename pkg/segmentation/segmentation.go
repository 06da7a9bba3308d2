// Package segmentation buckets matched voters by vote frequency for
// outreach targeting.
package segmentation

import (
	"github.com/Ramsey-B/fern/pkg/models"
)

// Config holds the vote-score cutoffs between segments. Scores are on
// [0, 1], derived from elections voted out of the last four.
type Config struct {
	SuperThreshold     float64 `env:"SEGMENT_SUPER_THRESHOLD" env-default:"0.75"`
	SometimesThreshold float64 `env:"SEGMENT_SOMETIMES_THRESHOLD" env-default:"0.35"`
}

// DefaultConfig returns the standard segment cutoffs: 3-4 of the last
// four elections is a super-voter, 2 is a sometimes-voter, 0-1 is a
// rarely-voter.
func DefaultConfig() Config {
	return Config{
		SuperThreshold:     0.75,
		SometimesThreshold: 0.35,
	}
}

// Segmenter assigns voter segments from vote scores. Segments are only
// meaningful for confirmed or user-accepted matches; unmatched people
// have no vote history to segment on.
type Segmenter struct {
	cfg Config
}

// NewSegmenter creates a new segmenter.
func NewSegmenter(cfg Config) *Segmenter {
	return &Segmenter{cfg: cfg}
}

// Segment maps a vote score to a segment. Pure and deterministic; the
// same score always lands in the same segment.
func (s *Segmenter) Segment(voteScore float64) models.VoterSegment {
	switch {
	case voteScore >= s.cfg.SuperThreshold:
		return models.SegmentSuperVoter
	case voteScore >= s.cfg.SometimesThreshold:
		return models.SegmentSometimesVoter
	default:
		return models.SegmentRarelyVoter
	}
}

// SegmentRecord segments a voter record by its vote history.
func (s *Segmenter) SegmentRecord(rec models.VoterRecord) models.VoterSegment {
	return s.Segment(rec.VoteScore())
}
