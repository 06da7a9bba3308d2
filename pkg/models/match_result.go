package models

// MatchStatus is the outcome classification of a match attempt.
type MatchStatus string

const (
	MatchStatusConfirmed MatchStatus = "confirmed"
	MatchStatusAmbiguous MatchStatus = "ambiguous"
	MatchStatusUnmatched MatchStatus = "unmatched"
)

// CanTransitionTo reports whether a reviewer action may move a result
// from this status to the target status. Automatic re-matching is not
// a reviewer action and must go through an explicit force path.
func (s MatchStatus) CanTransitionTo(target MatchStatus) bool {
	switch s {
	case MatchStatusConfirmed, MatchStatusAmbiguous, MatchStatusUnmatched:
		return target == MatchStatusConfirmed || target == MatchStatusUnmatched
	default:
		return false
	}
}

// ConfidenceLevel labels a candidate's score band for reviewers.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// Candidate is a scored pairing of a person entry with one voter
// record.
type Candidate struct {
	VoterRecord VoterRecord     `json:"voter_record"`
	Score       float64         `json:"score"`
	Confidence  ConfidenceLevel `json:"confidence"`
	MatchedOn   []string        `json:"matched_on"`
}

// VoterSegment is the outreach priority bucket for a confirmed match.
type VoterSegment string

const (
	SegmentSuperVoter     VoterSegment = "super-voter"
	SegmentSometimesVoter VoterSegment = "sometimes-voter"
	SegmentRarelyVoter    VoterSegment = "rarely-voter"
)

// MatchResult is the outcome of matching one person entry. Created by
// the ranker; mutated only by the review workflow.
type MatchResult struct {
	PersonEntry PersonEntry  `json:"person_entry"`
	Candidates  []Candidate  `json:"candidates"`
	BestMatch   *VoterRecord `json:"best_match,omitempty"`
	Status      MatchStatus  `json:"status"`
	VoteScore   float64      `json:"vote_score,omitempty"`
	Segment     VoterSegment `json:"segment,omitempty"`

	// UserConfirmed is set once a human has explicitly accepted or
	// rejected this result. Re-matching must not silently overwrite a
	// user-confirmed result.
	UserConfirmed bool `json:"user_confirmed"`
}

// BatchMatchResponse is the synchronous response for a batch match.
type BatchMatchResponse struct {
	Results          []MatchResult `json:"results"`
	SkippedCount     int           `json:"skipped_count"`
	ProcessingTimeMs int64         `json:"processing_time_ms"`
}

// BatchStats are the aggregate statistics recomputed after matching or
// after any review action.
type BatchStats struct {
	Total        int     `json:"total" db:"total"`
	MatchedCount int     `json:"matched_count" db:"matched_count"`
	Ambiguous    int     `json:"ambiguous" db:"ambiguous"`
	Unmatched    int     `json:"unmatched" db:"unmatched"`
	ValidityRate float64 `json:"validity_rate" db:"-"` // percentage, one decimal place
}
