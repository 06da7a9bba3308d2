package matching

import (
	"math"

	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"
)

// fieldScore is one field's contribution to the composite. Evidence is
// false when either side is missing the field: the field is then
// excluded from both the numerator and the weight denominator, so a
// candidate is never penalized for data the person never supplied.
type fieldScore struct {
	score    float64
	evidence bool
}

func noEvidence() fieldScore {
	return fieldScore{}
}

func evidence(score float64) fieldScore {
	return fieldScore{score: score, evidence: true}
}

// Scorer computes per-field similarity scores between a person entry
// and a candidate voter record. Inputs are assumed normalized.
type Scorer struct {
	nicknames *NicknameTable
	cfg       Config
}

// NewScorer creates a new Scorer.
func NewScorer(cfg Config) *Scorer {
	return &Scorer{
		nicknames: NewNicknameTable(cfg.ExtraNicknames),
		cfg:       cfg,
	}
}

// FirstName scores two normalized first names. Exact match scores 1.0;
// nickname-equivalent names score the configured nickname bonus; other
// pairs fall back to fuzzy similarity.
func (s *Scorer) FirstName(a, b string) fieldScore {
	if a == "" || b == "" {
		return noEvidence()
	}
	if a == b {
		return evidence(1.0)
	}
	if s.nicknames.Equivalent(a, b) {
		return evidence(s.cfg.NicknameScore)
	}
	return evidence(similarity(a, b))
}

// LastName scores two normalized last names via fuzzy similarity.
func (s *Scorer) LastName(a, b string) fieldScore {
	if a == "" || b == "" {
		return noEvidence()
	}
	if a == b {
		return evidence(1.0)
	}
	return evidence(similarity(a, b))
}

// Address scores two normalized street lines. A missing address on
// either side is no evidence, not a penalty.
func (s *Scorer) Address(a, b string) fieldScore {
	if a == "" || b == "" {
		return noEvidence()
	}
	if a == b {
		return evidence(1.0)
	}
	return evidence(similarity(a, b))
}

// City is an exact-match boolean on normalized city names.
func (s *Scorer) City(a, b string) fieldScore {
	if a == "" || b == "" {
		return noEvidence()
	}
	if a == b {
		return evidence(1.0)
	}
	return evidence(0.0)
}

// Zip scores normalized 5-digit zips: exact 1.0, shared 3-digit prefix
// 0.5, otherwise 0.
func (s *Scorer) Zip(a, b string) fieldScore {
	if len(a) != 5 || len(b) != 5 {
		return noEvidence()
	}
	if a == b {
		return evidence(1.0)
	}
	if a[:3] == b[:3] {
		return evidence(0.5)
	}
	return evidence(0.0)
}

// Age scores age closeness with linear decay over the configured year
// window. Zero or out-of-range ages are no evidence.
func (s *Scorer) Age(a, b int) fieldScore {
	if a <= 0 || b <= 0 {
		return noEvidence()
	}
	window := s.cfg.AgeWindowYears
	if window <= 0 {
		window = 5
	}
	diff := math.Abs(float64(a - b))
	if diff >= float64(window) {
		return evidence(0.0)
	}
	return evidence(1.0 - diff/float64(window))
}

// Gender is an exact-match boolean, excluded when either side is
// unknown.
func (s *Scorer) Gender(a, b string) fieldScore {
	if a == "" || b == "" {
		return noEvidence()
	}
	if a == b {
		return evidence(1.0)
	}
	return evidence(0.0)
}

// similarity blends Jaro-Winkler with a Levenshtein ratio, taking the
// higher of the two. Jaro-Winkler favors shared prefixes (good for
// names); the Levenshtein ratio catches transposition-heavy typos.
func similarity(a, b string) float64 {
	jw := smetrics.JaroWinkler(a, b, 0.7, 4)

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1.0
	}
	lev := 1.0 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)

	if lev > jw {
		return lev
	}
	return jw
}
