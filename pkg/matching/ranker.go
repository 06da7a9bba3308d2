package matching

import (
	"sort"
	"time"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
)

// Ranker scores candidates against a person entry and classifies the
// result. Pure computation: no I/O, no randomness, no wall-clock
// dependence beyond the injected reference time used for age
// derivation.
type Ranker struct {
	scorer *Scorer
	cfg    Config
	now    time.Time
}

// NewRanker creates a Ranker. The reference time is fixed at
// construction so a batch scores ages consistently.
func NewRanker(cfg Config, now time.Time) *Ranker {
	return &Ranker{
		scorer: NewScorer(cfg),
		cfg:    cfg,
		now:    now,
	}
}

// scoredCandidate pairs a candidate with its tie-break key.
type scoredCandidate struct {
	candidate models.Candidate
	ordinal   int
}

// Rank computes the match result for one person entry against its
// candidate records. Candidates are scored field by field, combined
// with evidence-weighted normalization, sorted descending with
// dataset-ordinal tie-breaks, truncated to top-N, and classified.
func (r *Ranker) Rank(entry models.PersonEntry, records []*models.VoterRecord) models.MatchResult {
	person := normalizePerson(entry)
	return r.rankNormalized(person, records)
}

func (r *Ranker) rankNormalized(person normalizedPerson, records []*models.VoterRecord) models.MatchResult {
	scored := make([]scoredCandidate, 0, len(records))
	for _, rec := range records {
		candidate, ok := r.scoreCandidate(person, rec)
		if !ok {
			continue
		}
		scored = append(scored, scoredCandidate{candidate: candidate, ordinal: rec.Ordinal})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].candidate.Score != scored[j].candidate.Score {
			return scored[i].candidate.Score > scored[j].candidate.Score
		}
		return scored[i].ordinal < scored[j].ordinal
	})

	topN := r.cfg.TopN
	if topN <= 0 {
		topN = 5
	}
	if len(scored) > topN {
		scored = scored[:topN]
	}

	candidates := make([]models.Candidate, len(scored))
	for i, sc := range scored {
		candidates[i] = sc.candidate
	}

	result := models.MatchResult{
		PersonEntry: person.entry,
		Candidates:  candidates,
		Status:      r.classify(candidates),
	}

	if result.Status == models.MatchStatusConfirmed || result.Status == models.MatchStatusAmbiguous {
		best := candidates[0].VoterRecord
		result.BestMatch = &best
	}

	return result
}

// scoreCandidate computes the composite score for one voter record.
// Returns ok=false when the record is unusable (no name to compare),
// which skips that candidate only.
func (r *Ranker) scoreCandidate(person normalizedPerson, rec *models.VoterRecord) (models.Candidate, bool) {
	recFirst := normalizers.NormalizeName(rec.FirstName)
	recLast := normalizers.NormalizeName(rec.LastName)
	if recFirst == "" && recLast == "" {
		return models.Candidate{}, false
	}

	weights := r.cfg.FieldWeights

	type weighted struct {
		name   string
		score  fieldScore
		weight float64
	}

	fields := []weighted{
		{"first_name", r.scorer.FirstName(person.firstName, recFirst), weights.FirstName},
		{"last_name", r.scorer.LastName(person.lastName, recLast), weights.LastName},
		{"address", r.scorer.Address(person.address, normalizers.NormalizeAddress(rec.ResidentialAddress)), weights.Address},
		{"city", r.scorer.City(person.city, normalizers.NormalizeCity(rec.City)), weights.City},
		{"zip", r.scorer.Zip(person.zip, normalizers.NormalizeZip(rec.Zip)), weights.Zip},
		{"age", r.scorer.Age(person.age, rec.Age(r.now)), weights.Age},
		{"gender", r.scorer.Gender(person.gender, rec.Gender), weights.Gender},
	}

	var scoreSum, totalWeight float64
	var matchedOn []string

	for _, f := range fields {
		if !f.score.evidence || f.weight <= 0 {
			continue
		}
		scoreSum += f.score.score * f.weight
		totalWeight += f.weight
		if f.score.score > 0 {
			matchedOn = append(matchedOn, f.name)
		}
	}

	if totalWeight == 0 {
		return models.Candidate{}, false
	}

	score := scoreSum / totalWeight

	return models.Candidate{
		VoterRecord: *rec,
		Score:       score,
		Confidence:  r.confidence(score),
		MatchedOn:   matchedOn,
	}, true
}

// confidence maps a composite score to the reviewer-facing tier.
func (r *Ranker) confidence(score float64) models.ConfidenceLevel {
	switch {
	case score >= 0.85:
		return models.ConfidenceHigh
	case score >= r.cfg.ConfirmThreshold:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// classify applies the threshold trichotomy plus the near-tie
// downgrade: two near-duplicate records both above the confirm
// threshold (a parent/child pair at the same address, typically) go to
// human review instead of silently picking one.
func (r *Ranker) classify(candidates []models.Candidate) models.MatchStatus {
	if len(candidates) == 0 {
		return models.MatchStatusUnmatched
	}

	top := candidates[0].Score
	if top < r.cfg.AmbiguousThreshold {
		return models.MatchStatusUnmatched
	}
	if top < r.cfg.ConfirmThreshold {
		return models.MatchStatusAmbiguous
	}

	if len(candidates) > 1 {
		runnerUp := candidates[1].Score
		if runnerUp >= r.cfg.ConfirmThreshold && top-runnerUp < r.cfg.NearTieEpsilon {
			return models.MatchStatusAmbiguous
		}
	}

	return models.MatchStatusConfirmed
}
