package matching

// Config contains the tunable parameters for the match engine.
type Config struct {
	ConfirmThreshold   float64 // status=confirmed at or above (default: 0.70)
	AmbiguousThreshold float64 // status=ambiguous at or above (default: 0.55)
	NearTieEpsilon     float64 // top-two gap below which a confirm is downgraded (default: 0.05)
	NicknameScore      float64 // name score for nickname-equivalent first names (default: 0.90)
	AgeWindowYears     int     // age score decays to zero past this many years (default: 5)
	TopN               int     // candidates kept per result (default: 5)
	MaxCandidates      int     // blocking-stage cap per person (default: 500)
	MaxBatchSize       int     // person entries per batch call (default: 100)

	// FieldWeights is the evidentiary weight per field. Names weigh
	// highest since they are required on the person entry; age and
	// gender act as tie-breakers.
	FieldWeights FieldWeights

	// ExtraNicknames extends the built-in nickname table.
	ExtraNicknames [][]string
}

// FieldWeights holds the per-field weights used in the composite score.
type FieldWeights struct {
	FirstName float64
	LastName  float64
	Address   float64
	City      float64
	Zip       float64
	Age       float64
	Gender    float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ConfirmThreshold:   0.70,
		AmbiguousThreshold: 0.55,
		NearTieEpsilon:     0.05,
		NicknameScore:      0.90,
		AgeWindowYears:     5,
		TopN:               5,
		MaxCandidates:      500,
		MaxBatchSize:       100,
		FieldWeights: FieldWeights{
			FirstName: 0.25,
			LastName:  0.25,
			Address:   0.20,
			City:      0.10,
			Zip:       0.10,
			Age:       0.05,
			Gender:    0.05,
		},
	}
}
