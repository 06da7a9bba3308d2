package models

import (
	"strconv"
	"time"
)

// RecentElectionCount is the number of recent elections the vote
// frequency signal is measured over.
const RecentElectionCount = 4

// VoterRecord is one row from a voter file or dataset. Reference data;
// never mutated by the matcher.
type VoterRecord struct {
	ID                 string `json:"id" db:"id"`
	FirstName          string `json:"first_name" db:"first_name"`
	LastName           string `json:"last_name" db:"last_name"`
	ResidentialAddress string `json:"residential_address" db:"residential_address"`
	City               string `json:"city" db:"city"`
	State              string `json:"state" db:"state"`
	Zip                string `json:"zip" db:"zip"`
	BirthYear          string `json:"birth_year" db:"birth_year"`
	Gender             string `json:"gender" db:"gender"`
	PartyAffiliation   string `json:"party_affiliation" db:"party_affiliation"`
	VoterStatus        string `json:"voter_status" db:"voter_status"`

	// VoteFrequency counts elections voted out of the last
	// RecentElectionCount. Used only for post-match segmentation.
	VoteFrequency int `json:"vote_frequency" db:"vote_frequency"`

	// Ordinal is the record's position in its source dataset. It is the
	// stable secondary sort key that keeps rankings deterministic.
	Ordinal int `json:"ordinal" db:"ordinal"`
}

// Age derives the voter's age from the birth year string at the given
// reference time. Returns 0 when the birth year is missing or
// malformed.
func (v *VoterRecord) Age(now time.Time) int {
	year, err := strconv.Atoi(v.BirthYear)
	if err != nil || year <= 0 {
		return 0
	}
	age := now.Year() - year
	if age < 0 || age > 150 {
		return 0
	}
	return age
}

// VoteScore normalizes the vote frequency signal to 0..1.
func (v *VoterRecord) VoteScore() float64 {
	if v.VoteFrequency <= 0 {
		return 0
	}
	if v.VoteFrequency >= RecentElectionCount {
		return 1
	}
	return float64(v.VoteFrequency) / float64(RecentElectionCount)
}
