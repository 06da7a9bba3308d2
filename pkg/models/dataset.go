package models

import (
	"hash/fnv"
	"strconv"
	"time"
)

// GeographicFilters restrict which voter records are eligible
// candidates for a campaign's dataset assignment. Empty fields are not
// applied.
type GeographicFilters struct {
	CongressionalDistrict string `json:"congressional_district,omitempty" db:"congressional_district"`
	StateSenateDistrict   string `json:"state_senate_district,omitempty" db:"state_senate_district"`
	StateHouseDistrict    string `json:"state_house_district,omitempty" db:"state_house_district"`
	City                  string `json:"city,omitempty" db:"city"`
	Zip                   string `json:"zip,omitempty" db:"zip"`
}

// IsZero reports whether no filter is set.
func (g GeographicFilters) IsZero() bool {
	return g == GeographicFilters{}
}

// Fingerprint returns a short stable digest of the filter set. Cache
// keys include it so changing an assignment's filters invalidates every
// candidate set cached under the old ones.
func (g GeographicFilters) Fingerprint() string {
	h := fnv.New64a()
	for _, part := range []string{g.CongressionalDistrict, g.StateSenateDistrict, g.StateHouseDistrict, g.City, g.Zip} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

// DatasetAssignment binds a tenant's campaign to a voter dataset with
// optional geographic restrictions.
type DatasetAssignment struct {
	ID        string            `json:"id" db:"id"`
	TenantID  string            `json:"tenant_id" db:"tenant_id"`
	DatasetID string            `json:"dataset_id" db:"dataset_id"`
	State     string            `json:"state" db:"state"`
	Filters   GeographicFilters `json:"filters"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" db:"updated_at"`
}
