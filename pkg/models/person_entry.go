package models

// CategoryDefault is the relationship category assigned when the
// submitter did not pick one.
const CategoryDefault = "who-did-we-miss"

// PersonEntry is a user-submitted "who do you know" record to be
// matched against a voter file. Names are not validated here: entries
// without usable names are skipped and counted by the engine rather
// than failing the batch.
type PersonEntry struct {
	ID        string `json:"id" validate:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	Zip       string `json:"zip,omitempty" validate:"omitempty,len=5,numeric"`
	Age       int    `json:"age,omitempty" validate:"omitempty,min=18,max=120"`
	AgeRange  string `json:"age_range,omitempty"`
	Gender    string `json:"gender,omitempty" validate:"omitempty,oneof=M F"`
	Category  string `json:"category,omitempty"`
}

// HasRequiredFields reports whether the entry carries the minimum
// fields needed to attempt a match.
func (p *PersonEntry) HasRequiredFields() bool {
	return p.FirstName != "" && p.LastName != ""
}
