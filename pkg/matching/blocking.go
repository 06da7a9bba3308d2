package matching

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
)

// BlockingKeyKind identifies which attribute combination a blocking
// key encodes.
type BlockingKeyKind string

const (
	BlockLastCity    BlockingKeyKind = "last_city"
	BlockLastZip3    BlockingKeyKind = "last_zip3"
	BlockLastInitial BlockingKeyKind = "last_initial"
)

// BlockingKey is a coarse attribute combination used to restrict full
// comparison to a plausible candidate subset. Values are normalized.
type BlockingKey struct {
	Kind     BlockingKeyKind
	LastName string
	Value    string
}

// String encodes the key for map and cache lookups. Cache users must
// still prefix tenant and dataset; the key alone is not tenant-safe.
func (k BlockingKey) String() string {
	return string(k.Kind) + "|" + k.LastName + "|" + k.Value
}

// normalizedPerson is a person entry with comparison fields
// precomputed once per match request.
type normalizedPerson struct {
	entry     models.PersonEntry
	firstName string
	lastName  string
	address   string
	city      string
	zip       string
	gender    string
	age       int
}

func normalizePerson(entry models.PersonEntry) normalizedPerson {
	age := entry.Age
	if age == 0 {
		age = ageFromRange(entry.AgeRange)
	}
	return normalizedPerson{
		entry:     entry,
		firstName: normalizers.NormalizeName(entry.FirstName),
		lastName:  normalizers.NormalizeName(entry.LastName),
		address:   normalizers.NormalizeAddress(entry.Address),
		city:      normalizers.NormalizeCity(entry.City),
		zip:       normalizers.NormalizeZip(entry.Zip),
		gender:    entry.Gender,
		age:       age,
	}
}

// ageFromRange derives a comparable age from a bracket like "25-34" or
// "65+". Closed brackets use the midpoint; open brackets the lower
// bound plus five. Anything unparseable yields 0, which the age scorer
// treats as no evidence.
func ageFromRange(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	if strings.HasSuffix(s, "+") {
		lo, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(s, "+")))
		if err != nil || lo <= 0 {
			return 0
		}
		return lo + 5
	}

	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		return 0
	}
	low, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return 0
	}
	high, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil || high < low || low <= 0 {
		return 0
	}
	return (low + high) / 2
}

// firstInitial returns the first rune of a normalized name. Byte
// slicing would split a multibyte initial and send invalid UTF-8 to
// the store's CHAR(1) column.
func firstInitial(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	return string(r)
}

// BlockingKeys builds the blocking keys for a person entry. An entry
// with no last name yields no keys and therefore no candidates.
func (p normalizedPerson) BlockingKeys() []BlockingKey {
	if p.lastName == "" {
		return nil
	}

	var keys []BlockingKey
	if p.city != "" {
		keys = append(keys, BlockingKey{Kind: BlockLastCity, LastName: p.lastName, Value: p.city})
	}
	if len(p.zip) == 5 {
		keys = append(keys, BlockingKey{Kind: BlockLastZip3, LastName: p.lastName, Value: p.zip[:3]})
	}
	if p.firstName != "" {
		keys = append(keys, BlockingKey{Kind: BlockLastInitial, LastName: p.lastName, Value: firstInitial(p.firstName)})
	}
	return keys
}

// KeysForRecord builds the blocking keys a voter record is indexed
// under. Mirrors BlockingKeys on the person side; the candidate cache
// uses it to group fetched records per key.
func KeysForRecord(rec *models.VoterRecord) []BlockingKey {
	last := normalizers.NormalizeName(rec.LastName)
	if last == "" {
		return nil
	}

	var keys []BlockingKey
	if city := normalizers.NormalizeCity(rec.City); city != "" {
		keys = append(keys, BlockingKey{Kind: BlockLastCity, LastName: last, Value: city})
	}
	if zip := normalizers.NormalizeZip(rec.Zip); len(zip) == 5 {
		keys = append(keys, BlockingKey{Kind: BlockLastZip3, LastName: last, Value: zip[:3]})
	}
	if first := normalizers.NormalizeName(rec.FirstName); first != "" {
		keys = append(keys, BlockingKey{Kind: BlockLastInitial, LastName: last, Value: firstInitial(first)})
	}
	return keys
}

// Index is an inverted index from blocking key to voter records. Built
// once per dataset (or per fetched batch) and reused across a batch;
// read-only after Build, safe for concurrent lookups.
type Index struct {
	byKey map[string][]*models.VoterRecord
	size  int
}

// BuildIndex indexes voter records under their blocking keys.
func BuildIndex(records []models.VoterRecord) *Index {
	idx := &Index{byKey: make(map[string][]*models.VoterRecord), size: len(records)}
	for i := range records {
		rec := &records[i]
		for _, key := range KeysForRecord(rec) {
			encoded := key.String()
			idx.byKey[encoded] = append(idx.byKey[encoded], rec)
		}
	}
	return idx
}

// Size returns the number of records the index was built from.
func (idx *Index) Size() int {
	return idx.size
}

// Lookup returns the union of records sharing any of the given keys,
// deduplicated and ordered by dataset ordinal, capped at limit.
func (idx *Index) Lookup(keys []BlockingKey, limit int) []*models.VoterRecord {
	seen := make(map[string]struct{})
	var out []*models.VoterRecord

	for _, key := range keys {
		for _, rec := range idx.byKey[key.String()] {
			if _, ok := seen[rec.ID]; ok {
				continue
			}
			seen[rec.ID] = struct{}{}
			out = append(out, rec)
		}
	}

	// Ordinal order keeps downstream tie-breaking deterministic
	// regardless of key iteration order.
	sort.Slice(out, func(i, j int) bool {
		return out[i].Ordinal < out[j].Ordinal
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// MatchesFilters reports whether a voter record passes the dataset's
// geographic filters. Used by the in-memory source; the SQL source
// applies the same restriction in its WHERE clause.
func MatchesFilters(rec *models.VoterRecord, filters models.GeographicFilters) bool {
	if filters.IsZero() {
		return true
	}
	if filters.City != "" && normalizers.NormalizeCity(rec.City) != normalizers.NormalizeCity(filters.City) {
		return false
	}
	if filters.Zip != "" && normalizers.NormalizeZip(rec.Zip) != normalizers.NormalizeZip(filters.Zip) {
		return false
	}
	// District filters are matched against dataset metadata by the
	// store-backed source; the in-memory voter files carry no district
	// columns, so only city/zip apply here.
	return true
}
