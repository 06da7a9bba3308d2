// Package normalizers provides field normalization functions for voter matching
package normalizers

import (
	"strings"
	"unicode"
)

// Normalizer is a function that normalizes a string value
type Normalizer func(string) string

// registry holds all registered normalizers
var registry = make(map[string]Normalizer)

func init() {
	Register("lowercase", Lowercase)
	Register("trim", Trim)
	Register("nname", NormalizeName)
	Register("naddress", NormalizeAddress)
	Register("ncity", NormalizeCity)
	Register("nzip", NormalizeZip)
	Register("digits_only", DigitsOnly)
}

// Register adds a normalizer to the registry
func Register(name string, fn Normalizer) {
	registry[name] = fn
}

// Get retrieves a normalizer by name
func Get(name string) (Normalizer, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Apply applies a named normalizer to a value
func Apply(value, normalizer string) string {
	fn, ok := registry[normalizer]
	if !ok {
		return value
	}
	return fn(value)
}

// Built-in normalizers

// Lowercase converts string to lowercase
func Lowercase(s string) string {
	return strings.ToLower(s)
}

// Trim removes leading and trailing whitespace
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// nameSuffixes are generational and professional suffixes stripped
// before name comparison.
var nameSuffixes = []string{" jr.", " jr", " sr.", " sr", " iii", " ii", " iv", " phd", " md", " dds"}

// NormalizeName normalizes a person's name for matching
// - Lowercase
// - Remove common suffixes (Jr., Sr., III, etc.)
// - Remove punctuation except hyphens (double-barreled surnames)
// - Collapse whitespace
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	for _, suffix := range nameSuffixes {
		if strings.HasSuffix(s, suffix) {
			s = s[:len(s)-len(suffix)]
		}
	}

	var result strings.Builder
	prevSpace := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			result.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r):
			if !prevSpace {
				result.WriteRune(' ')
				prevSpace = true
			}
		}
	}

	return strings.TrimSpace(result.String())
}

// streetExpansions maps common street abbreviations to their canonical
// long form. Both sides of a comparison expand to the same token, so
// "123 Main St" and "123 Main Street" normalize identically.
var streetExpansions = map[string]string{
	"st":   "street",
	"str":  "street",
	"ave":  "avenue",
	"av":   "avenue",
	"blvd": "boulevard",
	"dr":   "drive",
	"rd":   "road",
	"ln":   "lane",
	"ct":   "court",
	"cir":  "circle",
	"pl":   "place",
	"ter":  "terrace",
	"hwy":  "highway",
	"pkwy": "parkway",
	"apt":  "apartment",
	"ste":  "suite",
	"n":    "north",
	"s":    "south",
	"e":    "east",
	"w":    "west",
	"ne":   "northeast",
	"nw":   "northwest",
	"se":   "southeast",
	"sw":   "southwest",
}

// NormalizeAddress normalizes a street address line for comparison:
// lowercase, strip punctuation, expand street abbreviations, collapse
// whitespace.
func NormalizeAddress(s string) string {
	s = strings.ToLower(s)

	var cleaned strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			cleaned.WriteRune(r)
		default:
			cleaned.WriteRune(' ')
		}
	}

	tokens := strings.Fields(cleaned.String())
	for i, tok := range tokens {
		if full, ok := streetExpansions[tok]; ok {
			tokens[i] = full
		}
	}

	return strings.Join(tokens, " ")
}

// NormalizeCity lowercases and collapses whitespace in a city name.
func NormalizeCity(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// NormalizeZip strips non-digits and returns exactly 5 digits:
// longer inputs (zip+4) are truncated, shorter ones left-padded with
// zeros. Empty input stays empty.
func NormalizeZip(s string) string {
	digits := DigitsOnly(s)
	if digits == "" {
		return ""
	}
	if len(digits) > 5 {
		return digits[:5]
	}
	for len(digits) < 5 {
		digits = "0" + digits
	}
	return digits
}

// DigitsOnly keeps only digit characters
func DigitsOnly(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}
