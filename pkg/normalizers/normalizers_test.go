package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	t.Run("LowercasesAndTrims", func(t *testing.T) {
		assert.Equal(t, "mary ann", NormalizeName("  Mary   Ann  "))
	})

	t.Run("StripsGenerationalSuffix", func(t *testing.T) {
		assert.Equal(t, "robert smith", NormalizeName("Robert Smith Jr."))
		assert.Equal(t, "robert smith", NormalizeName("Robert Smith Jr"))
		assert.Equal(t, "henry ford", NormalizeName("Henry Ford III"))
	})

	t.Run("RemovesPunctuation", func(t *testing.T) {
		assert.Equal(t, "obrien", NormalizeName("O'Brien"))
		assert.Equal(t, "st james", NormalizeName("St. James"))
	})

	t.Run("KeepsHyphenatedSurnames", func(t *testing.T) {
		assert.Equal(t, "smith-jones", NormalizeName("Smith-Jones"))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, "", NormalizeName(""))
		assert.Equal(t, "", NormalizeName("   "))
	})
}

func TestNormalizeAddress(t *testing.T) {
	t.Run("ExpandsStreetAbbreviations", func(t *testing.T) {
		assert.Equal(t, "123 north main street", NormalizeAddress("123 N. Main St."))
		assert.Equal(t, "456 oak avenue apartment 2b", NormalizeAddress("456 Oak Ave, Apt 2B"))
	})

	t.Run("AlreadyLongForm", func(t *testing.T) {
		assert.Equal(t, "123 north main street", NormalizeAddress("123 North Main Street"))
	})

	t.Run("AbbreviatedAndLongFormsConverge", func(t *testing.T) {
		assert.Equal(t,
			NormalizeAddress("742 Evergreen Ter."),
			NormalizeAddress("742 Evergreen Terrace"),
		)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, "", NormalizeAddress(""))
	})
}

func TestNormalizeCity(t *testing.T) {
	assert.Equal(t, "new york", NormalizeCity("  New   York "))
	assert.Equal(t, "charlotte", NormalizeCity("CHARLOTTE"))
	assert.Equal(t, "", NormalizeCity(""))
}

func TestNormalizeZip(t *testing.T) {
	t.Run("StripsZipPlusFour", func(t *testing.T) {
		assert.Equal(t, "28202", NormalizeZip("28202-1234"))
	})

	t.Run("PadsShortZips", func(t *testing.T) {
		assert.Equal(t, "00921", NormalizeZip("921"))
	})

	t.Run("RemovesNonDigits", func(t *testing.T) {
		assert.Equal(t, "28202", NormalizeZip(" 28202 "))
		assert.Equal(t, "", NormalizeZip("abc"))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, "", NormalizeZip(""))
	})
}

func TestRegistry(t *testing.T) {
	t.Run("Apply", func(t *testing.T) {
		assert.Equal(t, "abc", Apply("ABC", "lowercase"))
		assert.Equal(t, "123", Apply("a1b2c3", "digits_only"))
	})

	t.Run("UnknownNormalizerReturnsInput", func(t *testing.T) {
		assert.Equal(t, "ABC", Apply("ABC", "no-such-normalizer"))
	})

	t.Run("Get", func(t *testing.T) {
		fn, ok := Get("nname")
		assert.True(t, ok)
		assert.Equal(t, "robert smith", fn("Robert Smith Jr."))

		_, ok = Get("missing")
		assert.False(t, ok)
	})
}
