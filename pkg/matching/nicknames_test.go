package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNicknameTable(t *testing.T) {
	table := NewNicknameTable(nil)

	t.Run("EquivalentPairs", func(t *testing.T) {
		assert.True(t, table.Equivalent("bob", "robert"))
		assert.True(t, table.Equivalent("robert", "bob"))
		assert.True(t, table.Equivalent("bill", "william"))
		assert.True(t, table.Equivalent("peggy", "margaret"))
	})

	t.Run("SharedAliasBridgesGroups", func(t *testing.T) {
		// "steve" appears under both steven and stephen
		assert.True(t, table.Equivalent("steven", "stephen"))
		// "jon" appears under both john and jonathan
		assert.True(t, table.Equivalent("john", "jonathan"))
	})

	t.Run("IdenticalNamesAreNotNicknames", func(t *testing.T) {
		assert.False(t, table.Equivalent("bob", "bob"))
	})

	t.Run("UnrelatedNames", func(t *testing.T) {
		assert.False(t, table.Equivalent("bob", "william"))
		assert.False(t, table.Equivalent("xavier", "yolanda"))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.False(t, table.Equivalent("", "robert"))
		assert.False(t, table.Equivalent("bob", ""))
	})

	t.Run("ExtraGroups", func(t *testing.T) {
		extended := NewNicknameTable([][]string{{"guadalupe", "lupe"}})
		assert.True(t, extended.Equivalent("guadalupe", "lupe"))
		assert.False(t, table.Equivalent("guadalupe", "lupe"))
	})

	t.Run("ExtraGroupMergesExistingClasses", func(t *testing.T) {
		// A custom group spanning the robert and william classes must
		// collapse both, including members the group never names.
		merged := NewNicknameTable([][]string{{"rob", "will"}})
		assert.True(t, merged.Equivalent("rob", "will"))
		assert.True(t, merged.Equivalent("bob", "bill"))
		assert.True(t, merged.Equivalent("bobby", "liam"))
		assert.True(t, merged.Equivalent("robert", "william"))
		// Pre-existing equivalences survive the merge.
		assert.True(t, merged.Equivalent("bob", "robert"))
		assert.True(t, merged.Equivalent("bill", "william"))
	})
}
