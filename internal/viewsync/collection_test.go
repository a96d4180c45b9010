package viewsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   string
	Name string
}

func newTestCollection(initial ...record) *Collection[record] {
	c := NewCollection(func(r record) string { return r.ID })
	c.Replace(initial)
	return c
}

func TestCreateAppendsCanonicalRecord(t *testing.T) {
	c := newTestCollection(record{ID: "1", Name: "first"})

	require.NoError(t, c.Begin())
	assert.Equal(t, StatePending, c.State())

	// The server's canonical record wins, not whatever the form held.
	require.NoError(t, c.ConfirmCreate(record{ID: "srv-2", Name: "canonical"}))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "srv-2", items[1].ID)
	assert.Equal(t, StateConfirmed, c.State())
}

func TestUpdateReplacesInPlace(t *testing.T) {
	c := newTestCollection(record{ID: "1", Name: "old"}, record{ID: "2", Name: "other"})

	require.NoError(t, c.Begin())
	require.NoError(t, c.ConfirmUpdate(record{ID: "1", Name: "new"}))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "new", items[0].Name)
	assert.Equal(t, "other", items[1].Name)
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	c := newTestCollection(record{ID: "1"}, record{ID: "2"}, record{ID: "3"})

	require.NoError(t, c.Begin())
	require.NoError(t, c.ConfirmDelete("2"))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "3", items[1].ID)
}

func TestFailureLeavesCollectionUntouched(t *testing.T) {
	c := newTestCollection(record{ID: "1", Name: "only"})

	require.NoError(t, c.Begin())
	require.NoError(t, c.Fail("name is required"))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "only", items[0].Name)
	assert.Equal(t, StateFailed, c.State())
	assert.Equal(t, "name is required", c.FailureReason())

	// The next mutation starts cleanly.
	require.NoError(t, c.Begin())
	assert.Empty(t, c.FailureReason())
}

func TestConfirmWithoutPendingIsRejected(t *testing.T) {
	c := newTestCollection(record{ID: "1"})

	assert.Error(t, c.ConfirmCreate(record{ID: "2"}))
	assert.Error(t, c.ConfirmUpdate(record{ID: "1"}))
	assert.Error(t, c.ConfirmDelete("1"))
	assert.Error(t, c.Fail("nope"))
	assert.Equal(t, 1, c.Len())
}

func TestOnlyOneMutationInFlight(t *testing.T) {
	c := newTestCollection()

	require.NoError(t, c.Begin())
	assert.Error(t, c.Begin())

	require.NoError(t, c.ConfirmCreate(record{ID: "1"}))
	require.NoError(t, c.Begin())
}

func TestSelectionDerivesFromCanonicalData(t *testing.T) {
	c := newTestCollection(record{ID: "1", Name: "before"})

	require.NoError(t, c.Select("1"))
	sel, ok := c.Selected()
	require.True(t, ok)
	assert.Equal(t, "before", sel.Name)

	// A confirmed update refreshes what the selection resolves to.
	require.NoError(t, c.Begin())
	require.NoError(t, c.ConfirmUpdate(record{ID: "1", Name: "after"}))
	sel, ok = c.Selected()
	require.True(t, ok)
	assert.Equal(t, "after", sel.Name)

	// Dismissing the modal clears it.
	c.ClearSelection()
	_, ok = c.Selected()
	assert.False(t, ok)
}

func TestSelectionClearedByDelete(t *testing.T) {
	c := newTestCollection(record{ID: "1"})

	require.NoError(t, c.Select("1"))
	require.NoError(t, c.Begin())
	require.NoError(t, c.ConfirmDelete("1"))

	_, ok := c.Selected()
	assert.False(t, ok)
}

func TestSelectUnknownRecordFails(t *testing.T) {
	c := newTestCollection(record{ID: "1"})
	assert.Error(t, c.Select("ghost"))
}

func TestReplaceResetsMirror(t *testing.T) {
	c := newTestCollection(record{ID: "1"})
	c.Replace([]record{{ID: "a"}, {ID: "b"}})
	assert.Equal(t, 2, c.Len())
}
