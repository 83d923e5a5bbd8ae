package memstore

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID   string
	Ver  int
	Text string
	Tags []string
}

func (n note) Key() string  { return n.ID }
func (n note) Version() int { return n.Ver }
func (n note) Clone() note {
	n.Tags = append([]string(nil), n.Tags...)
	return n
}
func (n note) WithMeta(id string, version int) note {
	n.ID = id
	n.Ver = version
	return n
}

func newNotes(seed ...note) *Collection[note] {
	return New("notes", Sequential, seed)
}

func TestNew_SeedKeepsIDsAndStartsAtVersionOne(t *testing.T) {
	c := newNotes(note{ID: "1", Text: "a"}, note{ID: "2", Text: "b"})
	all := c.All()
	require.Len(t, all, 2)
	assert.Equal(t, "1", all[0].ID)
	assert.Equal(t, 1, all[0].Ver)
	assert.Equal(t, "b", all[1].Text)
}

func TestInsert_IDsContinueAfterSeed(t *testing.T) {
	c := newNotes(note{ID: "1"}, note{ID: "2"})
	n, err := c.Insert(note{Text: "c"})
	require.NoError(t, err)
	assert.Equal(t, "3", n.ID)
	assert.Equal(t, 1, n.Ver)
	assert.Equal(t, 3, c.Len())
}

func TestInsert_IDsAreNotReusedAfterDelete(t *testing.T) {
	c := newNotes(note{ID: "1"}, note{ID: "2"})
	require.NoError(t, c.Delete("2"))
	n, err := c.Insert(note{})
	require.NoError(t, err)
	assert.Equal(t, "3", n.ID, "id must not be derived from collection length")
}

func TestInsert_DuplicateID(t *testing.T) {
	c := newNotes(note{ID: "1"})
	_, err := c.Insert(note{ID: "1"})
	assert.True(t, errors.Is(err, ErrDuplicateID))
}

func TestInsert_ExplicitIDAdvancesSequence(t *testing.T) {
	c := newNotes()
	_, err := c.Insert(note{ID: "10"})
	require.NoError(t, err)
	n, err := c.Insert(note{})
	require.NoError(t, err)
	assert.Equal(t, "11", n.ID)
}

func TestGet_ReturnsClone(t *testing.T) {
	c := newNotes(note{ID: "1", Tags: []string{"x"}})
	n, ok := c.Get("1")
	require.True(t, ok)
	n.Tags[0] = "mutated"

	again, _ := c.Get("1")
	assert.Equal(t, "x", again.Tags[0])
}

func TestGet_Missing(t *testing.T) {
	c := newNotes()
	_, ok := c.Get("nope")
	assert.False(t, ok)
}

func TestAll_SnapshotUnaffectedByLaterWrites(t *testing.T) {
	c := newNotes(note{ID: "1", Text: "before"})
	snap := c.All()

	_, err := c.Update("1", 0, func(n note) (note, error) {
		n.Text = "after"
		return n, nil
	})
	require.NoError(t, err)
	_, err = c.Insert(note{Text: "new"})
	require.NoError(t, err)

	assert.Len(t, snap, 1)
	assert.Equal(t, "before", snap[0].Text)
}

func TestUpdate_BumpsVersionAndKeepsID(t *testing.T) {
	c := newNotes(note{ID: "1"})
	n, err := c.Update("1", 1, func(n note) (note, error) {
		n.ID = "hijack"
		n.Text = "edited"
		return n, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "1", n.ID)
	assert.Equal(t, 2, n.Ver)
	assert.Equal(t, "edited", n.Text)
}

func TestUpdate_VersionConflict(t *testing.T) {
	c := newNotes(note{ID: "1"})
	_, err := c.Update("1", 0, func(n note) (note, error) { return n, nil })
	require.NoError(t, err)

	_, err = c.Update("1", 1, func(n note) (note, error) { return n, nil })
	assert.True(t, errors.Is(err, ErrVersionConflict))
}

func TestUpdate_CallbackErrorLeavesRecord(t *testing.T) {
	c := newNotes(note{ID: "1", Text: "keep"})
	boom := errors.New("boom")
	_, err := c.Update("1", 0, func(n note) (note, error) {
		n.Text = "lost"
		return n, boom
	})
	assert.ErrorIs(t, err, boom)
	n, _ := c.Get("1")
	assert.Equal(t, "keep", n.Text)
	assert.Equal(t, 1, n.Ver)
}

func TestUpdate_NotFound(t *testing.T) {
	c := newNotes()
	_, err := c.Update("1", 0, func(n note) (note, error) { return n, nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	c := newNotes(note{ID: "1"}, note{ID: "2"}, note{ID: "3"})
	require.NoError(t, c.Delete("2"))
	all := c.All()
	require.Len(t, all, 2)
	assert.Equal(t, "1", all[0].ID)
	assert.Equal(t, "3", all[1].ID)
	assert.ErrorIs(t, c.Delete("2"), ErrNotFound)
}

func TestFilter_PreservesOrder(t *testing.T) {
	c := newNotes(note{ID: "1", Text: "a"}, note{ID: "2", Text: "b"}, note{ID: "3", Text: "a"})
	got := c.Filter(func(n note) bool { return n.Text == "a" })
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
}

func TestReset_RestoresSeedAndSequence(t *testing.T) {
	seed := []note{{ID: "1"}, {ID: "2"}}
	c := newNotes(seed...)
	_, _ = c.Insert(note{})
	_, _ = c.Insert(note{})

	c.Reset(seed)
	assert.Equal(t, 2, c.Len())
	n, err := c.Insert(note{})
	require.NoError(t, err)
	assert.Equal(t, "3", n.ID)
}

func TestRandomIDs(t *testing.T) {
	c := New[note]("notes", Random, nil)
	n, err := c.Insert(note{})
	require.NoError(t, err)
	_, err = uuid.Parse(n.ID)
	assert.NoError(t, err)
}

func TestStrategy(t *testing.T) {
	for _, name := range []string{"", "sequence", "uuid"} {
		_, ok := Strategy(name)
		assert.True(t, ok, name)
	}
	_, ok := Strategy("snowflake")
	assert.False(t, ok)
}

func uniqueText(item note, others []note) (note, error) {
	for _, o := range others {
		if o.Text == item.Text {
			return item, errors.New("text taken")
		}
	}
	return item, nil
}

func TestSetCheck_RejectsInsertAndUpdate(t *testing.T) {
	c := newNotes(note{ID: "1", Text: "a"}, note{ID: "2", Text: "b"})
	c.SetCheck(uniqueText)

	_, err := c.Insert(note{Text: "a"})
	assert.EqualError(t, err, "text taken")
	assert.Equal(t, 2, c.Len())

	_, err = c.Update("2", 0, func(n note) (note, error) {
		n.Text = "a"
		return n, nil
	})
	assert.EqualError(t, err, "text taken")
	n, _ := c.Get("2")
	assert.Equal(t, "b", n.Text)
	assert.Equal(t, 1, n.Ver)
}

func TestSetCheck_UpdateIgnoresOwnRecord(t *testing.T) {
	c := newNotes(note{ID: "1", Text: "a"})
	c.SetCheck(uniqueText)
	n, err := c.Update("1", 0, func(n note) (note, error) {
		n.Tags = []string{"x"}
		return n, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "a", n.Text)
	assert.Equal(t, 2, n.Ver)
}

func TestSetCheck_CanRewriteItem(t *testing.T) {
	c := newNotes(note{ID: "1", Text: "a"})
	c.SetCheck(func(item note, others []note) (note, error) {
		item.Text += "!"
		item.ID = "ignored"
		return item, nil
	})
	n, err := c.Insert(note{Text: "b"})
	require.NoError(t, err)
	assert.Equal(t, "2", n.ID)
	assert.Equal(t, "b!", n.Text)
	got, _ := c.Get("2")
	assert.Equal(t, "b!", got.Text)
}
