package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type recorder struct {
	selected, edited, deleted []int64
}

func (r *recorder) handlers() Handlers {
	return Handlers{
		OnSelect: func(id int64) { r.selected = append(r.selected, id) },
		OnEdit:   func(id int64) { r.edited = append(r.edited, id) },
		OnDelete: func(id int64) { r.deleted = append(r.deleted, id) },
	}
}

func actionable() ListItem {
	return ListItem{ID: 3, Actions: Actions{ShowEdit: true, ShowDelete: true}}
}

func TestDispatch_SelectDoesNotDelete(t *testing.T) {
	var rec recorder
	ran := Dispatch(Event{Target: TargetItem, ItemID: 3}, actionable(), rec.handlers())

	assert.True(t, ran)
	assert.Equal(t, []int64{3}, rec.selected)
	assert.Empty(t, rec.deleted)
	assert.Empty(t, rec.edited)
}

func TestDispatch_DeleteDoesNotSelect(t *testing.T) {
	var rec recorder
	ran := Dispatch(Event{Target: TargetDelete, ItemID: 3}, actionable(), rec.handlers())

	assert.True(t, ran)
	assert.Equal(t, []int64{3}, rec.deleted)
	assert.Empty(t, rec.selected)
}

func TestDispatch_EditDoesNotSelect(t *testing.T) {
	var rec recorder
	Dispatch(Event{Target: TargetEdit, ItemID: 3}, actionable(), rec.handlers())

	assert.Equal(t, []int64{3}, rec.edited)
	assert.Empty(t, rec.selected)
}

func TestDispatch_HiddenActionsAreDropped(t *testing.T) {
	var rec recorder
	item := ListItem{ID: 3}

	assert.False(t, Dispatch(Event{Target: TargetDelete, ItemID: 3}, item, rec.handlers()))
	assert.False(t, Dispatch(Event{Target: TargetEdit, ItemID: 3}, item, rec.handlers()))
	assert.Empty(t, rec.deleted)
	assert.Empty(t, rec.edited)
	assert.Empty(t, rec.selected)
}

func TestDispatch_NilHandler(t *testing.T) {
	assert.False(t, Dispatch(Event{Target: TargetItem, ItemID: 1}, actionable(), Handlers{}))
}

func TestDispatch_ExactlyOneHandler(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		var rec recorder
		target := Target(rapid.IntRange(0, 2).Draw(rt, "target"))
		id := rapid.Int64Range(1, 1000).Draw(rt, "id")

		Dispatch(Event{Target: target, ItemID: id}, actionable(), rec.handlers())

		total := len(rec.selected) + len(rec.edited) + len(rec.deleted)
		require.Equal(rt, 1, total)
		switch target {
		case TargetItem:
			require.Equal(rt, []int64{id}, rec.selected)
		case TargetEdit:
			require.Equal(rt, []int64{id}, rec.edited)
		case TargetDelete:
			require.Equal(rt, []int64{id}, rec.deleted)
		}
	})
}

func TestParseTarget(t *testing.T) {
	tg, err := ParseTarget("delete")
	require.NoError(t, err)
	assert.Equal(t, TargetDelete, tg)

	tg, err = ParseTarget("")
	require.NoError(t, err)
	assert.Equal(t, TargetItem, tg)

	_, err = ParseTarget("drag")
	assert.Error(t, err)
}
