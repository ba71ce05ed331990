package store

import (
	"testing"

	"github.com/hardhatlabs/constructpro/internal/model"
	"github.com/hardhatlabs/constructpro/internal/notify"
	"github.com/stretchr/testify/require"
)

// crudHarness wires a Crud to a plain slice, standing in for the store.
type crudHarness struct {
	items    []model.Personnel
	recorder *notify.Recorder
	crud     *Crud[model.Personnel]
}

func newCrudHarness(items ...model.Personnel) *crudHarness {
	h := &crudHarness{items: items, recorder: &notify.Recorder{}}
	h.crud = NewCrud("Personnel",
		func() []model.Personnel { return h.items },
		func(next []model.Personnel) { h.items = next },
		h.recorder)
	return h
}

func TestCrudAddAssignsDistinctIDs(t *testing.T) {
	h := newCrudHarness()

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		p := h.crud.Add(model.Personnel{Name: "worker"})
		require.NotEmpty(t, p.ID)
		require.False(t, seen[p.ID], "ids must be unique")
		seen[p.ID] = true
	}
	require.Len(t, h.items, 5)
}

func TestCrudAddKeepsProvidedID(t *testing.T) {
	h := newCrudHarness()

	p := h.crud.Add(model.Personnel{ID: "per-7", Name: "Foreman"})
	require.Equal(t, "per-7", p.ID)

	notes := h.recorder.All()
	require.Len(t, notes, 1)
	require.Equal(t, notify.Success, notes[0].Severity)
}

func TestCrudUpdatePreservesIDAndOrder(t *testing.T) {
	h := newCrudHarness(
		model.Personnel{ID: "a", Name: "Anna"},
		model.Personnel{ID: "b", Name: "Boris"},
		model.Personnel{ID: "c", Name: "Carla"},
	)

	// The replacement carries a different id; the matched one wins.
	updated, ok := h.crud.Update("b", model.Personnel{ID: "zzz", Name: "Bogdan"})
	require.True(t, ok)
	require.Equal(t, "b", updated.ID)
	require.Equal(t, "Bogdan", updated.Name)

	require.Equal(t, []string{"a", "b", "c"}, idsOf(h.items))
	require.Equal(t, "Anna", h.items[0].Name)
	require.Equal(t, "Carla", h.items[2].Name)
}

func TestCrudUpdateMissingIDIsNoOp(t *testing.T) {
	h := newCrudHarness(model.Personnel{ID: "a", Name: "Anna"})

	_, ok := h.crud.Update("ghost", model.Personnel{Name: "Nobody"})
	require.False(t, ok)
	require.Len(t, h.items, 1)
	require.Equal(t, "Anna", h.items[0].Name)

	notes := h.recorder.All()
	require.Len(t, notes, 1)
	require.Equal(t, notify.Warning, notes[0].Severity)
}

func TestCrudDeleteReturnsRemoved(t *testing.T) {
	h := newCrudHarness(
		model.Personnel{ID: "a", Name: "Anna"},
		model.Personnel{ID: "b", Name: "Boris"},
	)

	removed, ok := h.crud.Delete("a")
	require.True(t, ok)
	require.Equal(t, "Anna", removed.Name)
	require.Equal(t, []string{"b"}, idsOf(h.items))

	_, ok = h.crud.Delete("a")
	require.False(t, ok)
}

func TestCrudFind(t *testing.T) {
	h := newCrudHarness(model.Personnel{ID: "a", Name: "Anna"})

	got, ok := h.crud.Find("a")
	require.True(t, ok)
	require.Equal(t, "Anna", got.Name)

	_, ok = h.crud.Find("nope")
	require.False(t, ok)
}

func TestCrudListReturnsSnapshot(t *testing.T) {
	h := newCrudHarness(model.Personnel{ID: "a", Name: "Anna"})

	list := h.crud.List()
	list[0].Name = "Mutated"
	require.Equal(t, "Anna", h.items[0].Name)
}

func idsOf(items []model.Personnel) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}
