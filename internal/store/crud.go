package store

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/hardhatlabs/constructpro/internal/logger"
	"github.com/hardhatlabs/constructpro/internal/notify"
)

// Entity is anything with a stable string id. WithEntityID returns a copy
// rather than mutating, so collections can be treated as immutable
// snapshots.
type Entity[T any] interface {
	EntityID() string
	WithEntityID(id string) T
}

// Crud binds add/update/delete operations to one collection through a
// getter and a setter. It updates in-memory state synchronously and is
// indifferent to persistence: write-back is the setter owner's concern,
// which keeps this factory testable without a storage dependency.
type Crud[T Entity[T]] struct {
	label    string
	get      func() []T
	set      func([]T)
	notifier notify.Notifier
}

// NewCrud builds an operations object for one collection. label is the
// human-readable item-type name used in notifications.
func NewCrud[T Entity[T]](label string, get func() []T, set func([]T), notifier notify.Notifier) *Crud[T] {
	return &Crud[T]{label: label, get: get, set: set, notifier: notifier}
}

// List returns a snapshot of the collection.
func (c *Crud[T]) List() []T {
	return slices.Clone(c.get())
}

// Find returns the entity with the given id.
func (c *Crud[T]) Find(id string) (T, bool) {
	for _, item := range c.get() {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Add appends an item, assigning a fresh id when it has none, and returns
// the stored item.
func (c *Crud[T]) Add(item T) T {
	if item.EntityID() == "" {
		item = item.WithEntityID(uuid.NewString())
	}

	items := slices.Clone(c.get())
	items = append(items, item)
	c.set(items)

	c.notifier.Notify(
		fmt.Sprintf("%s added", c.label),
		fmt.Sprintf("%s %q saved", c.label, item.EntityID()),
		notify.Success,
	)
	return item
}

// Update replaces the entity whose id matches. The id is immutable:
// whatever id the replacement carries is overwritten with the matched one.
// Order is preserved and non-matching entities are untouched. A missing
// id is a no-op apart from a warning.
func (c *Crud[T]) Update(id string, item T) (T, bool) {
	items := c.get()
	idx := slices.IndexFunc(items, func(e T) bool { return e.EntityID() == id })
	if idx < 0 {
		logger.Warn("Update for unknown id", logger.F("label", c.label), logger.F("id", id))
		c.notifier.Notify(
			fmt.Sprintf("%s not found", c.label),
			fmt.Sprintf("no %s with id %q", c.label, id),
			notify.Warning,
		)
		var zero T
		return zero, false
	}

	out := slices.Clone(items)
	out[idx] = item.WithEntityID(id)
	c.set(out)

	c.notifier.Notify(
		fmt.Sprintf("%s updated", c.label),
		fmt.Sprintf("%s %q saved", c.label, id),
		notify.Success,
	)
	return out[idx], true
}

// Delete removes the entity whose id matches and returns it.
func (c *Crud[T]) Delete(id string) (T, bool) {
	items := c.get()
	idx := slices.IndexFunc(items, func(e T) bool { return e.EntityID() == id })
	if idx < 0 {
		logger.Warn("Delete for unknown id", logger.F("label", c.label), logger.F("id", id))
		c.notifier.Notify(
			fmt.Sprintf("%s not found", c.label),
			fmt.Sprintf("no %s with id %q", c.label, id),
			notify.Warning,
		)
		var zero T
		return zero, false
	}

	removed := items[idx]
	out := slices.Clone(items)
	out = slices.Delete(out, idx, idx+1)
	c.set(out)

	c.notifier.Notify(
		fmt.Sprintf("%s removed", c.label),
		fmt.Sprintf("%s %q removed", c.label, id),
		notify.Success,
	)
	return removed, true
}
