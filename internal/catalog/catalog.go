// Package catalog keeps a short-lived copy of the equipment list, used to
// fill the equipment dropdowns and to check that a loan references an
// existing item.
package catalog

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"prestamos-admin/internal/events"
	"prestamos-admin/internal/model"
)

const equipmentKey = "equipment"

// Source fetches the authoritative equipment list.
type Source interface {
	ListEquipment(ctx context.Context) ([]model.Equipment, error)
}

// Catalog caches the equipment list for ttl.
type Catalog struct {
	source Source
	store  *cache.Cache
	ttl    time.Duration
}

// New creates a catalog over source.
func New(source Source, ttl time.Duration) *Catalog {
	return &Catalog{
		source: source,
		store:  cache.New(ttl, 2*ttl),
		ttl:    ttl,
	}
}

// Equipment returns the cached list, fetching it when missing or expired.
func (c *Catalog) Equipment(ctx context.Context) ([]model.Equipment, error) {
	if cached, found := c.store.Get(equipmentKey); found {
		return clone(cached.([]model.Equipment)), nil
	}
	return c.Refresh(ctx)
}

// Refresh always fetches from the source and replaces the cached list.
func (c *Catalog) Refresh(ctx context.Context) ([]model.Equipment, error) {
	items, err := c.source.ListEquipment(ctx)
	if err != nil {
		return nil, err
	}
	c.store.Set(equipmentKey, clone(items), c.ttl)
	return items, nil
}

// Invalidate drops the cached list.
func (c *Catalog) Invalidate() {
	c.store.Delete(equipmentKey)
}

// HandleEvent invalidates the list whenever equipment changes.
func (c *Catalog) HandleEvent(e events.Event) {
	if e.Kind == events.EquipmentCreated {
		c.Invalidate()
	}
}

func clone(items []model.Equipment) []model.Equipment {
	out := make([]model.Equipment, len(items))
	copy(out, items)
	return out
}
