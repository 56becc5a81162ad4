package tracker

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Collection is the in-memory set of tracked series, keyed by series ID.
// Refreshes replace the set wholesale; entry saves mutate fields in place so
// locally-held metadata is never dropped by a partial update. Reads take a
// shared lock, so the matcher and the player can read concurrently with a
// background refresh.
type Collection struct {
	mu     sync.RWMutex
	series map[int64]*Series
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{series: make(map[int64]*Series)}
}

// Refresh replaces the collection with the service's current list.
func (c *Collection) Refresh(ctx context.Context, svc Service) error {
	list, err := svc.List(ctx)
	if err != nil {
		return fmt.Errorf("refresh list: %w", err)
	}
	next := make(map[int64]*Series, len(list))
	for _, s := range list {
		next[s.ID] = s
	}

	c.mu.Lock()
	c.series = next
	c.mu.Unlock()
	return nil
}

// Replace swaps in a prebuilt list, used when loading a cached snapshot.
func (c *Collection) Replace(list []*Series) {
	next := make(map[int64]*Series, len(list))
	for _, s := range list {
		next[s.ID] = s
	}
	c.mu.Lock()
	c.series = next
	c.mu.Unlock()
}

// Get returns the series with the given ID, or nil.
func (c *Collection) Get(id int64) *Series {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.series[id]
}

// Remove drops a series from the collection.
func (c *Collection) Remove(id int64) {
	c.mu.Lock()
	delete(c.series, id)
	c.mu.Unlock()
}

// Len returns the number of tracked series.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.series)
}

// All returns the series ordered by ID. Lookups that take "the first match"
// depend on this order being stable between calls.
func (c *Collection) All() []*Series {
	c.mu.RLock()
	list := make([]*Series, 0, len(c.series))
	for _, s := range c.series {
		list = append(list, s)
	}
	c.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
