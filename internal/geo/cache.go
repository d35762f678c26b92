package geo

import (
	"fmt"
	"sync"

	"walloc/internal/model"
)

// Cache memoizes distances per unordered coordinate pair. Implementations
// must be safe for concurrent use; entries are append-only.
type Cache interface {
	Get(a, b model.GeoPoint) (float64, bool)
	Put(a, b model.GeoPoint, miles float64)
}

// pairKey normalizes the coordinate order so (a,b) and (b,a) collide.
func pairKey(a, b model.GeoPoint) string {
	if b.Lat < a.Lat || (b.Lat == a.Lat && b.Lng < a.Lng) {
		a, b = b, a
	}
	return fmt.Sprintf("%.6f,%.6f|%.6f,%.6f", a.Lat, a.Lng, b.Lat, b.Lng)
}

// MemoCache is the default in-process cache.
type MemoCache struct {
	mu sync.RWMutex
	m  map[string]float64
}

func NewMemoCache() *MemoCache {
	return &MemoCache{m: map[string]float64{}}
}

func (c *MemoCache) Get(a, b model.GeoPoint) (float64, bool) {
	c.mu.RLock()
	d, ok := c.m[pairKey(a, b)]
	c.mu.RUnlock()
	return d, ok
}

func (c *MemoCache) Put(a, b model.GeoPoint, miles float64) {
	c.mu.Lock()
	c.m[pairKey(a, b)] = miles
	c.mu.Unlock()
}
