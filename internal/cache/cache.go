package cache

import (
	"sync"

	"github.com/vanetlab/gemv2/pkg/scene"
)

// VehicleCache maps vehicle placement names, as they appear in a
// scenario's vehicles.txt, to the live *scene.Vehicle tracked by the
// engine's scene. The scenario loader fills it and the batch runner looks
// vehicles up by name from it.
type VehicleCache struct {
	m        sync.Mutex
	vehicles map[string]*scene.Vehicle
}

// NewVehicleCache creates an empty VehicleCache.
func NewVehicleCache() *VehicleCache {
	return &VehicleCache{
		vehicles: make(map[string]*scene.Vehicle),
	}
}

// Reset clears all cached vehicles.
func (c *VehicleCache) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.vehicles = make(map[string]*scene.Vehicle)
}

// Lock acquires the cache's mutex for callers that need to make several
// operations appear atomic.
func (c *VehicleCache) Lock() {
	c.m.Lock()
}

// Unlock releases the cache's mutex.
func (c *VehicleCache) Unlock() {
	c.m.Unlock()
}

// Get returns the vehicle registered under name, if any.
func (c *VehicleCache) Get(name string) (*scene.Vehicle, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	v, ok := c.vehicles[name]
	return v, ok
}

// Add registers v under name, replacing any previous entry.
func (c *VehicleCache) Add(name string, v *scene.Vehicle) {
	c.m.Lock()
	defer c.m.Unlock()
	c.vehicles[name] = v
}

// Delete removes the vehicle registered under name, if any.
func (c *VehicleCache) Delete(name string) {
	c.m.Lock()
	defer c.m.Unlock()
	delete(c.vehicles, name)
}

// Names returns every registered vehicle name, in no particular order.
func (c *VehicleCache) Names() []string {
	c.m.Lock()
	defer c.m.Unlock()
	names := make([]string, 0, len(c.vehicles))
	for name := range c.vehicles {
		names = append(names, name)
	}
	return names
}

// SafeCounter is a thread-safe integer counter.
type SafeCounter struct {
	mu sync.Mutex
	v  int
}

func (c *SafeCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SafeCounter) Set(v int) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

func (c *SafeCounter) Inc() {
	c.mu.Lock()
	c.v++
	c.mu.Unlock()
}
