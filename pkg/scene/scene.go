package scene

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vanetlab/gemv2/internal/logging"
	"github.com/vanetlab/gemv2/pkg/geom2d"
	"github.com/vanetlab/gemv2/pkg/spatialindex"
)

// DefaultVehicleTreeRebuildInterval is the vehicle tree's default refresh
// period.
const DefaultVehicleTreeRebuildInterval = time.Second

// AllInEllipse groups the three object classes returned by a combined
// ellipse query.
type AllInEllipse struct {
	Buildings []*Building
	Foliage   []*Foliage
	Vehicles  []*Vehicle
}

func buildingIndexer(b *Building) geom2d.Box2D { return b.BoundingBox() }
func buildingShaper(b *Building) geom2d.Shape  { return b.Shape() }

func foliageIndexer(f *Foliage) geom2d.Box2D { return f.BoundingBox() }
func foliageShaper(f *Foliage) geom2d.Shape  { return f.Shape() }

func vehicleIndexer(v *Vehicle) geom2d.Box2D { return v.BoundingBox() }

// vehicleShaper returns a value snapshot of v's current polygon rather
// than v itself: the index captures this at insert/rebuild time and
// tests against the captured copy, not v's live (and mutable) shape, so
// a vehicle that has moved since the last rebuild is still queried as
// of that rebuild.
func vehicleShaper(v *Vehicle) geom2d.Shape { return v.Shape() }

// Scene owns every obstacle in a propagation run: the immutable building
// and foliage trees, the mutable vehicle set, and the lazily rebuilt
// vehicle tree that caches it for querying. It is safe for concurrent
// use: mutation and query methods share a single mutex, matching the
// discipline the design calls for on a container that a caller may
// populate incrementally between queries.
type Scene struct {
	mu sync.Mutex

	buildings *spatialindex.Index[*Building]
	foliage   *spatialindex.Index[*Foliage]

	vehicles     map[*Vehicle]struct{}
	vehicleTree  *spatialindex.Index[*Vehicle]
	lastRebuild  time.Time
	interval     time.Duration
	forceRebuild bool

	logger logging.KeyValueLogger
}

// New creates an empty scene with the default vehicle-tree rebuild
// interval. Buildings and foliage added afterward via AddBuilding /
// AddFoliage go into trees built with plain quadratic-split insertion.
func New() *Scene {
	return &Scene{
		buildings:    spatialindex.New(buildingIndexer, buildingShaper),
		foliage:      spatialindex.New(foliageIndexer, foliageShaper),
		vehicles:     make(map[*Vehicle]struct{}),
		vehicleTree:  spatialindex.New(vehicleIndexer, vehicleShaper),
		interval:     DefaultVehicleTreeRebuildInterval,
		forceRebuild: true,
		logger:       logging.NewZerologAdapter(zerolog.Nop()),
	}
}

// NewFromObstacles creates a scene whose building and foliage trees are
// bulk-loaded from a full, known-up-front obstacle set — the case a WKT
// scene loader is in, and the one the R*-style construction bias is
// worth paying for. Buildings and foliage can still be added later with
// AddBuilding / AddFoliage; those later insertions use plain insertion
// into the already-built tree.
func NewFromObstacles(buildings []*Building, foliage []*Foliage) *Scene {
	return &Scene{
		buildings:    spatialindex.NewStatic(buildingIndexer, buildingShaper, buildings),
		foliage:      spatialindex.NewStatic(foliageIndexer, foliageShaper, foliage),
		vehicles:     make(map[*Vehicle]struct{}),
		vehicleTree:  spatialindex.New(vehicleIndexer, vehicleShaper),
		interval:     DefaultVehicleTreeRebuildInterval,
		forceRebuild: true,
		logger:       logging.NewZerologAdapter(zerolog.Nop()),
	}
}

// SetLogger routes the scene's decision-point logs (vehicle-tree rebuilds)
// through logger instead of a no-op sink.
func (s *Scene) SetLogger(logger zerolog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logging.NewZerologAdapter(logger)
}

// AddBuilding inserts a building into the static building tree. Panics on
// a nil building: inserting a null object is a programmer error, not a
// recoverable condition.
func (s *Scene) AddBuilding(b *Building) {
	if b == nil {
		panic("scene: AddBuilding called with nil building")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buildings.Insert(b)
}

// AddFoliage inserts a foliage patch into the static foliage tree. Panics
// on a nil foliage.
func (s *Scene) AddFoliage(f *Foliage) {
	if f == nil {
		panic("scene: AddFoliage called with nil foliage")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.foliage.Insert(f)
}

// AddVehicle adds v to the vehicle set and forces a vehicle-tree rebuild
// on the next vehicle query. Panics on a nil vehicle.
func (s *Scene) AddVehicle(v *Vehicle) {
	if v == nil {
		panic("scene: AddVehicle called with nil vehicle")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles[v] = struct{}{}
	s.forceRebuild = true
}

// RemoveVehicle removes v from the vehicle set and forces a vehicle-tree
// rebuild on the next vehicle query. Removing a vehicle not currently in
// the scene is a no-op. Removal does not affect the vehicle value itself,
// which the caller may still hold and reuse.
func (s *Scene) RemoveVehicle(v *Vehicle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vehicles[v]; !ok {
		return
	}
	delete(s.vehicles, v)
	s.forceRebuild = true
}

// SetVehicleTreeRebuildInterval changes the minimum time between
// automatic vehicle-tree rebuilds.
func (s *Scene) SetVehicleTreeRebuildInterval(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = d
}

// ForceVehicleTreeRebuild marks the vehicle tree stale regardless of
// elapsed time, so the next vehicle query rebuilds it unconditionally.
func (s *Scene) ForceVehicleTreeRebuild() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forceRebuild = true
}

// checkVehicleTree rebuilds the vehicle tree if forced or if the rebuild
// interval has elapsed since the last rebuild. Must be called with mu
// held.
func (s *Scene) checkVehicleTree(now time.Time) {
	if !s.forceRebuild && !s.lastRebuild.Add(s.interval).Before(now) {
		return
	}
	s.vehicleTree.Clear()
	for v := range s.vehicles {
		s.vehicleTree.Insert(v)
	}
	s.logger.Debug("scene: vehicle tree rebuilt", "vehicle_count", len(s.vehicles), "forced", s.forceRebuild)
	s.lastRebuild = now
	s.forceRebuild = false
}

// IntersectsAnyBuildings reports whether seg crosses any building.
func (s *Scene) IntersectsAnyBuildings(seg geom2d.Segment2D) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return spatialindex.IntersectsAny(s.buildings, seg)
}

// IntersectsAnyFoliage reports whether seg crosses any foliage patch.
func (s *Scene) IntersectsAnyFoliage(seg geom2d.Segment2D) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return spatialindex.IntersectsAny(s.foliage, seg)
}

// IntersectBuildings returns every building seg crosses.
func (s *Scene) IntersectBuildings(seg geom2d.Segment2D) []*Building {
	s.mu.Lock()
	defer s.mu.Unlock()
	return spatialindex.CollectIntersecting(s.buildings, seg, nil)
}

// IntersectFoliage returns every foliage patch seg crosses.
func (s *Scene) IntersectFoliage(seg geom2d.Segment2D) []*Foliage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return spatialindex.CollectIntersecting(s.foliage, seg, nil)
}

// IntersectVehicles returns every vehicle seg crosses, rebuilding the
// vehicle tree first if it is stale as of now.
func (s *Scene) IntersectVehicles(now time.Time, seg geom2d.Segment2D) []*Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkVehicleTree(now)
	return spatialindex.CollectIntersecting(s.vehicleTree, seg, nil)
}

// FindBuildingsInEllipse returns every building satisfying the ellipse
// occupancy predicate for foci f1, f2 and major-diameter rng.
func (s *Scene) FindBuildingsInEllipse(f1, f2 geom2d.Point2D, rng float64) []*Building {
	s.mu.Lock()
	defer s.mu.Unlock()
	return spatialindex.FindInEllipse(s.buildings, f1, f2, rng, nil)
}

// FindFoliageInEllipse returns every foliage patch satisfying the ellipse
// occupancy predicate.
func (s *Scene) FindFoliageInEllipse(f1, f2 geom2d.Point2D, rng float64) []*Foliage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return spatialindex.FindInEllipse(s.foliage, f1, f2, rng, nil)
}

// FindVehiclesInEllipse returns every vehicle satisfying the ellipse
// occupancy predicate, rebuilding the vehicle tree first if stale.
func (s *Scene) FindVehiclesInEllipse(now time.Time, f1, f2 geom2d.Point2D, rng float64) []*Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkVehicleTree(now)
	return spatialindex.FindInEllipse(s.vehicleTree, f1, f2, rng, nil)
}

// FindAllInEllipse runs the ellipse occupancy predicate against every
// object class in one pass, rebuilding the vehicle tree first if stale.
func (s *Scene) FindAllInEllipse(now time.Time, f1, f2 geom2d.Point2D, rng float64) AllInEllipse {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkVehicleTree(now)
	return AllInEllipse{
		Buildings: spatialindex.FindInEllipse(s.buildings, f1, f2, rng, nil),
		Foliage:   spatialindex.FindInEllipse(s.foliage, f1, f2, rng, nil),
		Vehicles:  spatialindex.FindInEllipse(s.vehicleTree, f1, f2, rng, nil),
	}
}

// VehicleCount returns the number of vehicles currently in the scene.
func (s *Scene) VehicleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.vehicles)
}
