// Package spatialindex wraps github.com/dhconnelly/rtreego's R-tree with a
// generic, entry-type-parameterized index following the two-stage query
// pattern used throughout the propagation engine: a cheap bounding-box
// filter at the tree level, followed by an exact geometric predicate
// evaluated through a per-entry shape adapter.
package spatialindex

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/vanetlab/gemv2/pkg/geom2d"
)

const (
	minChildren = 4
	maxChildren = 16
)

// Indexer extracts the bounding box the tree should key an entry by.
type Indexer[T any] func(T) geom2d.Box2D

// Shaper extracts the exact geometry an entry should be tested against
// once the tree's bounding-box filter has narrowed the candidate set —
// the "shape adapter" of the design.
type Shaper[T any] func(T) geom2d.Shape

// entry adapts a value of type T to rtreego.Spatial so it can live in the
// underlying tree. shape is captured from the Shaper at insert time and
// never recomputed: the exact-filter stage must test the geometry as of
// the last rebuild, the same instant the bounding box (rect) was taken
// from, not whatever the live value looks like when the query runs. For
// a mutable T (e.g. a vehicle that has since moved), reading the live
// shape here would make the tree-level bbox filter and the exact filter
// disagree about which instant in time they're testing.
type entry[T any] struct {
	value T
	rect  rtreego.Rect
	shape geom2d.Shape
}

func (e *entry[T]) Bounds() rtreego.Rect { return e.rect }

// Index is a generic spatial index over entries of type T.
type Index[T any] struct {
	tree    *rtreego.Rtree
	indexer Indexer[T]
	shaper  Shaper[T]
}

// New creates an empty index, entries inserted one at a time with
// rtreego's quadratic-split algorithm — appropriate for a tree that is
// rebuilt frequently, such as the vehicle tree.
func New[T any](indexer Indexer[T], shaper Shaper[T]) *Index[T] {
	return &Index[T]{
		tree:    rtreego.NewTree(2, minChildren, maxChildren),
		indexer: indexer,
		shaper:  shaper,
	}
}

// NewStatic builds an index from a fixed, known-up-front entry set.
// rtreego only implements one split strategy (quadratic), so to
// approximate the query-optimized R*-style construction the design calls
// for on trees that are populated once and queried many times (buildings,
// foliage), entries are pre-sorted with a Sort-Tile-Recursive pass before
// sequential insertion: this packs spatially-close entries into the same
// leaves, which is the main practical benefit an R*-style build gives over
// insertion order alone.
func NewStatic[T any](indexer Indexer[T], shaper Shaper[T], entries []T) *Index[T] {
	idx := New(indexer, shaper)
	for _, e := range strSort(entries, indexer) {
		idx.insert(e)
	}
	return idx
}

// strSort orders entries by a Sort-Tile-Recursive pass: sort by the
// bounding box center's X coordinate, slice into ceil(sqrt(n)) vertical
// strips, then sort each strip by Y.
func strSort[T any](entries []T, indexer Indexer[T]) []T {
	n := len(entries)
	if n <= 1 {
		return entries
	}
	out := make([]T, n)
	copy(out, entries)

	sort.Slice(out, func(i, j int) bool {
		return indexer(out[i]).Center().X < indexer(out[j]).Center().X
	})

	stripCount := int(math.Ceil(math.Sqrt(float64(n))))
	if stripCount < 1 {
		stripCount = 1
	}
	stripSize := (n + stripCount - 1) / stripCount

	for start := 0; start < n; start += stripSize {
		end := min(start+stripSize, n)
		strip := out[start:end]
		sort.Slice(strip, func(i, j int) bool {
			return indexer(strip[i]).Center().Y < indexer(strip[j]).Center().Y
		})
	}
	return out
}

func toRect(b geom2d.Box2D) rtreego.Rect {
	width := b.Max.X - b.Min.X
	height := b.Max.Y - b.Min.Y
	// rtreego rejects zero-length sides; give point-like boxes a tiny
	// footprint so they can still be indexed.
	const epsilon = 1e-9
	if width <= 0 {
		width = epsilon
	}
	if height <= 0 {
		height = epsilon
	}
	rect, err := rtreego.NewRect(rtreego.Point{b.Min.X, b.Min.Y}, []float64{width, height})
	if err != nil {
		// Only NaN/Inf coordinates or non-positive lengths reach here,
		// both of which are programmer errors upstream (see geom2d.Point2D.Finite).
		panic("spatialindex: invalid bounding box: " + err.Error())
	}
	return rect
}

func (idx *Index[T]) insert(v T) *entry[T] {
	e := &entry[T]{value: v, rect: toRect(idx.indexer(v)), shape: idx.shaper(v)}
	idx.tree.Insert(e)
	return e
}

// Insert adds v to the index.
func (idx *Index[T]) Insert(v T) {
	idx.insert(v)
}

// Clear removes every entry from the index. Used by the vehicle tree's
// full-rebuild refresh policy, which never updates entries incrementally.
func (idx *Index[T]) Clear() {
	idx.tree = rtreego.NewTree(2, minChildren, maxChildren)
}

// Len returns the number of entries currently indexed.
func (idx *Index[T]) Len() int {
	return idx.tree.Size()
}

// candidatesInBox returns the entries (not just values) so callers can
// test the shape captured at insert/rebuild time instead of the value's
// current, possibly-since-changed geometry.
func (idx *Index[T]) candidatesInBox(box geom2d.Box2D) []*entry[T] {
	spatial := idx.tree.SearchIntersect(toRect(box))
	out := make([]*entry[T], len(spatial))
	for i, s := range spatial {
		out[i] = s.(*entry[T])
	}
	return out
}

// IntersectsAny reports whether any entry's as-of-rebuild shape
// intersects seg.
func IntersectsAny[T any](idx *Index[T], seg geom2d.Segment2D) bool {
	for _, e := range idx.candidatesInBox(seg.Envelope()) {
		if e.shape.IntersectsSegment(seg) {
			return true
		}
	}
	return false
}

// CollectIntersecting appends every entry whose as-of-rebuild shape
// intersects seg.
func CollectIntersecting[T any](idx *Index[T], seg geom2d.Segment2D, out []T) []T {
	for _, e := range idx.candidatesInBox(seg.Envelope()) {
		if e.shape.IntersectsSegment(seg) {
			out = append(out, e.value)
		}
	}
	return out
}

// EllipseBoundingBox computes the conservative axis-aligned box enclosing
// the communication ellipse with foci f1, f2 and major-diameter range.
// Padding is applied symmetrically to both coordinates — the reference
// implementation's bounding-box helper for a circle swapped in
// center.y where center.x was intended; this formula avoids that
// class of mistake by construction.
func EllipseBoundingBox(f1, f2 geom2d.Point2D, rng float64) geom2d.Box2D {
	padding := (rng - f1.DistanceTo(f2)) / 2
	return geom2d.Box2D{
		Min: geom2d.Point2D{X: math.Min(f1.X, f2.X) - padding, Y: math.Min(f1.Y, f2.Y) - padding},
		Max: geom2d.Point2D{X: math.Max(f1.X, f2.X) + padding, Y: math.Max(f1.Y, f2.Y) + padding},
	}
}

// FindInEllipse appends every entry whose as-of-rebuild shape satisfies
// dist(f1, shape) + dist(f2, shape) < range, bounded by EllipseBoundingBox.
func FindInEllipse[T any](idx *Index[T], f1, f2 geom2d.Point2D, rng float64, out []T) []T {
	box := EllipseBoundingBox(f1, f2, rng)
	for _, e := range idx.candidatesInBox(box) {
		if e.shape.DistanceToPoint(f1)+e.shape.DistanceToPoint(f2) < rng {
			out = append(out, e.value)
		}
	}
	return out
}
