package geometry

import (
	"fmt"
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// BVHNode is an internal node of the hierarchy. Each child is either another
// BVHNode or a Primitive. A node built over a single primitive references it
// as both children.
type BVHNode struct {
	Box   core.AABB // Union of every primitive box below this node
	Left  Hittable
	Right Hittable
	leaf  bool // Left and Right are the same primitive
}

// BVH represents a Bounding Volume Hierarchy for fast ray-object intersection
type BVH struct {
	Root *BVHNode
}

// bvhEntry pairs a primitive with its cached bounding box during construction
type bvhEntry struct {
	prim Primitive
	box  core.AABB
}

// NewBVH constructs a BVH from a slice of primitives. The input slice is not
// modified. Every primitive must report a finite, non-inverted bounding box.
func NewBVH(prims []Primitive) (*BVH, error) {
	if len(prims) == 0 {
		return &BVH{Root: nil}, nil
	}

	entries := make([]bvhEntry, len(prims))
	for i, prim := range prims {
		box := prim.BoundingBox()
		if !box.IsFinite() {
			return nil, fmt.Errorf("%w: primitive %d (%T)", ErrNoPrimitiveBounds, i, prim)
		}
		if !box.IsValid() {
			return nil, fmt.Errorf("%w: primitive %d (%T)", ErrInvalidBounds, i, prim)
		}
		entries[i] = bvhEntry{prim: prim, box: box}
	}

	return &BVH{Root: buildBVH(entries, 0, len(entries))}, nil
}

// buildBVH builds the subtree over entries[start:end]
func buildBVH(entries []bvhEntry, start, end int) *BVHNode {
	// The node box is the union over the whole range, computed up front
	box := entries[start].box
	for i := start + 1; i < end; i++ {
		box = box.Union(entries[i].box)
	}

	axis := box.LongestAxis()
	less := func(a, b bvhEntry) bool {
		return a.box.Min.Axis(axis) < b.box.Min.Axis(axis)
	}

	node := &BVHNode{Box: box}
	switch end - start {
	case 1:
		node.Left = entries[start].prim
		node.Right = entries[start].prim
		node.leaf = true
	case 2:
		if less(entries[start], entries[start+1]) {
			node.Left, node.Right = entries[start].prim, entries[start+1].prim
		} else {
			node.Left, node.Right = entries[start+1].prim, entries[start].prim
		}
	default:
		sub := entries[start:end]
		sort.SliceStable(sub, func(i, j int) bool {
			return less(sub[i], sub[j])
		})

		mid := start + (end-start)/2
		node.Left = buildBVH(entries, start, mid)
		node.Right = buildBVH(entries, mid, end)
	}

	return node
}

// Hit tests if a ray intersects any primitive in the BVH
func (bvh *BVH) Hit(ray core.Ray, tMin, tMax float64, rec *material.HitRecord) bool {
	if bvh.Root == nil {
		return false
	}
	return bvh.Root.Hit(ray, tMin, tMax, rec)
}

// BoundingBox returns the box of the whole hierarchy
func (bvh *BVH) BoundingBox() core.AABB {
	if bvh.Root == nil {
		return core.AABB{}
	}
	return bvh.Root.Box
}

// Hit prunes on the node box, then searches the right child only up to the
// nearest hit found on the left.
func (n *BVHNode) Hit(ray core.Ray, tMin, tMax float64, rec *material.HitRecord) bool {
	if !n.Box.Hit(ray, tMin, tMax) {
		return false
	}

	hitLeft := n.Left.Hit(ray, tMin, tMax, rec)
	if n.leaf {
		return hitLeft
	}

	bound := tMax
	if hitLeft {
		bound = rec.T
	}
	hitRight := n.Right.Hit(ray, tMin, bound, rec)

	return hitLeft || hitRight
}

// BoundingBox returns the cached node box
func (n *BVHNode) BoundingBox() core.AABB {
	return n.Box
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	TotalNodes    int     // Internal nodes
	Primitives    int     // Distinct primitive references
	MaxDepth      int     // Deepest primitive reference
	AvgDepth      float64 // Mean depth of primitive references
	LargestExtent float64 // Longest side of the root box
}

// Stats walks the hierarchy and collects structure statistics
func (bvh *BVH) Stats() BVHStats {
	if bvh.Root == nil {
		return BVHStats{}
	}

	stats := BVHStats{}
	collectStats(bvh.Root, 0, &stats)

	if stats.Primitives > 0 {
		stats.AvgDepth = stats.AvgDepth / float64(stats.Primitives)
	}
	size := bvh.Root.Box.Size()
	stats.LargestExtent = size.Axis(bvh.Root.Box.LongestAxis())

	return stats
}

// collectStats recursively collects statistics about the BVH
func collectStats(node *BVHNode, depth int, stats *BVHStats) {
	stats.TotalNodes++

	children := []Hittable{node.Left, node.Right}
	if node.leaf {
		children = children[:1]
	}

	for _, child := range children {
		if inner, ok := child.(*BVHNode); ok {
			collectStats(inner, depth+1, stats)
			continue
		}
		stats.Primitives++
		stats.AvgDepth += float64(depth + 1) // Accumulate depth for average calculation
		if depth+1 > stats.MaxDepth {
			stats.MaxDepth = depth + 1
		}
	}
}
