package sasa

import (
	"fmt"
	"iter"
	"math"
)

type cell struct {
	x, y, z int
}

// Grid is a uniform spatial index over a set of points, answering radius queries by
// scanning only the cells overlapping the query cube. It is immutable once built and
// safe for concurrent readers.
type Grid struct {
	cellSize float64
	origin   Vec
	points   []Vec
	cells    map[cell][]int
	min, max cell
}

// NewGrid indexes the points with cubic cells of the given edge length.
func NewGrid(points []Vec, cellSize float64) (*Grid, error) {
	if !(cellSize > 0) || math.IsInf(cellSize, 1) {
		return nil, fmt.Errorf("%w: grid cell size %v", ErrConfiguration, cellSize)
	}

	g := &Grid{
		cellSize: cellSize,
		points:   points,
		cells:    make(map[cell][]int),
	}
	if len(points) == 0 {
		return g, nil
	}

	g.origin = points[0]
	for _, p := range points[1:] {
		g.origin.X = math.Min(g.origin.X, p.X)
		g.origin.Y = math.Min(g.origin.Y, p.Y)
		g.origin.Z = math.Min(g.origin.Z, p.Z)
	}

	for i, p := range points {
		c := g.cellOf(p)
		g.cells[c] = append(g.cells[c], i)
		if i == 0 {
			g.min, g.max = c, c
			continue
		}
		g.min = cell{min(g.min.x, c.x), min(g.min.y, c.y), min(g.min.z, c.z)}
		g.max = cell{max(g.max.x, c.x), max(g.max.y, c.y), max(g.max.z, c.z)}
	}

	return g, nil
}

// CellSize returns the edge length of the grid cells.
func (g *Grid) CellSize() float64 { return g.cellSize }

// Len returns the number of indexed points.
func (g *Grid) Len() int { return len(g.points) }

func (g *Grid) cellOf(p Vec) cell {
	return cell{
		x: int(math.Floor((p.X - g.origin.X) / g.cellSize)),
		y: int(math.Floor((p.Y - g.origin.Y) / g.cellSize)),
		z: int(math.Floor((p.Z - g.origin.Z) / g.cellSize)),
	}
}

// Within yields the indices of the points at distance ≤ r from p. Iteration order is
// deterministic for a given grid and query.
func (g *Grid) Within(p Vec, r float64) iter.Seq[int] {
	return func(yield func(int) bool) {
		if len(g.points) == 0 || r < 0 {
			return
		}

		lo := g.cellOf(Vec{p.X - r, p.Y - r, p.Z - r})
		hi := g.cellOf(Vec{p.X + r, p.Y + r, p.Z + r})
		lo = cell{max(lo.x, g.min.x), max(lo.y, g.min.y), max(lo.z, g.min.z)}
		hi = cell{min(hi.x, g.max.x), min(hi.y, g.max.y), min(hi.z, g.max.z)}

		r2 := r * r
		for x := lo.x; x <= hi.x; x++ {
			for y := lo.y; y <= hi.y; y++ {
				for z := lo.z; z <= hi.z; z++ {
					for _, i := range g.cells[cell{x, y, z}] {
						if g.points[i].Dist2(p) <= r2 {
							if !yield(i) {
								return
							}
						}
					}
				}
			}
		}
	}
}
