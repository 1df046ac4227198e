package sasa

import (
	"fmt"
	"math"
)

// coincidentDistance is the distance under which two atom centres are considered the same point.
const coincidentDistance = 1e-6

// SurfaceSample is the result of sampling the surface of a single atom.
type SurfaceSample struct {
	Exposed int     // sample points not buried in any neighbour
	Points  int     // sample points on the sphere
	Radius  float64 // sphere radius, van der Waals radius plus probe radius
}

// Fraction returns the exposed fraction of the sphere.
func (s SurfaceSample) Fraction() float64 {
	if s.Points == 0 {
		return 0
	}
	return float64(s.Exposed) / float64(s.Points)
}

// SphereArea returns the area of the whole sampled sphere.
func (s SurfaceSample) SphereArea() float64 {
	return 4 * math.Pi * s.Radius * s.Radius
}

// Area returns the exposed area in Å².
func (s SurfaceSample) Area() float64 {
	return s.Fraction() * s.SphereArea()
}

// spherePoints distributes n points on the unit sphere along a golden spiral.
func spherePoints(n int) []Vec {
	points := make([]Vec, n)
	golden := math.Pi * (3 - math.Sqrt(5))
	for k := 0; k < n; k++ {
		y := 1 - (2*float64(k)+1)/float64(n)
		r := math.Sqrt(1 - y*y)
		phi := golden * float64(k)
		points[k] = Vec{X: math.Cos(phi) * r, Y: y, Z: math.Sin(phi) * r}
	}
	return points
}

// Sampler estimates exposed atom surfaces with the Shrake-Rupley method: points are laid
// on each atom sphere inflated by the probe radius, and a point is buried when it lies
// inside (or on) the inflated sphere of any other atom.
type Sampler struct {
	set    *AtomSet
	grid   *Grid
	points []Vec
}

type neighbor struct {
	pos Vec
	r2  float64
}

// NewSampler returns a sampler using sampleCount points per atom over the given atom
// set and its spatial index.
func NewSampler(set *AtomSet, grid *Grid, sampleCount int) (*Sampler, error) {
	if sampleCount < 1 {
		return nil, fmt.Errorf("%w: sample count %d", ErrConfiguration, sampleCount)
	}
	if grid.Len() != set.Len() {
		return nil, fmt.Errorf("%w: grid indexes %d points for %d atoms", ErrConfiguration, grid.Len(), set.Len())
	}

	return &Sampler{
		set:    set,
		grid:   grid,
		points: spherePoints(sampleCount),
	}, nil
}

// Sample returns the exposed surface of the i-th atom for the given probe radius.
// It is safe to call concurrently.
func (s *Sampler) Sample(i int, probe float64) (SurfaceSample, error) {
	a := s.set.Atom(i)
	radius := a.Radius + probe
	reach := radius + s.set.MaxRadius() + probe

	var neighbors []neighbor
	for j := range s.grid.Within(a.Position, reach) {
		if j == i {
			continue
		}

		b := s.set.Atom(j)
		d2 := a.Position.Dist2(b.Position)
		if d2 <= coincidentDistance*coincidentDistance {
			return SurfaceSample{}, fmt.Errorf("%w: atoms %d and %d share the same position", ErrDegenerateGeometry, a.ID, b.ID)
		}

		rb := b.Radius + probe
		if d2 <= (radius+rb)*(radius+rb) {
			neighbors = append(neighbors, neighbor{pos: b.Position, r2: rb * rb})
		}
	}

	sample := SurfaceSample{Points: len(s.points), Radius: radius}

	// Neighbouring points are often buried by the same atom.
	last := 0
	for _, u := range s.points {
		p := a.Position.Add(u.Scale(radius))
		if buried(p, neighbors, &last) {
			continue
		}
		sample.Exposed++
	}

	return sample, nil
}

func buried(p Vec, neighbors []neighbor, last *int) bool {
	if len(neighbors) == 0 {
		return false
	}
	if n := neighbors[*last]; p.Dist2(n.pos) <= n.r2 {
		return true
	}
	for j, n := range neighbors {
		if p.Dist2(n.pos) <= n.r2 {
			*last = j
			return true
		}
	}
	return false
}
