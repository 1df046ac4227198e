package sasa

import (
	"math"
	"math/rand"

	"github.com/tikz/exposure/pdb"
)

func atom(n int64, name, element, chain string, resNum int64, x, y, z float64) *pdb.Atom {
	return &pdb.Atom{
		Number:        n,
		Name:          name,
		Residue:       "UNK",
		Chain:         chain,
		ResidueNumber: resNum,
		X:             x,
		Y:             y,
		Z:             z,
		Element:       element,
	}
}

// buriedCluster is an oxygen at the origin, in its own residue, caged by six carbons
// at 2.6 Å along the axes. With a 1.4 Å probe every point of the oxygen is buried,
// while without the probe the diagonals stay exposed.
func buriedCluster() []*pdb.Atom {
	atoms := []*pdb.Atom{atom(1, "O", "O", "A", 1, 0, 0, 0)}
	dirs := []Vec{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}
	for i, d := range dirs {
		p := d.Scale(2.6)
		atoms = append(atoms, atom(int64(i+2), "C", "C", "A", int64(i+2), p.X, p.Y, p.Z))
	}
	return atoms
}

// randomCloud places n carbons and nitrogens in a cube of the given edge, at least
// minDist apart, three atoms per residue.
func randomCloud(seed int64, n int, edge, minDist float64) []*pdb.Atom {
	rng := rand.New(rand.NewSource(seed))

	var atoms []*pdb.Atom
	for len(atoms) < n {
		p := Vec{rng.Float64() * edge, rng.Float64() * edge, rng.Float64() * edge}
		ok := true
		for _, a := range atoms {
			if p.Dist2(Vec{a.X, a.Y, a.Z}) < minDist*minDist {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		i := len(atoms)
		element := "C"
		if i%3 == 0 {
			element = "N"
		}
		atoms = append(atoms, atom(int64(i+1), element, element, "A", int64(i/3+1), p.X, p.Y, p.Z))
	}
	return atoms
}

func sphereArea(r float64) float64 {
	return 4 * math.Pi * r * r
}
