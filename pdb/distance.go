package pdb

import (
	"math"
)

// Distance returns the distance between a pair of atoms
func Distance(atom1 *Atom, atom2 *Atom) float64 {
	dx := atom1.X - atom2.X
	dy := atom1.Y - atom2.Y
	dz := atom1.Z - atom2.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// ResiduesDistance returns the distance between residues, of the closest pair of atoms.
// Residues without atoms are infinitely apart.
func ResiduesDistance(res1 *Residue, res2 *Residue) float64 {
	minDist := math.Inf(1)
	for _, a1 := range res1.Atoms {
		for _, a2 := range res2.Atoms {
			if dist := Distance(a1, a2); dist < minDist {
				minDist = dist
			}
		}
	}

	return minDist
}
