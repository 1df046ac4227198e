package interaction

import (
	"github.com/tikz/exposure/pdb"
	"github.com/tikz/exposure/sasa"
)

// Contact is a residue of another chain, or a ligand, close to a residue.
type Contact struct {
	Residue  *pdb.Residue
	Distance float64 // closest atom pair distance
}

func positions(atoms []*pdb.Atom) []sasa.Vec {
	pos := make([]sasa.Vec, len(atoms))
	for i, a := range atoms {
		pos[i] = sasa.Vec{X: a.X, Y: a.Y, Z: a.Z}
	}
	return pos
}

// Chains receives a structure and a cutoff distance, and returns a map of residues to residues in other chains that are near.
// Partners are listed in the order they are found, each one once.
func Chains(p *pdb.PDB, distance float64) map[*pdb.Residue][]Contact {
	interacts := make(map[*pdb.Residue][]Contact)
	if distance <= 0 || len(p.Atoms) == 0 {
		return interacts
	}

	grid, err := sasa.NewGrid(positions(p.Atoms), distance)
	if err != nil {
		return interacts
	}

	type pair struct{ r1, r2 *pdb.Residue }
	seen := make(map[pair]bool)

	for i, a := range p.Atoms {
		res1 := p.Residue(a.Chain, a.ResidueNumber)
		for j := range grid.Within(sasa.Vec{X: a.X, Y: a.Y, Z: a.Z}, distance) {
			b := p.Atoms[j]
			if j <= i || b.Chain == a.Chain || pdb.Distance(a, b) >= distance {
				continue
			}

			res2 := p.Residue(b.Chain, b.ResidueNumber)
			if seen[pair{res1, res2}] {
				continue
			}
			seen[pair{res1, res2}] = true
			seen[pair{res2, res1}] = true

			d := pdb.ResiduesDistance(res1, res2)
			interacts[res1] = append(interacts[res1], Contact{Residue: res2, Distance: d})
			interacts[res2] = append(interacts[res2], Contact{Residue: res1, Distance: d})
		}
	}
	return interacts
}

// Hets receives a structure and a cutoff distance, and returns a map of residues to near ligand names.
// Water is not a ligand, see NearWater.
func Hets(p *pdb.PDB, distance float64) map[*pdb.Residue][]string {
	interacts := make(map[*pdb.Residue][]string)
	grid := hetGrid(p, distance)
	if grid == nil {
		return interacts
	}

	for _, res := range p.Residues {
		if hets := nearHets(grid, p.HetAtoms, res, distance); len(hets) > 0 {
			interacts[res] = hets
		}
	}
	return interacts
}

// NearWater returns if the given residue is near a water molecule.
func NearWater(p *pdb.PDB, r *pdb.Residue, distance float64) bool {
	grid := hetGrid(p, distance)
	if grid == nil {
		return false
	}

	for _, atom := range r.Atoms {
		for j := range grid.Within(sasa.Vec{X: atom.X, Y: atom.Y, Z: atom.Z}, distance) {
			if p.HetAtoms[j].IsWater() && pdb.Distance(atom, p.HetAtoms[j]) < distance {
				return true
			}
		}
	}
	return false
}

func hetGrid(p *pdb.PDB, distance float64) *sasa.Grid {
	if distance <= 0 || len(p.HetAtoms) == 0 {
		return nil
	}
	grid, err := sasa.NewGrid(positions(p.HetAtoms), distance)
	if err != nil {
		return nil
	}
	return grid
}

// nearHets returns the names of the ligands other than water with an atom closer than
// distance to the residue, in order of discovery.
func nearHets(grid *sasa.Grid, hetatms []*pdb.Atom, r *pdb.Residue, distance float64) []string {
	var names []string
	seen := make(map[string]bool)
	for _, atom := range r.Atoms {
		for j := range grid.Within(sasa.Vec{X: atom.X, Y: atom.Y, Z: atom.Z}, distance) {
			het := hetatms[j]
			if het.IsWater() || seen[het.Residue] || pdb.Distance(atom, het) >= distance {
				continue
			}
			seen[het.Residue] = true
			names = append(names, het.Residue)
		}
	}
	return names
}
