package pdb

import (
	"strings"
)

var residueNames = [...][3]string{
	{"Alanine", "Ala", "A"},
	{"Arginine", "Arg", "R"},
	{"Asparagine", "Asn", "N"},
	{"Aspartic acid", "Asp", "D"},
	{"Cysteine", "Cys", "C"},
	{"Glutamic acid", "Glu", "E"},
	{"Glutamine", "Gln", "Q"},
	{"Glycine", "Gly", "G"},
	{"Histidine", "His", "H"},
	{"Isoleucine", "Ile", "I"},
	{"Leucine", "Leu", "L"},
	{"Lysine", "Lys", "K"},
	{"Methionine", "Met", "M"},
	{"Phenylalanine", "Phe", "F"},
	{"Proline", "Pro", "P"},
	{"Serine", "Ser", "S"},
	{"Threonine", "Thr", "T"},
	{"Tryptophan", "Trp", "W"},
	{"Tyrosine", "Tyr", "Y"},
	{"Valine", "Val", "V"},
}

// Residue represents a single residue from the PDB structure.
type Residue struct {
	Chain          string  `json:"chain"`
	StructPosition int64   `json:"structPosition"`
	Name           string  `json:"-"`
	Name1          string  `json:"name1"`
	Name3          string  `json:"name3"`
	Atoms          []*Atom `json:"-"`
	MeanBFactor    float64 `json:"mean_bfactor"`
}

// IsAminoacid reports whether name is one of the twenty standard aminoacids, given as a full
// name or three letter code in any case. One letter codes are not accepted, as they collide
// with nucleotide residue names (A, C, G, U).
func IsAminoacid(name string) bool {
	s := strings.TrimSpace(name)
	for _, res := range residueNames {
		if strings.EqualFold(res[0], s) || strings.EqualFold(res[1], s) {
			return true
		}
	}
	return false
}

// AminoacidNames receives a name and returns a 3-sized array of all the possible representations as a string.
func AminoacidNames(input string) (string, string, string) {
	s := strings.TrimSpace(input)
	for _, res := range residueNames {
		for _, n := range res {
			if strings.EqualFold(n, s) {
				return res[0], res[1], res[2]
			}
		}
	}

	return input, "Unk", "X"
}

// NewResidue constructs a new residue given a chain, position and aminoacid name.
// The name is case-insensitive and can be either a full aminoacid name, one or three letter abbreviation.
// Unknown names (ligands, nucleotides) keep the original three letter code.
func NewResidue(chain string, pos int64, input string) *Residue {
	name, abbrv3, abbrv1 := AminoacidNames(input)
	if abbrv3 == "Unk" {
		abbrv3 = input
	}

	res := &Residue{
		Chain:          chain,
		StructPosition: pos,
		Name:           name,
		Name1:          abbrv1,
		Name3:          abbrv3,
	}

	return res
}

// ExtractPDBChains groups the ATOM records into residues, keeping the order in which
// each chain and residue number pair first appears in the file.
func (pdb *PDB) ExtractPDBChains() error {
	atoms := pdb.Atoms
	if len(atoms) == 0 {
		return ErrNoAtoms
	}

	chains := make(map[string]map[int64]*Residue)
	var residues []*Residue

	for _, atom := range atoms {
		chain, chainOk := chains[atom.Chain]
		if !chainOk {
			chain = make(map[int64]*Residue)
			chains[atom.Chain] = chain
		}

		res, posOk := chain[atom.ResidueNumber]
		if !posOk {
			res = NewResidue(atom.Chain, atom.ResidueNumber, atom.Residue)
			chain[atom.ResidueNumber] = res
			residues = append(residues, res)
		}
		res.Atoms = append(res.Atoms, atom)
	}

	for _, res := range residues {
		res.calculateMeanBFactor()
	}

	pdb.Chains = chains
	pdb.Residues = residues
	pdb.TotalLength = int64(len(residues))

	return nil
}

// Residue returns the residue at the given chain and position, or nil.
func (pdb *PDB) Residue(chain string, pos int64) *Residue {
	return pdb.Chains[chain][pos]
}

// calculateMeanBFactor calculates the mean B-factor for the residue based on all its atoms.
func (r *Residue) calculateMeanBFactor() {
	if len(r.Atoms) == 0 {
		return
	}

	var sum float64
	for _, atom := range r.Atoms {
		sum += atom.BFactor
	}
	r.MeanBFactor = sum / float64(len(r.Atoms))
}
