package sasa

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tikz/exposure/pdb"
)

// Vec is a point in space, in Ångströms.
type Vec struct {
	X, Y, Z float64
}

// Add returns v + u.
func (v Vec) Add(u Vec) Vec { return Vec{v.X + u.X, v.Y + u.Y, v.Z + u.Z} }

// Scale returns v * f.
func (v Vec) Scale(f float64) Vec { return Vec{v.X * f, v.Y * f, v.Z * f} }

// Dist2 returns the squared distance between v and u.
func (v Vec) Dist2(u Vec) float64 {
	dx := v.X - u.X
	dy := v.Y - u.Y
	dz := v.Z - u.Z
	return dx*dx + dy*dy + dz*dz
}

// ResidueKey identifies a residue by chain and sequence number.
type ResidueKey struct {
	Chain  string `json:"chain" yaml:"chain"`
	Number int64  `json:"number" yaml:"number"`
}

func (k ResidueKey) String() string {
	return k.Chain + ":" + strconv.FormatInt(k.Number, 10)
}

// ParseResidueKey parses a "chain:number" string, such as "A:42".
func ParseResidueKey(s string) (ResidueKey, error) {
	chain, num, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return ResidueKey{}, fmt.Errorf("%w: %q is not chain:number", ErrInvalidSelection, s)
	}

	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		return ResidueKey{}, fmt.Errorf("%w: residue number %q", ErrInvalidSelection, num)
	}

	return ResidueKey{Chain: chain, Number: n}, nil
}

// Atom is an atom prepared for surface calculations, with its radius already resolved.
type Atom struct {
	ID          int64
	Name        string
	Element     string
	Position    Vec
	Radius      float64
	Residue     ResidueKey
	ResidueName string
	Polar       bool // nitrogen or oxygen
	Backbone    bool // main chain atom
}

// Residue groups the atoms of the set sharing a residue key.
type Residue struct {
	Key   ResidueKey
	Name  string
	Atoms []int // indices into the atom set
}

// AtomSet is an immutable, ordered set of atoms grouped into residues by first appearance.
type AtomSet struct {
	atoms     []Atom
	residues  []Residue
	index     map[ResidueKey]int
	maxRadius float64
}

// NewAtomSet resolves radii for the given atoms and groups them into residues.
func NewAtomSet(atoms []*pdb.Atom, radii RadiusTable) (*AtomSet, error) {
	if len(atoms) == 0 {
		return nil, fmt.Errorf("%w: empty atom set", ErrDegenerateGeometry)
	}

	set := &AtomSet{
		atoms: make([]Atom, len(atoms)),
		index: make(map[ResidueKey]int),
	}

	for i, a := range atoms {
		r, err := radii.RadiusOf(a.Element)
		if err != nil {
			return nil, fmt.Errorf("atom %d (%s %s %d): %w", a.Number, a.Name, a.Chain, a.ResidueNumber, err)
		}

		key := ResidueKey{Chain: a.Chain, Number: a.ResidueNumber}
		set.atoms[i] = Atom{
			ID:          a.Number,
			Name:        a.Name,
			Element:     a.Element,
			Position:    Vec{a.X, a.Y, a.Z},
			Radius:      r,
			Residue:     key,
			ResidueName: a.Residue,
			Polar:       a.Element == "N" || a.Element == "O",
			Backbone:    a.IsBackbone(),
		}
		if r > set.maxRadius {
			set.maxRadius = r
		}

		ri, ok := set.index[key]
		if !ok {
			ri = len(set.residues)
			set.index[key] = ri
			set.residues = append(set.residues, Residue{Key: key, Name: a.Residue})
		}
		set.residues[ri].Atoms = append(set.residues[ri].Atoms, i)
	}

	return set, nil
}

// Len returns the number of atoms.
func (s *AtomSet) Len() int { return len(s.atoms) }

// Atom returns the i-th atom. The returned value must not be modified.
func (s *AtomSet) Atom(i int) *Atom { return &s.atoms[i] }

// Residues returns the residues in order of first appearance. The slice must not be modified.
func (s *AtomSet) Residues() []Residue { return s.residues }

// ResidueIndex returns the position of a residue in the first appearance order.
func (s *AtomSet) ResidueIndex(k ResidueKey) (int, bool) {
	i, ok := s.index[k]
	return i, ok
}

// MaxRadius returns the largest van der Waals radius in the set.
func (s *AtomSet) MaxRadius() float64 { return s.maxRadius }

// Positions returns the atom centres, in atom order.
func (s *AtomSet) Positions() []Vec {
	pos := make([]Vec, len(s.atoms))
	for i := range s.atoms {
		pos[i] = s.atoms[i].Position
	}
	return pos
}
