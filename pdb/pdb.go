package pdb

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrNoAtoms indicates the structure has no ATOM records.
	ErrNoAtoms = errors.New("pdb: atoms not found")
	// ErrInvalidRecord indicates a malformed ATOM or HETATM line.
	ErrInvalidRecord = errors.New("pdb: invalid coordinate record")
)

// Getter downloads the contents of a URL.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// PDB represents a single PDB entry.
type PDB struct {
	ID     string `json:"id"`     // PDB ID
	URL    string `json:"url"`    // RCSB web page URL
	PDBURL string `json:"pdbUrl"` // RCSB download URL for the PDB file

	TotalLength int64 `json:"totalLength"` // total length as sum of residues of all chains in the structure

	Atoms     []*Atom  `json:"-"`         // ATOM records in the structure
	HetAtoms  []*Atom  `json:"-"`         // HETATM records in the structure
	HetGroups []string `json:"hetGroups"` // HET groups in the structure

	Residues []*Residue                   `json:"-"`      // residues from ATOM records, in order of first appearance
	Chains   map[string]map[int64]*Residue `json:"chains"` // PDB ATOM chain ID and position to pointer in structure

	RawPDB []byte `json:"-"` // PDB file raw data

	LocalPath string `json:"-"` // local path for the PDB file
}

// NewPDBFromID constructs a new instance from a PDB ID, fetching and parsing the data.
func NewPDBFromID(ctx context.Context, g Getter, pdbID string) (*PDB, error) {
	pdb := &PDB{ID: strings.ToUpper(pdbID)}

	err := pdb.Fetch(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("fetch data: %w", err)
	}

	err = pdb.Parse()
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	return pdb, nil
}

// NewPDBFromRaw constructs a new instance from raw bytes, and only extracts ATOM and HETATM records.
func NewPDBFromRaw(raw []byte) (*PDB, error) {
	pdb := &PDB{RawPDB: raw}

	err := pdb.Parse()
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	return pdb, nil
}

// NewPDBFromFile reads and parses a PDB file. Files ending in .gz are decompressed.
func NewPDBFromFile(path string) (*PDB, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read PDB file: %w", err)
	}

	if filepath.Ext(path) == ".gz" {
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()

		raw, err = io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
	}

	pdb, err := NewPDBFromRaw(raw)
	if err != nil {
		return nil, err
	}

	pdb.LocalPath = path
	pdb.ID = strings.ToUpper(strings.SplitN(filepath.Base(path), ".", 2)[0])
	return pdb, nil
}

// Parse parses the raw PDB text.
func (pdb *PDB) Parse() error {
	err := pdb.ExtractResidues()
	if err != nil {
		return fmt.Errorf("extract PDB residues: %w", err)
	}

	return nil
}

// Fetch downloads the PDB file for the entry from RCSB.
func (pdb *PDB) Fetch(ctx context.Context, g Getter) error {
	url := "https://www.rcsb.org/structure/" + pdb.ID
	urlPDB := "https://files.rcsb.org/download/" + pdb.ID + ".pdb"

	rawPDB, err := g.Get(ctx, urlPDB)
	if err != nil {
		return fmt.Errorf("download PDB file: %w", err)
	}

	pdb.URL = url
	pdb.PDBURL = urlPDB
	pdb.RawPDB = rawPDB

	return nil
}

// ExtractResidues extracts data from the ATOM and HETATM records and parses them.
func (pdb *PDB) ExtractResidues() error {
	atoms, hetatms, err := extractATMRecords(pdb.RawPDB)
	if err != nil {
		return fmt.Errorf("extract ATOM records: %w", err)
	}

	pdb.Atoms = atoms
	pdb.HetAtoms = hetatms
	pdb.HetGroups = hetGroups(hetatms)

	err = pdb.ExtractPDBChains()
	if err != nil {
		return fmt.Errorf("extract PDB chains: %w", err)
	}

	return nil
}

// SurfaceAtoms returns the atoms taking part in a surface calculation, in file order.
// HETATM records other than water are included only when het is true.
func (pdb *PDB) SurfaceAtoms(het bool) []*Atom {
	if !het {
		return pdb.Atoms
	}

	atoms := make([]*Atom, 0, len(pdb.Atoms)+len(pdb.HetAtoms))
	atoms = append(atoms, pdb.Atoms...)
	for _, a := range pdb.HetAtoms {
		if !a.IsWater() {
			atoms = append(atoms, a)
		}
	}
	sort.SliceStable(atoms, func(i, j int) bool {
		return atoms[i].Index < atoms[j].Index
	})

	return atoms
}

// WriteFile writes the raw PDB contents to a file.
func (pdb *PDB) WriteFile(path string) error {
	err := os.WriteFile(path, pdb.RawPDB, 0644)
	if err != nil {
		return fmt.Errorf("write PDB file: %w", err)
	}

	pdb.LocalPath = path
	return nil
}

func hetGroups(hetatms []*Atom) []string {
	var groups []string
	seen := make(map[string]bool)
	for _, a := range hetatms {
		if !seen[a.Residue] {
			seen[a.Residue] = true
			groups = append(groups, a.Residue)
		}
	}
	return groups
}
