package pdb

import (
	"bufio"
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Atom represents a single atom in the structure.
// It contains all the columns from an ATOM or HETATM record in a PDB file.
type Atom struct {
	// PDB columns for the ATOM tag
	Number        int64
	Name          string
	AltLoc        string
	Residue       string
	Chain         string
	ResidueNumber int64
	InsertionCode string
	X             float64
	Y             float64
	Z             float64
	Occupancy     float64
	BFactor       float64
	Element       string
	Charge        string

	Het   bool // true for HETATM records
	Index int  // record order in the file, shared by ATOM and HETATM
}

// IsWater returns true if the atom belongs to a solvent molecule.
func (a *Atom) IsWater() bool {
	switch a.Residue {
	case "HOH", "WAT", "DOD", "H2O":
		return true
	}
	return false
}

// IsBackbone returns true for main chain atoms of an aminoacid.
func (a *Atom) IsBackbone() bool {
	switch a.Name {
	case "N", "CA", "C", "O", "OXT":
		return !a.Het
	}
	return false
}

// extractATMRecords extracts ATOM and HETATM records from the first model of the raw PDB.
// Only the first alternate location of each atom is kept.
func extractATMRecords(raw []byte) (atoms []*Atom, hetatms []*Atom, err error) {
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 1024), 1024*1024)

	var index, line int
	for scanner.Scan() {
		line++
		l := scanner.Text()
		if len(l) < 6 {
			continue
		}

		record := strings.TrimSpace(l[0:6])
		if record == "ENDMDL" {
			break
		}
		if record != "ATOM" && record != "HETATM" {
			continue
		}

		atom, err := parseATMRecord(l)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}
		if atom.AltLoc != "" && atom.AltLoc != "A" && atom.AltLoc != "1" {
			continue
		}

		atom.Het = record == "HETATM"
		atom.Index = index
		index++

		if atom.Het {
			hetatms = append(hetatms, atom)
		} else {
			atoms = append(atoms, atom)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("scan: %w", err)
	}

	return atoms, hetatms, nil
}

// parseATMRecord parses a single ATOM or HETATM line.
// https://www.wwpdb.org/documentation/file-format-content/format33/sect9.html#ATOM
func parseATMRecord(l string) (*Atom, error) {
	if len(l) < 54 {
		return nil, fmt.Errorf("%w: record too short (%d columns)", ErrInvalidRecord, len(l))
	}
	if len(l) < 80 {
		l += strings.Repeat(" ", 80-len(l))
	}

	var atom Atom
	var err error

	atom.Number, _ = strconv.ParseInt(strings.TrimSpace(l[6:11]), 10, 64)
	rawName := l[12:16]
	atom.Name = strings.TrimSpace(rawName)
	atom.AltLoc = strings.TrimSpace(l[16:17])
	atom.Residue = strings.TrimSpace(l[17:20])
	atom.Chain = strings.TrimSpace(l[21:22])
	atom.InsertionCode = strings.TrimSpace(l[26:27])

	if atom.ResidueNumber, err = strconv.ParseInt(strings.TrimSpace(l[22:26]), 10, 64); err != nil {
		return nil, fmt.Errorf("%w: residue number %q", ErrInvalidRecord, l[22:26])
	}
	if atom.X, err = strconv.ParseFloat(strings.TrimSpace(l[30:38]), 64); err != nil {
		return nil, fmt.Errorf("%w: x coordinate %q", ErrInvalidRecord, l[30:38])
	}
	if atom.Y, err = strconv.ParseFloat(strings.TrimSpace(l[38:46]), 64); err != nil {
		return nil, fmt.Errorf("%w: y coordinate %q", ErrInvalidRecord, l[38:46])
	}
	if atom.Z, err = strconv.ParseFloat(strings.TrimSpace(l[46:54]), 64); err != nil {
		return nil, fmt.Errorf("%w: z coordinate %q", ErrInvalidRecord, l[46:54])
	}

	for _, c := range [...]float64{atom.X, atom.Y, atom.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("%w: non-finite coordinate in %q", ErrInvalidRecord, l[30:54])
		}
	}

	atom.Occupancy, _ = strconv.ParseFloat(strings.TrimSpace(l[54:60]), 64)
	atom.BFactor, _ = strconv.ParseFloat(strings.TrimSpace(l[60:66]), 64)
	atom.Element = normalizeElement(strings.TrimSpace(l[76:78]))
	atom.Charge = strings.TrimSpace(l[78:80])

	if atom.Element == "" {
		atom.Element = inferElement(rawName, strings.HasPrefix(l, "HETATM"))
	}

	return &atom, nil
}

// inferElement guesses the element symbol from the raw 4 column atom name, for files
// missing the element column. Element symbols are right justified in columns 13-14,
// so a name starting with a blank or a digit has a one letter element.
func inferElement(rawName string, het bool) string {
	if len(rawName) < 2 {
		return normalizeElement(strings.TrimSpace(rawName))
	}

	first := rune(rawName[0])
	if first == ' ' || unicode.IsDigit(first) {
		return normalizeElement(string(rawName[1]))
	}

	// 4 character hydrogen names (HG12, HD21) start at column 13 in ATOM records.
	if !het && (first == 'H' || first == 'D') {
		return "H"
	}

	sym := strings.TrimRightFunc(rawName[0:2], func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	return normalizeElement(sym)
}

// normalizeElement capitalizes an element symbol the conventional way (FE -> Fe).
func normalizeElement(sym string) string {
	if sym == "" {
		return ""
	}
	sym = strings.ToLower(sym)
	return strings.ToUpper(sym[:1]) + sym[1:]
}
