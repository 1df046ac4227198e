package sasa

import (
	"fmt"
	"strings"
)

// vdwRadii holds van der Waals radii in Ångströms, keyed by upper case element symbol.
// Bondi (1964) values, completed with Mantina et al. (2009) for main group elements and
// Alvarez (2013) for the transition metals common in PDB entries.
var vdwRadii = map[string]float64{
	"H":  1.20,
	"D":  1.20,
	"HE": 1.40,
	"LI": 1.82,
	"B":  1.92,
	"C":  1.70,
	"N":  1.55,
	"O":  1.52,
	"F":  1.47,
	"NE": 1.54,
	"NA": 2.27,
	"MG": 1.73,
	"AL": 1.84,
	"SI": 2.10,
	"P":  1.80,
	"S":  1.80,
	"CL": 1.75,
	"AR": 1.88,
	"K":  2.75,
	"CA": 2.31,
	"MN": 2.05,
	"FE": 2.04,
	"CO": 2.00,
	"NI": 1.63,
	"CU": 1.40,
	"ZN": 1.39,
	"GA": 1.87,
	"AS": 1.85,
	"SE": 1.90,
	"BR": 1.85,
	"KR": 2.02,
	"SR": 2.49,
	"CD": 1.58,
	"I":  1.98,
	"XE": 2.16,
	"CS": 3.43,
	"PT": 1.75,
	"AU": 1.66,
	"HG": 1.55,
	"PB": 2.02,
}

// RadiusTable resolves element symbols to van der Waals radii.
// The zero value uses the built-in table and fails on unknown elements.
type RadiusTable struct {
	// Default, when not nil, is returned for symbols missing from the table.
	Default *float64
}

// NewRadiusTable returns a table falling back to def for unknown elements, if def is not nil.
func NewRadiusTable(def *float64) RadiusTable {
	return RadiusTable{Default: def}
}

// RadiusOf returns the van der Waals radius for an element symbol. Lookup is case-insensitive.
func (t RadiusTable) RadiusOf(element string) (float64, error) {
	if r, ok := vdwRadii[strings.ToUpper(strings.TrimSpace(element))]; ok {
		return r, nil
	}
	if t.Default != nil {
		return *t.Default, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownElement, element)
}
