// Package sasa computes solvent accessible surface areas of macromolecular structures
// and classifies residues as exposed or buried.
//
// Areas are estimated with the Shrake-Rupley method over a uniform grid spatial index.
// Each atom is sampled twice: once with its sphere inflated by the solvent probe, and once
// with a probe of radius zero. The exposed fraction of the probe-free pass, projected on the
// same inflated sphere, is the reference area the accessible area is divided by, so an
// isolated residue has a ratio of one and a fully buried one a ratio of zero.
package sasa

import (
	"github.com/tikz/exposure/pdb"
)

// SASA holds the accessible surface of a whole structure.
type SASA struct {
	Total    float64         `json:"total" yaml:"total"`
	Side     float64         `json:"side" yaml:"side"`
	Main     float64         `json:"main" yaml:"main"`
	Apolar   float64         `json:"apolar" yaml:"apolar"`
	Polar    float64         `json:"polar" yaml:"polar"`
	Residues []ResidueReport `json:"residues" yaml:"residues"`
}

// ResidueReport represents results for a single residue, a line in the output.
type ResidueReport struct {
	Key       ResidueKey `json:"residue" yaml:"residue"`
	Name      string     `json:"name" yaml:"name"`
	SASA      float64    `json:"sasa" yaml:"sasa"`           // accessible area with the solvent probe, Å²
	Reference float64    `json:"reference" yaml:"reference"` // probe-free exposed fraction on the probe sphere, Å²
	Ratio     float64    `json:"ratio" yaml:"ratio"`
	Exposed   bool       `json:"exposed" yaml:"exposed"`

	Side   float64 `json:"side" yaml:"side"`
	Main   float64 `json:"main" yaml:"main"`
	Apolar float64 `json:"apolar" yaml:"apolar"`
	Polar  float64 `json:"polar" yaml:"polar"`
}

// Buried returns the reports of the aminoacids not classified as exposed, keeping their order.
// Ligands and nucleotides are left out.
func Buried(reports []ResidueReport) []ResidueReport {
	var buried []ResidueReport
	for _, r := range reports {
		if !r.Exposed && pdb.IsAminoacid(r.Name) {
			buried = append(buried, r)
		}
	}
	return buried
}

// totals sums the per residue areas into structure totals.
func totals(reports []ResidueReport) SASA {
	s := SASA{Residues: reports}
	for _, r := range reports {
		s.Total += r.SASA
		s.Side += r.Side
		s.Main += r.Main
		s.Apolar += r.Apolar
		s.Polar += r.Polar
	}
	return s
}
