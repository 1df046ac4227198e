package sasa

import (
	"fmt"
)

// minReferenceArea is the smallest residue reference area, in Å², a ratio is computed for.
const minReferenceArea = 1e-9

// DefaultThreshold is the ratio above which a residue is exposed.
const DefaultThreshold = 0.5

// Classify fills the ratio and exposed flag of an aggregated report.
// A residue is exposed when its ratio is strictly greater than the threshold,
// so a ratio equal to the threshold is classified buried.
//
// The reference area is checked per residue, not per atom. Atoms with no area left even
// without the solvent probe are accepted; only a residue whose summed reference is zero
// fails. Coincident atom centres are rejected earlier, by Sampler.Sample.
func Classify(report ResidueReport, threshold float64) (ResidueReport, error) {
	if report.Reference <= minReferenceArea {
		return report, fmt.Errorf("%w: residue %s %s has no reference area", ErrDegenerateGeometry, report.Name, report.Key)
	}

	report.Ratio = report.SASA / report.Reference
	report.Exposed = report.Ratio > threshold

	return report, nil
}
