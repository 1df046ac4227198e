package sasa

import (
	"fmt"
)

// Aggregate sums per atom samples into one report per residue, in order of first appearance.
// The probe-free samples give the reference as an exposed fraction, measured on the same
// probe-inflated sphere as the accessible area. Ratios are left for Classify.
func Aggregate(set *AtomSet, sasa, reference []SurfaceSample) ([]ResidueReport, error) {
	if set == nil || set.Len() == 0 {
		return nil, fmt.Errorf("%w: empty atom set", ErrDegenerateGeometry)
	}
	if len(sasa) != set.Len() || len(reference) != set.Len() {
		return nil, fmt.Errorf("aggregate: %d atoms, %d probe samples, %d reference samples",
			set.Len(), len(sasa), len(reference))
	}

	residues := set.Residues()
	reports := make([]ResidueReport, len(residues))
	for ri, res := range residues {
		report := ResidueReport{Key: res.Key, Name: res.Name}
		for _, i := range res.Atoms {
			a := set.Atom(i)
			area := sasa[i].Area()

			report.SASA += area
			report.Reference += reference[i].Fraction() * sasa[i].SphereArea()

			if a.Backbone {
				report.Main += area
			} else {
				report.Side += area
			}
			if a.Polar {
				report.Polar += area
			} else {
				report.Apolar += area
			}
		}
		reports[ri] = report
	}

	return reports, nil
}
