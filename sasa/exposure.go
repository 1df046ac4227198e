package sasa

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tikz/exposure/pdb"
)

// Config contains the engine parameters.
type Config struct {
	ProbeRadius          float64  // solvent probe radius in Å (default: 1.4)
	SampleCount          int      // points sampled per atom sphere (default: 400)
	ExposureThreshold    float64  // ratio above which a residue is exposed (default: 0.5)
	DefaultElementRadius *float64 // radius for elements missing from the table, nil fails instead
	Workers              int      // concurrent sampling workers (default: runtime.NumCPU())

	Logger *slog.Logger // nil discards
}

// DefaultConfig returns a Config with default settings.
func DefaultConfig() Config {
	return Config{
		ProbeRadius:       1.4,
		SampleCount:       400,
		ExposureThreshold: DefaultThreshold,
		Workers:           runtime.NumCPU(),
	}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if math.IsNaN(c.ProbeRadius) || math.IsInf(c.ProbeRadius, 0) || c.ProbeRadius < 0 {
		return fmt.Errorf("%w: probe radius %v", ErrConfiguration, c.ProbeRadius)
	}
	if c.SampleCount < 1 {
		return fmt.Errorf("%w: sample count %d", ErrConfiguration, c.SampleCount)
	}
	if math.IsNaN(c.ExposureThreshold) || c.ExposureThreshold < 0 || c.ExposureThreshold > 1 {
		return fmt.Errorf("%w: exposure threshold %v outside [0, 1]", ErrConfiguration, c.ExposureThreshold)
	}
	if d := c.DefaultElementRadius; d != nil && (math.IsNaN(*d) || math.IsInf(*d, 0) || *d <= 0) {
		return fmt.Errorf("%w: default element radius %v", ErrConfiguration, *d)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d", ErrConfiguration, c.Workers)
	}
	return nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

func (c Config) workers() int {
	if c.Workers == 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

// Compute returns the exposure report of the selected residues, in selection order.
// Every atom takes part in burying the selected ones, but only the atoms of the selected
// residues are sampled.
func Compute(ctx context.Context, atoms []*pdb.Atom, sel Selection, cfg Config) ([]ResidueReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := cfg.logger().With("run", uuid.NewString())
	start := time.Now()

	set, err := NewAtomSet(atoms, NewRadiusTable(cfg.DefaultElementRadius))
	if err != nil {
		return nil, err
	}

	selected, err := sel.resolve(set)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		log.Debug("empty residue selection", "selection", sel.String())
		return []ResidueReport{}, nil
	}

	need := make([]bool, set.Len())
	for _, ri := range selected {
		for _, i := range set.Residues()[ri].Atoms {
			need[i] = true
		}
	}

	cellSize := 2 * (set.MaxRadius() + cfg.ProbeRadius)
	grid, err := NewGrid(set.Positions(), cellSize)
	if err != nil {
		return nil, err
	}

	sampler, err := NewSampler(set, grid, cfg.SampleCount)
	if err != nil {
		return nil, err
	}

	probe, reference, err := sampleAtoms(ctx, sampler, need, cfg.ProbeRadius, cfg.workers())
	if err != nil {
		return nil, fmt.Errorf("sample atoms: %w", err)
	}

	all, err := Aggregate(set, probe, reference)
	if err != nil {
		return nil, err
	}

	reports := make([]ResidueReport, 0, len(selected))
	for _, ri := range selected {
		r, err := Classify(all[ri], cfg.ExposureThreshold)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}

	log.Debug("computed exposure",
		"atoms", set.Len(),
		"residues", len(reports),
		"cell_size", cellSize,
		"samples", cfg.SampleCount,
		"duration", time.Since(start))

	return reports, nil
}

// Run computes the accessible surface of the whole structure, with every residue classified.
func Run(ctx context.Context, atoms []*pdb.Atom, cfg Config) (*SASA, error) {
	reports, err := Compute(ctx, atoms, All(), cfg)
	if err != nil {
		return nil, err
	}

	s := totals(reports)
	return &s, nil
}

// sampleAtoms samples the needed atoms twice, with and without the probe, on a bounded
// worker pool. Results are stored by atom index, so they do not depend on completion order.
func sampleAtoms(ctx context.Context, sampler *Sampler, need []bool, probeRadius float64, workers int) (probe, reference []SurfaceSample, err error) {
	n := len(need)
	probe = make([]SurfaceSample, n)
	reference = make([]SurfaceSample, n)

	batch := n / (workers * 4)
	if batch < 64 {
		batch = 64
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for lo := 0; lo < n; lo += batch {
		if gctx.Err() != nil {
			break
		}
		hi := min(lo+batch, n)

		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if !need[i] {
					continue
				}
				if err := gctx.Err(); err != nil {
					return err
				}

				s, err := sampler.Sample(i, probeRadius)
				if err != nil {
					return err
				}
				r, err := sampler.Sample(i, 0)
				if err != nil {
					return err
				}
				probe[i], reference[i] = s, r
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	return probe, reference, nil
}
