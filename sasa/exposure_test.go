package sasa

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/tikz/exposure/pdb"
)

// ComputeSuite exercises the exposure engine end to end.
type ComputeSuite struct {
	suite.Suite
	cfg Config
}

func (s *ComputeSuite) SetupTest() {
	s.cfg = DefaultConfig()
	s.cfg.Workers = 4
}

// TestIsolatedResidue checks that a lone atom has its whole inflated sphere exposed.
func (s *ComputeSuite) TestIsolatedResidue() {
	reports, err := Compute(context.Background(), []*pdb.Atom{atom(1, "CA", "C", "A", 1, 0, 0, 0)}, All(), s.cfg)
	require.NoError(s.T(), err)
	require.Len(s.T(), reports, 1)

	r := reports[0]
	require.InDelta(s.T(), sphereArea(3.1), r.SASA, 1e-9)
	require.InDelta(s.T(), r.SASA, r.Reference, 1e-9)
	require.Equal(s.T(), 1.0, r.Ratio)
	require.True(s.T(), r.Exposed)
	require.Equal(s.T(), r.SASA, r.Main)
	require.Zero(s.T(), r.Side)
}

// TestBuriedResidue checks a caged atom: nothing accessible, but a positive reference.
func (s *ComputeSuite) TestBuriedResidue() {
	reports, err := Compute(context.Background(), buriedCluster(), Keys(ResidueKey{"A", 1}), s.cfg)
	require.NoError(s.T(), err)
	require.Len(s.T(), reports, 1)

	r := reports[0]
	require.Zero(s.T(), r.SASA)
	require.Greater(s.T(), r.Reference, 0.0)
	require.Zero(s.T(), r.Ratio)
	require.False(s.T(), r.Exposed)
}

// TestTwoAtoms checks the accessible area against the analytical cap area.
func (s *ComputeSuite) TestTwoAtoms() {
	s.cfg.SampleCount = 1000
	atoms := []*pdb.Atom{
		atom(1, "C1", "C", "A", 1, 0, 0, 0),
		atom(2, "C2", "C", "A", 2, 2, 0, 0),
	}

	reports, err := Compute(context.Background(), atoms, All(), s.cfg)
	require.NoError(s.T(), err)
	require.Len(s.T(), reports, 2)

	capArea := 2 * math.Pi * 3.1 * 2.1
	for _, r := range reports {
		require.InDelta(s.T(), sphereArea(3.1)-capArea, r.SASA, 1.5)
		require.Less(s.T(), r.SASA, r.Reference)
		require.InDelta(s.T(), 0.833, r.Ratio, 0.02)
		require.True(s.T(), r.Exposed)
	}
}

// TestBounds checks ratio bounds and the classification rule on a random structure.
func (s *ComputeSuite) TestBounds() {
	s.cfg.SampleCount = 200
	reports, err := Compute(context.Background(), randomCloud(11, 60, 14, 2), All(), s.cfg)
	require.NoError(s.T(), err)
	require.Len(s.T(), reports, 20)

	for _, r := range reports {
		require.GreaterOrEqual(s.T(), r.SASA, 0.0)
		require.LessOrEqual(s.T(), r.SASA, r.Reference+1e-9, "residue %s", r.Key)
		require.GreaterOrEqual(s.T(), r.Ratio, 0.0)
		require.LessOrEqual(s.T(), r.Ratio, 1.0+1e-12)
		require.Equal(s.T(), r.Ratio > s.cfg.ExposureThreshold, r.Exposed)
		require.InDelta(s.T(), r.SASA, r.Side+r.Main, 1e-9)
		require.InDelta(s.T(), r.SASA, r.Polar+r.Apolar, 1e-9)
	}
}

// TestSampleCountStability checks that residues clearly away from the threshold keep their
// classification as the sampling gets finer.
func (s *ComputeSuite) TestSampleCountStability() {
	atoms := randomCloud(21, 120, 16, 1.9)

	var runs [][]ResidueReport
	for _, k := range []int{100, 400, 960} {
		s.cfg.SampleCount = k
		reports, err := Compute(context.Background(), atoms, All(), s.cfg)
		require.NoError(s.T(), err)
		runs = append(runs, reports)
	}

	fine := runs[len(runs)-1]
	for _, reports := range runs[:len(runs)-1] {
		require.Len(s.T(), reports, len(fine))
		for i, r := range fine {
			if math.Abs(r.Ratio-s.cfg.ExposureThreshold) <= 0.1 {
				continue
			}
			require.Equal(s.T(), r.Exposed, reports[i].Exposed, "residue %s ratio %.3f", r.Key, r.Ratio)
		}
	}
}

// TestDeterministic checks that results depend neither on repetition nor on worker count.
func (s *ComputeSuite) TestDeterministic() {
	s.cfg.SampleCount = 150
	atoms := randomCloud(5, 90, 15, 1.8)

	first, err := Compute(context.Background(), atoms, All(), s.cfg)
	require.NoError(s.T(), err)

	again, err := Compute(context.Background(), atoms, All(), s.cfg)
	require.NoError(s.T(), err)
	require.Equal(s.T(), first, again)

	s.cfg.Workers = 1
	serial, err := Compute(context.Background(), atoms, All(), s.cfg)
	require.NoError(s.T(), err)
	require.Equal(s.T(), first, serial)
}

// TestSelections checks that selected residues match the full computation, in selection order.
func (s *ComputeSuite) TestSelections() {
	s.cfg.SampleCount = 150
	atoms := randomCloud(9, 30, 12, 1.8)

	all, err := Compute(context.Background(), atoms, All(), s.cfg)
	require.NoError(s.T(), err)
	require.Len(s.T(), all, 10)

	keys, err := Compute(context.Background(), atoms,
		Keys(ResidueKey{"A", 4}, ResidueKey{"A", 2}, ResidueKey{"Z", 1}, ResidueKey{"A", 4}), s.cfg)
	require.NoError(s.T(), err)
	require.Equal(s.T(), []ResidueReport{all[3], all[1]}, keys)

	ranged, err := Compute(context.Background(), atoms, Range(8, 100), s.cfg)
	require.NoError(s.T(), err)
	require.Equal(s.T(), all[8:], ranged)

	empty, err := Compute(context.Background(), atoms, Range(20, 30), s.cfg)
	require.NoError(s.T(), err)
	require.Empty(s.T(), empty)

	_, err = Compute(context.Background(), atoms, Range(3, 1), s.cfg)
	require.ErrorIs(s.T(), err, ErrInvalidSelection)
}

// TestErrors checks the error kinds surfaced by Compute.
func (s *ComputeSuite) TestErrors() {
	_, err := Compute(context.Background(), nil, All(), s.cfg)
	require.ErrorIs(s.T(), err, ErrDegenerateGeometry)

	unknown := []*pdb.Atom{atom(1, "X", "Xx", "A", 1, 0, 0, 0)}
	_, err = Compute(context.Background(), unknown, All(), s.cfg)
	require.ErrorIs(s.T(), err, ErrUnknownElement)

	def := 2.0
	s.cfg.DefaultElementRadius = &def
	reports, err := Compute(context.Background(), unknown, All(), s.cfg)
	require.NoError(s.T(), err)
	require.InDelta(s.T(), sphereArea(3.4), reports[0].SASA, 1e-9)

	coincident := []*pdb.Atom{
		atom(1, "C1", "C", "A", 1, 0, 0, 0),
		atom(2, "C2", "C", "A", 2, 0, 0, 0),
	}
	_, err = Compute(context.Background(), coincident, All(), s.cfg)
	require.ErrorIs(s.T(), err, ErrDegenerateGeometry)

	s.cfg.SampleCount = 0
	_, err = Compute(context.Background(), unknown, All(), s.cfg)
	require.ErrorIs(s.T(), err, ErrConfiguration)
}

// TestCancelled checks that a cancelled context stops the computation.
func (s *ComputeSuite) TestCancelled() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Compute(ctx, randomCloud(1, 30, 12, 1.8), All(), s.cfg)
	require.Error(s.T(), err)
	require.True(s.T(), errors.Is(err, context.Canceled))
}

// TestRun checks that totals add up the residue reports.
func (s *ComputeSuite) TestRun() {
	s.cfg.SampleCount = 150
	atoms := randomCloud(2, 45, 13, 1.8)

	res, err := Run(context.Background(), atoms, s.cfg)
	require.NoError(s.T(), err)
	require.Len(s.T(), res.Residues, 15)

	var total float64
	for _, r := range res.Residues {
		total += r.SASA
	}
	require.InDelta(s.T(), total, res.Total, 1e-9)
	require.InDelta(s.T(), res.Total, res.Polar+res.Apolar, 1e-9)
	require.InDelta(s.T(), res.Total, res.Side+res.Main, 1e-9)
}

func TestComputeSuite(t *testing.T) {
	suite.Run(t, new(ComputeSuite))
}

func TestConfigValidate(t *testing.T) {
	neg := -1.0
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero probe", func(c *Config) { c.ProbeRadius = 0 }, true},
		{"negative probe", func(c *Config) { c.ProbeRadius = -0.1 }, false},
		{"infinite probe", func(c *Config) { c.ProbeRadius = math.Inf(1) }, false},
		{"no samples", func(c *Config) { c.SampleCount = 0 }, false},
		{"threshold above one", func(c *Config) { c.ExposureThreshold = 1.1 }, false},
		{"threshold nan", func(c *Config) { c.ExposureThreshold = math.NaN() }, false},
		{"threshold bounds", func(c *Config) { c.ExposureThreshold = 1 }, true},
		{"negative default radius", func(c *Config) { c.DefaultElementRadius = &neg }, false},
		{"negative workers", func(c *Config) { c.Workers = -2 }, false},
		{"auto workers", func(c *Config) { c.Workers = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrConfiguration)
		})
	}
}
