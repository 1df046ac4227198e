package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tikz/exposure/config"
	"github.com/tikz/exposure/interaction"
	"github.com/tikz/exposure/logger"
	"github.com/tikz/exposure/pdb"
	"github.com/tikz/exposure/sasa"
)

const exposureLongDesc string = `Exposure reports how exposed each residue of a structure is to solvent.

For every selected residue it computes the solvent accessible surface area with a
solvent probe, the reference area without it, their ratio, and whether the residue
is exposed (ratio above the threshold).

The structure argument is a PDB file path (optionally gzipped) or a PDB ID, which is
downloaded from RCSB and cached locally.`

const exposureShortDesc string = "Residue solvent exposure"

// app carries the configuration shared by every command.
type app struct {
	configFile string
	cfg        *config.Config
	log        *slog.Logger
}

func newExposureCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "exposure",
		Short:         exposureShortDesc,
		Long:          exposureLongDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	fs := cmd.PersistentFlags()
	fs.StringVar(&a.configFile, "config", "", "Path to a YAML config file (default: ./config.yaml)")
	fs.Float64("probe", 0, "Solvent probe radius in Å (default 1.4)")
	fs.Int("samples", 0, "Sample points per atom sphere (default 400)")
	fs.Float64("threshold", 0, "Ratio above which a residue is exposed (default 0.5)")
	fs.Float64("default-radius", 0, "Radius in Å for elements missing from the radius table")
	fs.Int("workers", 0, "Concurrent sampling workers (default: number of CPUs)")
	fs.Bool("hetatm", false, "Include HETATM records other than water")
	fs.String("cache", "", "Path of the structure download cache (default data/cache.db)")
	fs.BoolP("debug", "d", false, "Enable debug logging")
	fs.Bool("pretty", false, "Colorized log output")
	fs.Bool("json-log", false, "JSON log output")

	cmd.AddCommand(newResiduesCmd(a))
	cmd.AddCommand(newTotalCmd(a))
	cmd.AddCommand(newInterfaceCmd(a))

	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	v, err := config.InitViper(a.configFile)
	if err != nil {
		return err
	}
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger.New(
		logger.WithDebug(cfg.Log.Debug),
		logger.WithPretty(cfg.Log.Pretty),
		logger.WithJSON(cfg.Log.JSON),
		logger.WithWriter(cmd.ErrOrStderr()),
	)
	return nil
}

const residuesLongDesc string = `Report the solvent exposure of residues.

Residues are selected either by key (chain:number, or a bare number for that position
in every chain) or by a half-open index range over the order in which residues appear
in the file. Without a selection every residue is reported.

Each line holds: chain, residue number, residue name, SASA (Å²), reference area (Å²),
SASA/reference ratio, exposed flag (1 or 0) and mean B-factor.

Examples:
  exposure residues 1mso.pdb
  exposure residues 1mso.pdb A:12 B:30
  exposure residues 1MSO --start 0 --end 20 --format json`

func newResiduesCmd(a *app) *cobra.Command {
	var (
		start, end int
		format     string
		buried     bool
	)

	cmd := &cobra.Command{
		Use:   "residues <structure> [residue...]",
		Short: "Report per residue solvent exposure",
		Long:  residuesLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := newPrinter(cmd.OutOrStdout(), format)
			if err != nil {
				return err
			}

			p, err := LoadStructure(cmd.Context(), args[0], a.cfg, a.log)
			if err != nil {
				return err
			}

			rangeSet := cmd.Flags().Changed("start") || cmd.Flags().Changed("end")
			if rangeSet && len(args) > 1 {
				return errors.New("select residues either by key or by --start/--end, not both")
			}

			sel := sasa.All()
			switch {
			case rangeSet:
				if !cmd.Flags().Changed("end") {
					end = math.MaxInt
				}
				sel = sasa.Range(start, end)
			case len(args) > 1:
				keys, err := residueKeys(p, args[1:])
				if err != nil {
					return err
				}
				sel = sasa.Keys(keys...)
			}

			reports, err := sasa.Compute(cmd.Context(), p.SurfaceAtoms(a.cfg.Hetatm), sel, a.cfg.Engine(a.log))
			if err != nil {
				return err
			}
			if buried {
				reports = sasa.Buried(reports)
			}

			return out.printReports(reports, p)
		},
	}

	cmd.Flags().IntVar(&start, "start", 0, "First residue index of the range (0-based, inclusive)")
	cmd.Flags().IntVar(&end, "end", 0, "Last residue index of the range (exclusive, default: last residue)")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, json or yaml")
	cmd.Flags().BoolVar(&buried, "buried", false, "Only report buried residues")

	return cmd
}

// residueKeys parses residue arguments. A bare number selects that position in every chain,
// in order of appearance.
func residueKeys(p *pdb.PDB, args []string) ([]sasa.ResidueKey, error) {
	var keys []sasa.ResidueKey
	for _, arg := range args {
		if strings.Contains(arg, ":") {
			k, err := sasa.ParseResidueKey(arg)
			if err != nil {
				return nil, err
			}
			keys = append(keys, k)
			continue
		}

		n, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is neither chain:number nor a number", sasa.ErrInvalidSelection, arg)
		}
		for _, res := range p.Residues {
			if res.StructPosition == n {
				keys = append(keys, sasa.ResidueKey{Chain: res.Chain, Number: n})
			}
		}
	}
	return keys, nil
}

func newTotalCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "total <structure>",
		Short: "Report total, polar and apolar accessible surface",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := newPrinter(cmd.OutOrStdout(), format)
			if err != nil {
				return err
			}

			p, err := LoadStructure(cmd.Context(), args[0], a.cfg, a.log)
			if err != nil {
				return err
			}

			s, err := sasa.Run(cmd.Context(), p.SurfaceAtoms(a.cfg.Hetatm), a.cfg.Engine(a.log))
			if err != nil {
				return err
			}

			return out.printTotals(s)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, json or yaml")

	return cmd
}

func newInterfaceCmd(a *app) *cobra.Command {
	var (
		format   string
		distance float64
	)

	cmd := &cobra.Command{
		Use:   "interface <structure>",
		Short: "List residues near other chains, ligands or water",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := newPrinter(cmd.OutOrStdout(), format)
			if err != nil {
				return err
			}
			if distance <= 0 {
				return fmt.Errorf("distance must be positive, got %v", distance)
			}

			p, err := LoadStructure(cmd.Context(), args[0], a.cfg, a.log)
			if err != nil {
				return err
			}

			water := make(map[*pdb.Residue]bool)
			for _, res := range p.Residues {
				if interaction.NearWater(p, res, distance) {
					water[res] = true
				}
			}

			return out.printInterface(p, interaction.Chains(p, distance), interaction.Hets(p, distance), water)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, json or yaml")
	cmd.Flags().Float64Var(&distance, "distance", 5, "Cutoff distance in Å between atoms")

	return cmd
}
