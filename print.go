package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/tikz/exposure/interaction"
	"github.com/tikz/exposure/pdb"
	"github.com/tikz/exposure/sasa"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	exposedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	buriedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// printer renders reports. Colors are only used on terminals.
type printer struct {
	w      io.Writer
	format string
	color  bool
}

func newPrinter(w io.Writer, format string) (*printer, error) {
	switch format {
	case formatText, formatJSON, formatYAML:
	default:
		return nil, fmt.Errorf("unknown output format %q (text, json, yaml)", format)
	}

	color := false
	if f, ok := w.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}

	return &printer{w: w, format: format, color: color}, nil
}

// label pads a totals name before styling, as escape codes do not take up columns.
func (p *printer) label(name string) string {
	return p.style(headerStyle, fmt.Sprintf("%-8s", name))
}

func (p *printer) style(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

// residueRow is a report line, with the residue B-factor the exposure is usually read against.
type residueRow struct {
	sasa.ResidueReport `yaml:",inline"`
	BFactor            float64 `json:"bfactor" yaml:"bfactor"`
}

func rows(reports []sasa.ResidueReport, p *pdb.PDB) []residueRow {
	out := make([]residueRow, len(reports))
	for i, r := range reports {
		out[i] = residueRow{ResidueReport: r}
		if res := p.Residue(r.Key.Chain, r.Key.Number); res != nil {
			out[i].BFactor = res.MeanBFactor
		}
	}
	return out
}

// printReports writes one line per residue: chain, number, name, SASA, reference area,
// ratio, exposed flag and mean B-factor.
func (p *printer) printReports(reports []sasa.ResidueReport, structure *pdb.PDB) error {
	rs := rows(reports, structure)

	switch p.format {
	case formatJSON:
		return p.json(rs)
	case formatYAML:
		return p.yaml(rs)
	}

	if p.color {
		fmt.Fprintln(p.w, p.style(headerStyle, "chain res name      sasa  reference  ratio exposed bfactor"))
	}
	for _, r := range rs {
		flag := p.style(buriedStyle, "0")
		if r.Exposed {
			flag = p.style(exposedStyle, "1")
		}
		fmt.Fprintf(p.w, "%s %d %s %.2f %.2f %.3f %s %.2f\n",
			r.Key.Chain, r.Key.Number, r.Name, r.SASA, r.Reference, r.Ratio, flag, r.BFactor)
	}
	return nil
}

// printTotals writes the structure totals, one "Name : value" line each.
func (p *printer) printTotals(s *sasa.SASA) error {
	switch p.format {
	case formatJSON:
		return p.json(s)
	case formatYAML:
		return p.yaml(s)
	}

	lines := []struct {
		name  string
		value float64
	}{
		{"Total", s.Total},
		{"Apolar", s.Apolar},
		{"Polar", s.Polar},
		{"Main", s.Main},
		{"Side", s.Side},
	}
	for _, l := range lines {
		fmt.Fprintf(p.w, "%s: %10.2f\n", p.label(l.name), l.value)
	}

	buried := sasa.Buried(s.Residues)
	fmt.Fprintf(p.w, "%s: %10d of %d\n", p.label("Buried"), len(buried), len(s.Residues))
	return nil
}

type interfaceRow struct {
	Residue  string   `json:"residue" yaml:"residue"`
	Contacts []string `json:"contacts,omitempty" yaml:"contacts,omitempty"`
	Ligands  []string `json:"ligands,omitempty" yaml:"ligands,omitempty"`
	Water    bool     `json:"water" yaml:"water"`
}

func residueLabel(r *pdb.Residue) string {
	return r.Chain + "-" + r.Name3 + strconv.FormatInt(r.StructPosition, 10)
}

// printInterface writes the residues in contact with other chains, ligands or water, in structure order.
// Text lines hold the residue, its contacts with distances, ligand names and a near water flag.
func (p *printer) printInterface(structure *pdb.PDB, chains map[*pdb.Residue][]interaction.Contact, hets map[*pdb.Residue][]string, water map[*pdb.Residue]bool) error {
	var out []interfaceRow
	for _, res := range structure.Residues {
		contacts, ligands := chains[res], hets[res]
		if len(contacts) == 0 && len(ligands) == 0 && !water[res] {
			continue
		}

		sort.SliceStable(contacts, func(i, j int) bool { return contacts[i].Distance < contacts[j].Distance })
		row := interfaceRow{Residue: residueLabel(res), Ligands: ligands, Water: water[res]}
		for _, c := range contacts {
			row.Contacts = append(row.Contacts, fmt.Sprintf("%s(%.2f)", residueLabel(c.Residue), c.Distance))
		}
		out = append(out, row)
	}

	switch p.format {
	case formatJSON:
		return p.json(out)
	case formatYAML:
		return p.yaml(out)
	}

	for _, row := range out {
		water := "0"
		if row.Water {
			water = "1"
		}
		fmt.Fprintf(p.w, "%s %s %s %s\n",
			p.style(headerStyle, row.Residue),
			p.style(buriedStyle, strings.Join(row.Contacts, " ")),
			p.style(exposedStyle, strings.Join(row.Ligands, " ")),
			water)
	}
	return nil
}

func (p *printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "\t")
	return enc.Encode(v)
}

func (p *printer) yaml(v any) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
