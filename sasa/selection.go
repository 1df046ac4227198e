package sasa

import (
	"fmt"
	"strings"
)

type selectionKind int

const (
	selectAll selectionKind = iota
	selectKeys
	selectRange
)

// Selection chooses the residues reported by Compute. The zero value selects all residues.
type Selection struct {
	kind       selectionKind
	keys       []ResidueKey
	start, end int
}

// All selects every residue, in order of first appearance.
func All() Selection {
	return Selection{kind: selectAll}
}

// Keys selects residues by chain and number, reported in the given order.
// Keys missing from the structure are skipped and repeated keys are reported once.
func Keys(keys ...ResidueKey) Selection {
	return Selection{kind: selectKeys, keys: keys}
}

// Range selects the residues with positions in [start, end) of the first appearance order.
// Bounds past the last residue are clamped, so an out of range selection is empty.
func Range(start, end int) Selection {
	return Selection{kind: selectRange, start: start, end: end}
}

func (s Selection) String() string {
	switch s.kind {
	case selectKeys:
		keys := make([]string, len(s.keys))
		for i, k := range s.keys {
			keys[i] = k.String()
		}
		return "keys(" + strings.Join(keys, ",") + ")"
	case selectRange:
		return fmt.Sprintf("range(%d,%d)", s.start, s.end)
	}
	return "all"
}

// resolve returns the positions of the selected residues in the atom set, in selection order.
func (s Selection) resolve(set *AtomSet) ([]int, error) {
	n := len(set.Residues())

	switch s.kind {
	case selectKeys:
		var selected []int
		seen := make(map[int]bool, len(s.keys))
		for _, k := range s.keys {
			ri, ok := set.ResidueIndex(k)
			if !ok || seen[ri] {
				continue
			}
			seen[ri] = true
			selected = append(selected, ri)
		}
		return selected, nil

	case selectRange:
		if s.start < 0 || s.end < 0 {
			return nil, fmt.Errorf("%w: negative bound in [%d, %d)", ErrInvalidSelection, s.start, s.end)
		}
		if s.start > s.end {
			return nil, fmt.Errorf("%w: start %d after end %d", ErrInvalidSelection, s.start, s.end)
		}
		start, end := min(s.start, n), min(s.end, n)
		selected := make([]int, 0, end-start)
		for ri := start; ri < end; ri++ {
			selected = append(selected, ri)
		}
		return selected, nil
	}

	selected := make([]int, n)
	for ri := range selected {
		selected[ri] = ri
	}
	return selected, nil
}
