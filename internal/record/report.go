package record

import (
	"fmt"
	"strings"
)

// Report renders a markdown description of a record: ring counts, flags,
// atoms with their adjacency, and the index sets.
func Report(r *Record) string {
	var b strings.Builder

	title := r.NameRaw
	if title == "" {
		title = r.ID
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "`%s`\n\n", r.SmilesNorm)
	if r.SmilesRaw != r.SmilesNorm {
		fmt.Fprintf(&b, "Input: `%s`\n\n", r.SmilesRaw)
	}

	b.WriteString("## Rings\n\n")
	b.WriteString("| Aromatic | Non-aromatic | Total |\n")
	b.WriteString("|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d |\n\n", r.Rings.Aromatic, r.Rings.NonAromatic, r.Rings.Total)

	b.WriteString("## Flags\n\n")
	fmt.Fprintf(&b, "- Charged: %s\n", yesNo(r.Charged))
	fmt.Fprintf(&b, "- Amino acid: %s\n\n", yesNo(r.AminoAcid))

	fmt.Fprintf(&b, "## Atoms (%d)\n\n", r.AtomCount)
	b.WriteString("| Index | Symbol | Bonded to |\n")
	b.WriteString("|---|---|---|\n")
	for _, a := range r.Graph.Atoms {
		var nbs []string
		if a.Index < len(r.Graph.Bonds) {
			for _, nb := range r.Graph.Bonds[a.Index] {
				nbs = append(nbs, fmt.Sprintf("`%s`%d", nb.Symbol, nb.Index))
			}
		}
		fmt.Fprintf(&b, "| %d | `%s` | %s |\n", a.Index, a.Symbol, strings.Join(nbs, ", "))
	}
	b.WriteString("\n")

	b.WriteString("## Index sets\n\n")
	fmt.Fprintf(&b, "- Cyclic: %s\n", formatIndices(r.Graph.CyclicIndices))
	fmt.Fprintf(&b, "- Aromatic: %s\n", formatIndices(r.Graph.AromaticIndices))
	fmt.Fprintf(&b, "- Alcohol: %s\n", formatIndices(r.Graph.AlcoholIndices))

	return b.String()
}

func formatIndices(idx []int) string {
	if len(idx) == 0 {
		return "none"
	}
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
