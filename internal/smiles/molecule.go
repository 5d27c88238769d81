// Package smiles decodes CHON(S) SMILES strings into atom/bond graphs
// annotated with ring, aromaticity and hydroxyl metadata.
//
// Decoding is a pure function of its input. A Molecule is never mutated
// after Decode returns, so molecules may be shared across goroutines.
package smiles

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/hpungsan/molgraph/internal/errors"
)

// Atom is an indexed atom or a neighbour descriptor. In adjacency lists the
// symbol may carry an explicit bond prefix ("=O") or a full charge group.
type Atom struct {
	Index  int    `json:"index"`
	Symbol string `json:"symbol"`
}

// RingCounts holds the per-ring classification. Aromatic + NonAromatic == Total.
type RingCounts struct {
	Aromatic    int `json:"aromatic"`
	NonAromatic int `json:"non_aromatic"`
	Total       int `json:"total"`
}

// Molecule is a decoded SMILES string.
type Molecule struct {
	Name   string `json:"name"`
	SMILES string `json:"smiles"` // normalized, upper-case

	Atoms []Atom   `json:"atoms"` // Atoms[i].Index == i
	Bonds [][]Atom `json:"bonds"` // Bonds[i] is the adjacency of atom i

	Rings           RingCounts `json:"rings"`
	CyclicIndices   []int      `json:"cyclic_indices"`
	AromaticIndices []int      `json:"aromatic_indices"`
	AlcoholIndices  []int      `json:"alcohol_indices"`

	Charged   bool `json:"charged"`
	AminoAcid bool `json:"amino_acid"`
}

var aminoAcidPattern = regexp.MustCompile(`\[[nN]H[23]?\+\]`)

// Decode parses smiles into a Molecule. The name is carried through
// unchanged. Any failure returns a *errors.MolError and no Molecule.
func Decode(smiles, name string) (*Molecule, error) {
	if smiles == "" {
		return nil, errors.NewInvalidRequest("smiles is required")
	}

	s, err := Normalize(smiles)
	if err != nil {
		return nil, err
	}
	b, err := validate(s)
	if err != nil {
		return nil, err
	}

	rings, err := pairRings(s, b)
	if err != nil {
		return nil, err
	}
	cyclic, aromatic := trackIndices(s, rings)
	counts := classifyRings(s, rings)

	up := strings.ToUpper(s)
	atoms, alcohols, err := indexAtoms(up, b)
	if err != nil {
		return nil, err
	}
	bonds, err := buildBonds(up, b, rings)
	if err != nil {
		return nil, err
	}
	if alcohols == nil {
		alcohols = []int{}
	}

	return &Molecule{
		Name:            name,
		SMILES:          up,
		Atoms:           atoms,
		Bonds:           bonds,
		Rings:           counts,
		CyclicIndices:   cyclic,
		AromaticIndices: aromatic,
		AlcoholIndices:  alcohols,
		Charged:         strings.ContainsAny(smiles, chargeSymbols),
		AminoAcid:       aminoAcidPattern.MatchString(smiles),
	}, nil
}

// String returns "NAME : SMILES".
func (m *Molecule) String() string {
	return fmt.Sprintf("%s : %s", m.Name, m.SMILES)
}

// AtomCount returns the number of atoms.
func (m *Molecule) AtomCount() int {
	return len(m.Atoms)
}

// BondCount returns the number of distinct undirected atom pairs in the graph.
func (m *Molecule) BondCount() int {
	seen := map[[2]int]struct{}{}
	for i, adj := range m.Bonds {
		for _, nb := range adj {
			if nb.Index == i {
				continue
			}
			key := [2]int{min(i, nb.Index), max(i, nb.Index)}
			seen[key] = struct{}{}
		}
	}
	return len(seen)
}

// SymbolMap returns index → symbol for every atom.
func (m *Molecule) SymbolMap() map[int]string {
	out := make(map[int]string, len(m.Atoms))
	for _, a := range m.Atoms {
		out[a.Index] = a.Symbol
	}
	return out
}

// IsCyclic reports whether atom i belongs to any ring.
func (m *Molecule) IsCyclic(i int) bool {
	return containsIndex(m.CyclicIndices, i)
}

// IsAromatic reports whether atom i was written in lower case.
func (m *Molecule) IsAromatic(i int) bool {
	return containsIndex(m.AromaticIndices, i)
}

func containsIndex(sorted []int, i int) bool {
	_, found := slices.BinarySearch(sorted, i)
	return found
}
