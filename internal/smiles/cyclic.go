package smiles

import "sort"

// trackIndices derives the aromatic and cyclic atom index sets from the
// case-preserved string. The two sets are computed independently of
// classifyRings and may disagree with it on unusual inputs.
func trackIndices(s string, r *ringTable) (cyclic, aromatic []int) {
	aromaticSet := map[int]struct{}{}
	index := -1
	for i := 0; i < len(s); i++ {
		if isAtom(s[i]) {
			index++
			if isLower(s[i]) {
				aromaticSet[index] = struct{}{}
			}
		}
	}

	cyclicSet := map[int]struct{}{}
	for _, open := range r.opens {
		for _, idx := range ringWalk(s, open, r.self[open].Index) {
			cyclicSet[idx] = struct{}{}
		}
	}

	return sortedKeys(cyclicSet), sortedKeys(aromaticSet)
}

// ringWalk collects the atom indices on the path from an opening digit to
// its closing digit. Each branch depth keeps its own list; a branch that
// closes before the ring does is dropped.
func ringWalk(s string, open, index int) []int {
	digit := s[open]
	levels := [][]int{{index}}

	for pos := open + 1; pos < len(s) && s[pos] != digit; pos++ {
		c := s[pos]
		switch {
		case isAtom(c):
			index++
			top := len(levels) - 1
			levels[top] = append(levels[top], index)
		case c == '(':
			levels = append(levels, nil)
		case c == ')':
			// Leaving the branch the ring opened in keeps the base level.
			if len(levels) > 1 {
				levels = levels[:len(levels)-1]
			}
		}
	}

	var out []int
	for _, level := range levels {
		out = append(out, level...)
	}
	return out
}

func sortedKeys(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
