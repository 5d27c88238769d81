package smiles

// indexAtoms assigns dense indices to every atom of the upper-cased string
// and collects the oxygens that look like hydroxyl groups.
func indexAtoms(s string, b brackets) (atoms []Atom, alcohols []int, err error) {
	index := -1
	for pos := 0; pos < len(s); pos++ {
		c := s[pos]
		if !isAtom(c) {
			continue
		}
		index++
		symbol := string(c)
		if at(s, pos-1) == '[' {
			if symbol, err = b.group(s, pos-1); err != nil {
				return nil, nil, err
			}
		}
		atoms = append(atoms, Atom{Index: index, Symbol: symbol})

		if c == 'O' && isAlcohol(s, pos, index) {
			alcohols = append(alcohols, index)
		}
	}
	return atoms, alcohols, nil
}

// isAlcohol applies the four positional hydroxyl rules; first match wins.
func isAlcohol(s string, pos, index int) bool {
	prev, next := at(s, pos-1), at(s, pos+1)

	switch {
	// Terminal oxygen.
	case pos == len(s)-1:
		return prev == 'C' || isDigit(prev) || prev == ')'
	// Leading oxygen.
	case index == 0 && next == 'C':
		return true
	// Lone (O) branch.
	case prev == '(' && next == ')':
		return true
	// Oxygen closing a branch.
	case next == ')':
		return !isBond(prev) && !isBracket(prev)
	}
	return false
}
