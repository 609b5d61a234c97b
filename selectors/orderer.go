package selectors

import "golang.org/x/exp/slices"

// Order returns a copy of the Result with every SelectorMap sorted by selector and, when grouped per contract, the
// contracts sorted by name. Selectors are fixed-width lowercase hex, so lexicographic order is numeric order.
func Order(result *Result) *Result {
	if !result.Separated {
		return &Result{Separated: false, Flat: sortSelectorMap(result.Flat)}
	}

	ordered := NewContractSelectors()
	names := result.ByContract.Names()
	slices.Sort(names)
	for _, name := range names {
		selectorMap, _ := result.ByContract.Get(name)
		ordered.Set(name, sortSelectorMap(selectorMap))
	}
	return &Result{Separated: true, ByContract: ordered}
}

// sortSelectorMap returns a copy of the SelectorMap with its selectors in lexicographic order.
func sortSelectorMap(selectorMap *SelectorMap) *SelectorMap {
	sorted := NewSelectorMap()
	selectors := selectorMap.Keys()
	slices.Sort(selectors)
	for _, selector := range selectors {
		label, _ := selectorMap.Get(selector)
		sorted.Set(selector, label)
	}
	return sorted
}
