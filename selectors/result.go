package selectors

import (
	"encoding/json"
)

// Result describes the aggregated selectors of one group: either one flat SelectorMap or one SelectorMap per contract.
type Result struct {
	// Separated describes whether the selectors are grouped per contract.
	Separated bool

	// Flat describes the flattened selectors, set when Separated is false.
	Flat *SelectorMap

	// ByContract describes the selectors per contract name, set when Separated is true.
	ByContract *ContractSelectors
}

// MarshalJSON serializes whichever shape the Result holds.
func (r *Result) MarshalJSON() ([]byte, error) {
	if r.Separated {
		return r.ByContract.MarshalJSON()
	}
	return r.Flat.MarshalJSON()
}

// UnmarshalJSON deserializes a Result. The shape must be chosen beforehand by setting Separated.
func (r *Result) UnmarshalJSON(b []byte) error {
	if r.Separated {
		r.ByContract = NewContractSelectors()
		return json.Unmarshal(b, r.ByContract)
	}
	r.Flat = NewSelectorMap()
	return json.Unmarshal(b, r.Flat)
}
