package selectors

import (
	"strings"

	"github.com/crytic/selectors/compilation/types"
)

// BuildSignature returns the canonical signature of a function entry: its name followed by its input types in
// declaration order, comma-separated without spaces, e.g. "transfer(address,uint256)".
func BuildSignature(entry types.AbiEntry) string {
	inputTypes := make([]string, len(entry.Inputs))
	for i, input := range entry.Inputs {
		inputTypes[i] = input.Type
	}
	return entry.Name + "(" + strings.Join(inputTypes, ",") + ")"
}

// BuildLabel returns the label persisted for a function entry: its full signature, or its bare name if parameter
// types are not included.
func BuildLabel(entry types.AbiEntry, includeParameterTypes bool) string {
	if includeParameterTypes {
		return BuildSignature(entry)
	}
	return entry.Name
}
