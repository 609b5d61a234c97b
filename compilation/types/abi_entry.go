package types

// AbiEntryTypeFunction is the ABI entry type describing a callable contract function.
const AbiEntryTypeFunction = "function"

// AbiEntry describes a single item of a contract's JSON ABI. Only function entries carry a name and inputs that are
// relevant to selector generation, other items (events, errors, constructors, fallback/receive) are read but ignored.
type AbiEntry struct {
	// Type describes the kind of ABI item, e.g. "function", "event", "error" or "constructor".
	Type string `json:"type"`

	// Name describes the name of the item. It is empty for constructors, fallback and receive entries.
	Name string `json:"name,omitempty"`

	// Inputs describes the ordered input parameters of the item.
	Inputs []AbiParameter `json:"inputs,omitempty"`

	// StateMutability describes whether the item is pure, view, nonpayable or payable.
	StateMutability string `json:"stateMutability,omitempty"`
}

// AbiParameter describes an input parameter of an ABI item.
type AbiParameter struct {
	// Name describes the declared parameter name, which may be empty.
	Name string `json:"name"`

	// Type describes the canonical ABI type of the parameter, e.g. "uint256", "address[]" or "tuple".
	Type string `json:"type"`

	// InternalType describes the Solidity-level type the compiler reported, e.g. "contract IERC20".
	InternalType string `json:"internalType,omitempty"`

	// Components describes the members of a tuple type.
	Components []AbiParameter `json:"components,omitempty"`
}

// IsFunction indicates whether the entry describes a contract function.
func (e AbiEntry) IsFunction() bool {
	return e.Type == AbiEntryTypeFunction
}
