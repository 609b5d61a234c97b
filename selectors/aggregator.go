package selectors

import (
	"github.com/crytic/selectors/logging"
	"github.com/crytic/selectors/logging/colors"
	"github.com/crytic/selectors/selectors/config"
)

// Aggregator accumulates the selectors of one group, contract by contract, and builds the group's Result. Each group
// owns its Aggregator; it is not safe for concurrent use.
type Aggregator struct {
	// separate describes whether the Result keeps one SelectorMap per contract.
	separate bool

	// collisionPolicy describes how two different labels for the same selector are resolved.
	collisionPolicy string

	// contracts describes the selectors accumulated so far, per contract name, in insertion order.
	contracts *ContractSelectors

	// labelSelectors maps each contract name to the first selector recorded for each label, to report labels shared
	// by several selectors.
	labelSelectors map[string]map[string]string

	// logger describes the Logger collisions and ambiguous labels are reported to.
	logger *logging.Logger
}

// NewAggregator returns a new Aggregator for the provided group.
func NewAggregator(group *config.SelectorGroupConfig, logger *logging.Logger) *Aggregator {
	return &Aggregator{
		separate:        group.SeparateByContract,
		collisionPolicy: group.CollisionPolicy,
		contracts:       NewContractSelectors(),
		labelSelectors:  make(map[string]map[string]string),
		logger:          logger,
	}
}

// AddContract records a contract, with no selectors yet. Recording a contract twice keeps its first position.
func (a *Aggregator) AddContract(contractName string) {
	a.contracts.GetOrCreate(contractName)
}

// Add records the label of a selector for a contract. A selector repeated with the same label is ignored, while a
// selector repeated with a different label is resolved by the collision policy. A label shared by several selectors
// of one contract (overloads labelled by bare name) is kept and reported.
func (a *Aggregator) Add(contractName string, selector string, label string) error {
	selectorMap := a.contracts.GetOrCreate(contractName)
	if err := a.insert(selectorMap, contractName, selector, label); err != nil {
		return err
	}

	labels, ok := a.labelSelectors[contractName]
	if !ok {
		labels = make(map[string]string)
		a.labelSelectors[contractName] = labels
	}
	if first, ok := labels[label]; !ok {
		labels[label] = selector
	} else if first != selector {
		a.logger.Warn(
			"Label ", colors.Bold, label, colors.Reset, " of contract ", colors.Bold, contractName, colors.Reset,
			" is shared by selectors ", first, " and ", selector,
		)
	}
	return nil
}

// insert records a selector in a SelectorMap, applying the collision policy when the selector already carries a
// different label.
func (a *Aggregator) insert(selectorMap *SelectorMap, contractName string, selector string, label string) error {
	existing, ok := selectorMap.Get(selector)
	if !ok {
		selectorMap.Set(selector, label)
		return nil
	}
	if existing == label {
		return nil
	}

	switch a.collisionPolicy {
	case config.CollisionPolicyFirst:
		a.logger.Warn("Selector ", selector, " of ", colors.Bold, label, colors.Reset, " in contract ", contractName,
			" collides with ", colors.Bold, existing, colors.Reset, ", keeping ", existing)
		return nil
	case config.CollisionPolicyLast:
		a.logger.Warn("Selector ", selector, " of ", colors.Bold, label, colors.Reset, " in contract ", contractName,
			" collides with ", colors.Bold, existing, colors.Reset, ", keeping ", label)
		selectorMap.Set(selector, label)
		return nil
	default:
		return &CollisionError{Contract: contractName, Selector: selector, Existing: existing, Incoming: label}
	}
}

// Result builds the Result of the group. Flattening walks contracts in insertion order: a selector already present
// with the same label keeps its first position, and a different label is resolved by the collision policy.
func (a *Aggregator) Result() (*Result, error) {
	if a.separate {
		return &Result{Separated: true, ByContract: a.contracts}, nil
	}

	flat := NewSelectorMap()
	for _, contractName := range a.contracts.Names() {
		selectorMap, _ := a.contracts.Get(contractName)
		for _, selector := range selectorMap.Keys() {
			label, _ := selectorMap.Get(selector)
			if err := a.insert(flat, contractName, selector, label); err != nil {
				return nil, err
			}
		}
	}
	return &Result{Separated: false, Flat: flat}, nil
}
