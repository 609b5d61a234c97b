package selectors

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// SelectorMap maps selectors to labels, remembering the order selectors were first inserted in. It serializes to a
// JSON object with keys in that order.
type SelectorMap struct {
	labels *orderedmap.OrderedMap[string, string]
}

// NewSelectorMap returns a new, empty SelectorMap.
func NewSelectorMap() *SelectorMap {
	return &SelectorMap{labels: orderedmap.New[string, string]()}
}

// Set records the label of a selector. A selector which is already present keeps its position.
func (m *SelectorMap) Set(selector string, label string) {
	m.labels.Set(selector, label)
}

// Get returns the label of a selector and whether it is present.
func (m *SelectorMap) Get(selector string) (string, bool) {
	return m.labels.Get(selector)
}

// Keys returns the selectors in order.
func (m *SelectorMap) Keys() []string {
	keys := make([]string, 0, m.labels.Len())
	for pair := m.labels.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len returns the number of selectors.
func (m *SelectorMap) Len() int {
	return m.labels.Len()
}

// MarshalJSON serializes the map as a JSON object with keys in order. Labels are written without HTML escaping.
func (m *SelectorMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for pair := m.labels.Oldest(); pair != nil; pair = pair.Next() {
		if pair != m.labels.Oldest() {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, pair.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, pair.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON deserializes a JSON object of strings, keeping its key order.
func (m *SelectorMap) UnmarshalJSON(b []byte) error {
	labels := orderedmap.New[string, string]()
	if err := labels.UnmarshalJSON(b); err != nil {
		return errors.WithStack(err)
	}
	m.labels = labels
	return nil
}

// ContractSelectors maps contract names to their SelectorMap, remembering the order contracts were first inserted in.
type ContractSelectors struct {
	contracts *orderedmap.OrderedMap[string, *SelectorMap]
}

// NewContractSelectors returns a new, empty ContractSelectors.
func NewContractSelectors() *ContractSelectors {
	return &ContractSelectors{contracts: orderedmap.New[string, *SelectorMap]()}
}

// Get returns the selectors of a contract and whether the contract is present.
func (c *ContractSelectors) Get(contractName string) (*SelectorMap, bool) {
	return c.contracts.Get(contractName)
}

// GetOrCreate returns the selectors of a contract, inserting an empty SelectorMap if the contract is not present.
func (c *ContractSelectors) GetOrCreate(contractName string) *SelectorMap {
	if selectorMap, ok := c.contracts.Get(contractName); ok {
		return selectorMap
	}
	selectorMap := NewSelectorMap()
	c.contracts.Set(contractName, selectorMap)
	return selectorMap
}

// Set records the selectors of a contract. A contract which is already present keeps its position.
func (c *ContractSelectors) Set(contractName string, selectorMap *SelectorMap) {
	c.contracts.Set(contractName, selectorMap)
}

// Names returns the contract names in order.
func (c *ContractSelectors) Names() []string {
	names := make([]string, 0, c.contracts.Len())
	for pair := c.contracts.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Len returns the number of contracts.
func (c *ContractSelectors) Len() int {
	return c.contracts.Len()
}

// MarshalJSON serializes the contracts as a JSON object with keys in order.
func (c *ContractSelectors) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for pair := c.contracts.Oldest(); pair != nil; pair = pair.Next() {
		if pair != c.contracts.Oldest() {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, pair.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		b, err := pair.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON deserializes a JSON object of selector objects, keeping key order at both levels.
func (c *ContractSelectors) UnmarshalJSON(b []byte) error {
	contracts := orderedmap.New[string, *SelectorMap]()
	if err := contracts.UnmarshalJSON(b); err != nil {
		return errors.WithStack(err)
	}
	c.contracts = contracts
	return nil
}

// writeJSONString writes a JSON string literal without escaping HTML characters. The ordered map's own marshaler
// escapes them, so serialization walks its pairs instead.
func writeJSONString(buf *bytes.Buffer, s string) error {
	var encoded bytes.Buffer
	encoder := json.NewEncoder(&encoded)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(s); err != nil {
		return errors.WithStack(err)
	}
	buf.Write(bytes.TrimSuffix(encoded.Bytes(), []byte("\n")))
	return nil
}
