package selectors

import (
	"github.com/crytic/medusa-geth/accounts/abi"
	"github.com/crytic/medusa-geth/common/hexutil"
	"github.com/crytic/selectors/selectors/config"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// Resolver turns a canonical signature into its selector, "0x" followed by eight lowercase hex digits. Resolvers are
// pure and safe for concurrent use.
type Resolver interface {
	// Resolve returns the selector of the provided signature.
	Resolve(signature string) (string, error)
}

// AbiEncodedResolver hashes the ABI encoding of a signature passed as a single string parameter.
type AbiEncodedResolver struct {
	// arguments describes the single string argument the signature is encoded as.
	arguments abi.Arguments
}

// NewAbiEncodedResolver returns a new AbiEncodedResolver.
func NewAbiEncodedResolver() (*AbiEncodedResolver, error) {
	stringType, err := abi.NewType("string", "", nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &AbiEncodedResolver{arguments: abi.Arguments{{Type: stringType}}}, nil
}

// Resolve returns the first four bytes of the Keccak-256 hash of the ABI-encoded signature.
func (r *AbiEncodedResolver) Resolve(signature string) (string, error) {
	encoded, err := r.arguments.Pack(signature)
	if err != nil {
		return "", &HashPrimitiveError{Signature: signature, Err: errors.WithStack(err)}
	}
	return keccakSelector(encoded), nil
}

// CanonicalResolver hashes the raw bytes of a signature, yielding the selector the EVM dispatches on.
type CanonicalResolver struct{}

// Resolve returns the first four bytes of the Keccak-256 hash of the signature.
func (r CanonicalResolver) Resolve(signature string) (string, error) {
	return keccakSelector([]byte(signature)), nil
}

// NewResolver returns the Resolver for a selector encoding, as named in a group configuration.
func NewResolver(encoding string) (Resolver, error) {
	switch encoding {
	case config.SelectorEncodingAbiEncoded:
		return NewAbiEncodedResolver()
	case config.SelectorEncodingCanonical:
		return CanonicalResolver{}, nil
	default:
		return nil, errors.Errorf("unknown selector encoding '%s'", encoding)
	}
}

// keccakSelector returns the first four bytes of the legacy Keccak-256 hash of data as lowercase "0x"-prefixed hex.
func keccakSelector(data []byte) string {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(data)
	return hexutil.Encode(hasher.Sum(nil)[:4])
}
