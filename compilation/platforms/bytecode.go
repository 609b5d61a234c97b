package platforms

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/crytic/medusa-geth/common/hexutil"
)

// libraryPlaceholderPattern matches unlinked library placeholders ("__$<hash>$__" or "__<name>__") in hex bytecode.
var libraryPlaceholderPattern = regexp.MustCompile(`__(\$[0-9a-zA-Z]*\$|\w*)__`)

// decodeBytecode decodes a hex bytecode string as emitted in an artifact. Unlinked library placeholders are replaced
// by zero addresses so the surrounding bytecode (and its trailing metadata) can still be decoded. Undecodable input
// yields nil, since bytecode is informational for selector generation.
func decodeBytecode(bytecode string) []byte {
	if bytecode == "" {
		return nil
	}
	if !strings.HasPrefix(bytecode, "0x") && !strings.HasPrefix(bytecode, "0X") {
		bytecode = "0x" + bytecode
	}
	bytecode = libraryPlaceholderPattern.ReplaceAllString(bytecode, strings.Repeat("0", 40))

	decoded, err := hexutil.Decode(bytecode)
	if err != nil {
		return nil
	}
	return decoded
}

// resolvePath resolves a path relative to a project target directory, leaving absolute paths untouched.
func resolvePath(target string, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(target, path)
}
