package selectors

import (
	"bytes"
	"encoding/json"

	"github.com/crytic/selectors/utils"
	"github.com/pkg/errors"
)

// Render serializes a Result to JSON. Pretty output is indented by two spaces. HTML characters are left unescaped and
// no trailing newline is written.
func Render(result *Result, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(result); err != nil {
		return nil, errors.WithStack(err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// WriteResult renders a Result and writes it to the provided path, replacing any prior content. Parent directories
// are created as needed. Every returned error is a *WriteError.
func WriteResult(path string, result *Result, pretty bool) error {
	data, err := Render(result, pretty)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err = utils.WriteFileAtomic(path, data); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
