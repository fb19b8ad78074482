// Package format renders extracted declarations for the code generator and
// for people: indented JSON, YAML documents and a tab-separated line format.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/damap/model"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(decl model.Declaration) error
}

// New returns the encoder registered under name: json, yaml or line.
func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json", "":
		return NewJSONEncoder(w), nil
	case "yaml":
		return NewYAMLEncoder(w), nil
	case "line":
		return NewLineEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown output format %q", name)
}
