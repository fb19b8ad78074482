package codebase

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decode returns content as UTF-8. Content that is not valid UTF-8 is
// decoded with the first of encodings that turns it into valid text.
func decode(content []byte, encodings []string) ([]byte, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if utf8.Valid(content) {
		return content, nil
	}

	for _, name := range encodings {
		enc, err := htmlindex.Get(name)
		if err != nil {
			log.Warningf("unknown source encoding %q", name)
			continue
		}
		if canonical, _ := htmlindex.Name(enc); canonical == "utf-8" {
			continue
		}
		out, _, err := transform.Bytes(enc.NewDecoder(), content)
		if err == nil && utf8.Valid(out) {
			log.Debugf("decoded source as %s", name)
			return out, nil
		}
	}
	return nil, fmt.Errorf("source is not UTF-8 and cannot be decoded as any of [%s]", strings.Join(encodings, ", "))
}
