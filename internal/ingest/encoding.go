package ingest

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// DefaultEncoding is the canonical digest encoding.
const DefaultEncoding = "utf-8"

// newLineEncoder resolves an IANA encoding name into a function that
// re-encodes one line of decoded text for digesting. The empty name
// and UTF-8 aliases are the identity: raw line bytes are digested
// as read.
func newLineEncoder(name string) (func([]byte) ([]byte, error), error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return func(b []byte) ([]byte, error) { return b, nil }, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unknown encoding %q", name)
	}

	// Unmappable runes are replaced rather than failing the pass;
	// the digest stays deterministic either way.
	encoder := encoding.ReplaceUnsupported(enc.NewEncoder())
	return func(b []byte) ([]byte, error) {
		out, err := encoder.Bytes(b)
		if err != nil {
			return nil, fmt.Errorf("encoding line as %s: %w", name, err)
		}
		return out, nil
	}, nil
}
