package report

import (
	"encoding/json"
	"io"

	"github.com/unbound-force/indigo/internal/profile"
)

// WriteJSON writes the report as formatted JSON to the writer.
func WriteJSON(w io.Writer, r *Report) error {
	if r.Counts == nil {
		r.Counts = map[string]uint64{}
	}
	if r.Samples == nil {
		r.Samples = map[string][]profile.Value{}
	}
	if r.Unique == nil {
		r.Unique = map[string][]profile.Value{}
	}
	if r.Examples == nil {
		r.Examples = map[string][]profile.Value{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
