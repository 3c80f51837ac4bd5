// Package report assembles the terminal artifact of a profiling pass
// and provides output formatters in JSON and human-readable text.
package report

import (
	"time"

	"github.com/unbound-force/indigo/internal/profile"
)

// Meta carries the run-level fields of the report.
type Meta struct {
	// Size is the configured per-key reservoir cap.
	Size int `json:"size"`

	// Date is the generation timestamp, RFC 3339.
	Date string `json:"date"`

	// Total is the number of documents walked.
	Total uint64 `json:"total"`

	// SHA1 is the hex content digest of the input.
	SHA1 string `json:"sha1"`
}

// Report is the write-once artifact produced after the entire input
// has been consumed. The short field names are the wire contract.
type Report struct {
	Meta Meta `json:"meta"`

	// Counts is the full path-counter snapshot.
	Counts map[string]uint64 `json:"c"`

	// Samples holds the raw per-path reservoir (duplicates allowed).
	Samples map[string][]profile.Value `json:"s"`

	// Unique is the set-reduction of Samples, first-arrival order.
	Unique map[string][]profile.Value `json:"u"`

	// Examples is the independently capped unique-example set.
	Examples map[string][]profile.Value `json:"v"`
}

// Build assembles a report from the outcome of one pass.
func Build(generated time.Time, total uint64, sha1 string,
	c *profile.Counter, r *profile.Reservoir) *Report {

	return &Report{
		Meta: Meta{
			Size:  r.Size(),
			Date:  generated.Format(time.RFC3339),
			Total: total,
			SHA1:  sha1,
		},
		Counts:   c.Snapshot(),
		Samples:  r.Samples(),
		Unique:   r.UniqueStorage(),
		Examples: r.Examples(),
	}
}
