package profile

import "sort"

// Counter maps key paths to occurrence counts. Entries are created on
// first occurrence and only ever increase; there is no cap and no
// eviction.
type Counter struct {
	counts map[string]uint64
}

// NewCounter returns an empty counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]uint64)}
}

// Inc increments the count for path, creating the entry on first use.
func (c *Counter) Inc(path string) {
	c.counts[path]++
}

// Get returns the count for path (zero if never seen).
func (c *Counter) Get(path string) uint64 {
	return c.counts[path]
}

// Len returns the number of distinct key paths seen.
func (c *Counter) Len() int {
	return len(c.counts)
}

// Paths returns all known key paths in sorted order.
func (c *Counter) Paths() []string {
	paths := make([]string, 0, len(c.counts))
	for p := range c.counts {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Snapshot returns a copy of the full mapping for report assembly.
func (c *Counter) Snapshot() map[string]uint64 {
	out := make(map[string]uint64, len(c.counts))
	for p, n := range c.counts {
		out[p] = n
	}
	return out
}
