package profile

import (
	"fmt"
	"math/rand/v2"
	"sort"
)

// Default bounds, matching the documented configuration defaults.
const (
	DefaultSize      = 1024
	DefaultMaxLength = 1024
)

// intN is the source of replacement draws. *rand.Rand satisfies it;
// tests inject a deterministic stub to pin the draw boundary.
type intN interface {
	IntN(n int) int
}

// Reservoir maintains, per key path, a bounded Algorithm R sample of
// scalar values (duplicates allowed, arrival order within surviving
// slots) and a bounded first-seen set of unique example values.
type Reservoir struct {
	size      int
	maxLength int
	rng       intN

	occ      map[string]uint64
	samples  map[string][]Value
	uniq     map[string][]Value
	uniqSeen map[string]map[Value]struct{}
}

// ReservoirOption configures a Reservoir.
type ReservoirOption func(*Reservoir)

// WithRand replaces the replacement-draw source. Used by tests to make
// sampling deterministic.
func WithRand(r intN) ReservoirOption {
	return func(res *Reservoir) { res.rng = r }
}

// NewReservoir returns a reservoir with the given per-key sample size
// and string truncation length. Non-positive arguments fall back to
// the defaults.
func NewReservoir(size, maxLength int, opts ...ReservoirOption) *Reservoir {
	if size <= 0 {
		size = DefaultSize
	}
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	r := &Reservoir{
		size:      size,
		maxLength: maxLength,
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		occ:       make(map[string]uint64),
		samples:   make(map[string][]Value),
		uniq:      make(map[string][]Value),
		uniqSeen:  make(map[string]map[Value]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Size returns the configured per-key cap.
func (r *Reservoir) Size() int { return r.size }

// Add records one scalar occurrence at key. The occurrence count is
// incremented first, and the replacement draw uses that post-increment
// count as its exclusive upper bound: the current value participates
// in its own draw, so each of the first n values survives with
// probability size/n.
func (r *Reservoir) Add(key string, v Value) {
	r.occ[key]++
	n := r.occ[key]

	v = r.clamp(v)

	// Unique examples: bounded first-seen set, primitive kinds only.
	// Null occupies sample slots but never the example set.
	if v.Kind != KindNull {
		if len(r.uniq[key]) < r.size {
			seen := r.uniqSeen[key]
			if seen == nil {
				seen = make(map[Value]struct{})
				r.uniqSeen[key] = seen
			}
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				r.uniq[key] = append(r.uniq[key], v)
			}
		}
	}

	s := r.samples[key]
	if len(s) < r.size {
		r.samples[key] = append(s, v)
		return
	}
	if m := r.rng.IntN(int(n)); m < r.size {
		s[m] = v
	}
}

// clamp truncates over-long strings before storage or uniqueness
// tracking, bounding memory for pathological large-string fields.
func (r *Reservoir) clamp(v Value) Value {
	if v.Kind != KindString {
		return v
	}
	runes := []rune(v.Str)
	if len(runes) <= r.maxLength {
		return v
	}
	v.Str = string(runes[:r.maxLength]) +
		fmt.Sprintf("<truncated> (%d) ...", len(runes))
	return v
}

// Occurrences returns how many values have been added at key.
func (r *Reservoir) Occurrences(key string) uint64 {
	return r.occ[key]
}

// Sample returns a copy of the current sample for key.
func (r *Reservoir) Sample(key string) []Value {
	s := r.samples[key]
	out := make([]Value, len(s))
	copy(out, s)
	return out
}

// Samples returns a copy of every per-key sample.
func (r *Reservoir) Samples() map[string][]Value {
	out := make(map[string][]Value, len(r.samples))
	for k := range r.samples {
		out[k] = r.Sample(k)
	}
	return out
}

// Examples returns a copy of the independently capped unique-example
// set for every key, in first-seen order.
func (r *Reservoir) Examples() map[string][]Value {
	out := make(map[string][]Value, len(r.uniq))
	for k, u := range r.uniq {
		cp := make([]Value, len(u))
		copy(cp, u)
		out[k] = cp
	}
	return out
}

// UniqueStorage returns, per key, the deduplicated values currently in
// the sample, in first-arrival order. This is a reduction of the
// duplicate sample and may diverge from Examples once either cap is
// reached.
func (r *Reservoir) UniqueStorage() map[string][]Value {
	out := make(map[string][]Value, len(r.samples))
	for k, s := range r.samples {
		seen := make(map[Value]struct{}, len(s))
		uniq := make([]Value, 0, len(s))
		for _, v := range s {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			uniq = append(uniq, v)
		}
		out[k] = uniq
	}
	return out
}

// Keys returns every key path with at least one sampled value, sorted.
func (r *Reservoir) Keys() []string {
	keys := make([]string, 0, len(r.samples))
	for k := range r.samples {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
