package profile

import (
	"errors"
	"sort"
	"strings"
)

// DefaultMaxDepth bounds nesting for a single document. Anything
// deeper is almost certainly adversarial input rather than a real
// schema.
const DefaultMaxDepth = 200

// ErrMaxDepth reports a document that nests deeper than the walker's
// limit. The document fails; updates applied before the limit was hit
// remain in place (the pass is single-shot, there is no rollback).
var ErrMaxDepth = errors.New("document exceeds maximum nesting depth")

// Walker derives key paths from parsed JSON documents and feeds
// scalar leaves to a Counter and Reservoir. Traversal uses an
// explicit work stack, so nesting depth never translates into Go
// stack growth.
type Walker struct {
	// MaxDepth limits object/array nesting per document. Zero means
	// DefaultMaxDepth.
	MaxDepth int
}

// frame is one pending container on the work stack. prefix carries
// the trailing separator ("." after an object key, "[]." after an
// array hop), so a child path is always prefix+key.
type frame struct {
	value  any
	prefix string
	depth  int
}

// Walk traverses doc, incrementing the counter once per key
// occurrence (containers included) and sampling every scalar leaf. A
// root that is not a JSON object is a deliberate no-op, tolerating
// atypical top-level documents without failing the pass.
func (w Walker) Walk(doc any, c *Counter, r *Reservoir) error {
	root, ok := doc.(map[string]any)
	if !ok {
		return nil
	}

	maxDepth := w.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	stack := []frame{{value: root, prefix: "", depth: 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.depth > maxDepth {
			return ErrMaxDepth
		}

		// Scalars are handled inline in document order; container
		// children are collected and pushed in reverse so the LIFO
		// stack pops them in document order too.
		var pending []frame

		switch v := f.value.(type) {
		case map[string]any:
			// Sorted keys keep arrival order stable across runs; map
			// iteration order would otherwise leak into the samples.
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			for _, key := range keys {
				child := v[key]
				path := f.prefix + key
				c.Inc(path)

				switch child.(type) {
				case map[string]any:
					pending = append(pending, frame{child, path + ".", f.depth + 1})
				case []any:
					pending = append(pending, frame{child, path + "[].", f.depth + 1})
				default:
					if sv, ok := FromJSON(child); ok {
						r.Add(path, sv)
					}
				}
			}

		case []any:
			// The scalar path for elements is the prefix minus its
			// trailing dot: elements of {"a":[1,2,3]} land on "a[]".
			leafPath := strings.TrimSuffix(f.prefix, ".")

			for _, elem := range v {
				switch elem.(type) {
				case map[string]any:
					pending = append(pending, frame{elem, f.prefix, f.depth})
				case []any:
					pending = append(pending, frame{elem, leafPath + "[].", f.depth + 1})
				default:
					if sv, ok := FromJSON(elem); ok {
						r.Add(leafPath, sv)
					}
				}
			}
		}

		for i := len(pending) - 1; i >= 0; i-- {
			stack = append(stack, pending[i])
		}
	}
	return nil
}
