// Package filter provides optional jq-style preprocessing of decoded
// documents before they are walked.
package filter

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/itchyny/gojq"
)

// Filter is a compiled jq expression applied to each document.
type Filter struct {
	expr string
	code *gojq.Code
}

// Compile parses and compiles a jq expression. An invalid expression
// is a startup error, before any input is consumed.
func Compile(expr string) (*Filter, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("invalid filter expression at offset %d: %w",
				parseErr.Offset, err)
		}
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("compiling filter expression: %w", err)
	}
	return &Filter{expr: expr, code: code}, nil
}

// Expr returns the original expression text.
func (f *Filter) Expr() string { return f.expr }

// Apply runs the filter against one document and returns the first
// value it emits. ok=false means the filter produced no output (or
// only null) and the document should be skipped.
func (f *Filter) Apply(doc any) (any, bool, error) {
	iter := f.code.Run(normalize(doc))
	for {
		v, more := iter.Next()
		if !more {
			return nil, false, nil
		}
		if err, isErr := v.(error); isErr {
			var haltErr *gojq.HaltError
			if errors.As(err, &haltErr) {
				return nil, false, fmt.Errorf("filter halted: %w", err)
			}
			return nil, false, fmt.Errorf("filter: %w", err)
		}
		if v == nil {
			continue
		}
		return v, true, nil
	}
}

// normalize rewrites decoder output into the value set gojq accepts.
// The ingestion loop decodes with UseNumber, and json.Number is not a
// gojq input type.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case json.Number:
		if i, err := x.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
			return int(i)
		}
		if f, err := strconv.ParseFloat(x.String(), 64); err == nil {
			return f
		}
		return x.String()
	default:
		return v
	}
}
