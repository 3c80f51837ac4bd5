// Package ingest owns the single sequential pass over newline-
// delimited JSON input: line reading, digest accumulation, blank-line
// skipping, JSON decoding, and handing each document to the walker.
package ingest

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzip"

	"github.com/unbound-force/indigo/internal/filter"
	"github.com/unbound-force/indigo/internal/profile"
)

// Lines are capped well above any sane document size; a longer line
// is an input error, not an OOM.
const maxLineBytes = 16 << 20

// Options configures a Pass.
type Options struct {
	// Size is the per-key reservoir cap.
	Size int

	// MaxLength is the string truncation length.
	MaxLength int

	// Encoding is the IANA name of the digest text encoding.
	Encoding string

	// MaxDepth bounds per-document nesting.
	MaxDepth int

	// SkipInvalid downgrades malformed JSON lines from fatal to a
	// logged warning. Off by default: skipping changes total counts
	// and digest-to-report correspondence, so it is opt-in.
	SkipInvalid bool

	// Filter is an optional compiled jq expression applied to each
	// document before walking.
	Filter *filter.Filter

	// Logger receives per-line warnings. Nil means the default
	// charmbracelet logger.
	Logger *charmlog.Logger
}

// Pass is the state of one profiling run. It owns the counter and
// reservoir exclusively; nothing is retained across separate passes.
type Pass struct {
	opts    Options
	counter *profile.Counter
	res     *profile.Reservoir
	walker  profile.Walker
	digest  hash.Hash
	encode  func([]byte) ([]byte, error)
	log     *charmlog.Logger
	total   uint64
}

// NewPass validates options and prepares a run.
func NewPass(opts Options) (*Pass, error) {
	encode, err := newLineEncoder(opts.Encoding)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = charmlog.Default()
	}
	return &Pass{
		opts:    opts,
		counter: profile.NewCounter(),
		res:     profile.NewReservoir(opts.Size, opts.MaxLength),
		walker:  profile.Walker{MaxDepth: opts.MaxDepth},
		digest:  sha1.New(),
		encode:  encode,
		log:     logger,
	}, nil
}

// Reservoir exposes the sampler for report assembly after the pass.
func (p *Pass) Reservoir() *profile.Reservoir { return p.res }

// Counter exposes the path counter for report assembly after the pass.
func (p *Pass) Counter() *profile.Counter { return p.counter }

// Total returns how many documents have been walked so far.
func (p *Pass) Total() uint64 { return p.total }

// SHA1 returns the hex digest accumulated over every line consumed so
// far, in input order.
func (p *Pass) SHA1() string {
	return hex.EncodeToString(p.digest.Sum(nil))
}

// Run consumes the named files in argument order, or stdin when none
// are named. A missing or unreadable file aborts before any further
// input is consumed.
func (p *Pass) Run(paths []string, stdin io.Reader) error {
	if len(paths) == 0 {
		return p.Consume(stdin, "stdin")
	}
	for _, path := range paths {
		if err := p.runFile(path); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pass) runFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}
	return p.Consume(r, path)
}

// Consume reads r line by line to exhaustion. Every line is digested
// first, exactly as read (line terminators excluded); blank lines are
// then skipped without parsing, and every other line must decode as a
// single JSON document.
func (p *Pass) Consume(r io.Reader, name string) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for lineNo := 1; scanner.Scan(); lineNo++ {
		raw := scanner.Bytes()

		encoded, err := p.encode(raw)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", name, lineNo, err)
		}
		p.digest.Write(encoded)

		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}

		if err := p.consumeLine(raw, name, lineNo); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	return nil
}

func (p *Pass) consumeLine(raw []byte, name string, lineNo int) error {
	doc, err := decodeDocument(raw)
	if err != nil {
		if p.opts.SkipInvalid {
			p.log.Warn("skipping malformed line",
				"input", name, "line", lineNo, "err", err)
			return nil
		}
		return fmt.Errorf("%s:%d: %w", name, lineNo, err)
	}

	if p.opts.Filter != nil {
		out, ok, err := p.opts.Filter.Apply(doc)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", name, lineNo, err)
		}
		if !ok {
			p.log.Debug("filter dropped document", "input", name, "line", lineNo)
			return nil
		}
		doc = out
	}

	if err := p.walker.Walk(doc, p.counter, p.res); err != nil {
		// Depth overflow fails the document, not the run. Updates
		// applied before the limit stay applied.
		p.log.Warn("document failed",
			"input", name, "line", lineNo, "err", err)
	}
	p.total++
	return nil
}

// decodeDocument parses one line as a single JSON value, preserving
// integer precision via json.Number. Trailing non-whitespace content
// after the first value is malformed input.
func decodeDocument(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %s", firstLine(err.Error()))
	}
	if dec.More() {
		return nil, fmt.Errorf("invalid JSON: trailing data after document")
	}
	return doc, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
