package profile

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

// fixedRand returns a scripted sequence of draws, then repeats the
// last one. It pins the replacement rule exactly.
type fixedRand struct {
	draws []int
	calls []int // records the n passed to each IntN call
	i     int
}

func (f *fixedRand) IntN(n int) int {
	f.calls = append(f.calls, n)
	d := f.draws[len(f.draws)-1]
	if f.i < len(f.draws) {
		d = f.draws[f.i]
		f.i++
	}
	return d
}

// ---------------------------------------------------------------------------
// sample bounds and replacement
// ---------------------------------------------------------------------------

func TestReservoir_FillsUpToSize(t *testing.T) {
	r := NewReservoir(3, 1024)
	for i := 0; i < 3; i++ {
		r.Add("k", IntValue(int64(i)))
	}
	want := []Value{IntValue(0), IntValue(1), IntValue(2)}
	if got := r.Sample("k"); !reflect.DeepEqual(got, want) {
		t.Errorf("sample = %v, want %v", got, want)
	}
	if got := r.Occurrences("k"); got != 3 {
		t.Errorf("occurrences = %d, want 3", got)
	}
}

func TestReservoir_ReplacementOverwritesDrawnSlot(t *testing.T) {
	rng := &fixedRand{draws: []int{1}}
	r := NewReservoir(3, 1024, WithRand(rng))
	for i := 0; i < 4; i++ {
		r.Add("k", IntValue(int64(i)))
	}

	// Fourth add: draw 1 < size 3, slot 1 overwritten.
	want := []Value{IntValue(0), IntValue(3), IntValue(2)}
	if got := r.Sample("k"); !reflect.DeepEqual(got, want) {
		t.Errorf("sample = %v, want %v", got, want)
	}
}

func TestReservoir_ReplacementSkipsWhenDrawOutOfRange(t *testing.T) {
	rng := &fixedRand{draws: []int{3}}
	r := NewReservoir(3, 1024, WithRand(rng))
	for i := 0; i < 4; i++ {
		r.Add("k", IntValue(int64(i)))
	}

	// Draw 3 >= size 3: the fourth value is discarded.
	want := []Value{IntValue(0), IntValue(1), IntValue(2)}
	if got := r.Sample("k"); !reflect.DeepEqual(got, want) {
		t.Errorf("sample = %v, want %v", got, want)
	}
}

func TestReservoir_DrawUsesPostIncrementCount(t *testing.T) {
	// The draw's exclusive upper bound must be the occurrence count
	// including the current call: on the 4th add to a full size-3
	// reservoir, IntN must be called with 4, on the 5th with 5.
	rng := &fixedRand{draws: []int{0}}
	r := NewReservoir(3, 1024, WithRand(rng))
	for i := 0; i < 5; i++ {
		r.Add("k", IntValue(int64(i)))
	}
	if want := []int{4, 5}; !reflect.DeepEqual(rng.calls, want) {
		t.Errorf("IntN bounds = %v, want %v", rng.calls, want)
	}
}

func TestReservoir_SampleNeverExceedsSize(t *testing.T) {
	r := NewReservoir(8, 1024)
	for i := 0; i < 1000; i++ {
		r.Add("k", IntValue(int64(i)))
	}
	if got := len(r.Sample("k")); got > 8 {
		t.Errorf("len(sample) = %d, want <= 8", got)
	}
	if got := r.Occurrences("k"); got != 1000 {
		t.Errorf("occurrences = %d, want 1000", got)
	}
}

// ---------------------------------------------------------------------------
// unique examples
// ---------------------------------------------------------------------------

func TestReservoir_ExamplesDeduplicate(t *testing.T) {
	r := NewReservoir(10, 1024)
	for _, s := range []string{"a", "b", "a", "c", "b"} {
		r.Add("k", StringValue(s))
	}
	want := []Value{StringValue("a"), StringValue("b"), StringValue("c")}
	if got := r.Examples()["k"]; !reflect.DeepEqual(got, want) {
		t.Errorf("examples = %v, want %v", got, want)
	}
}

func TestReservoir_ExamplesCapIsHard(t *testing.T) {
	// Once the example set reaches size, even unseen values are
	// refused; it is a bounded best-effort sample, not a distinct
	// index.
	r := NewReservoir(3, 1024)
	for i := 0; i < 10; i++ {
		r.Add("k", IntValue(int64(i)))
	}
	want := []Value{IntValue(0), IntValue(1), IntValue(2)}
	if got := r.Examples()["k"]; !reflect.DeepEqual(got, want) {
		t.Errorf("examples = %v, want %v", got, want)
	}
}

func TestReservoir_NullExcludedFromExamples(t *testing.T) {
	r := NewReservoir(10, 1024)
	r.Add("k", Null())
	r.Add("k", IntValue(1))

	// Null occupies a sample slot but never an example slot.
	if got := r.Sample("k"); !reflect.DeepEqual(got, []Value{Null(), IntValue(1)}) {
		t.Errorf("sample = %v", got)
	}
	if got := r.Examples()["k"]; !reflect.DeepEqual(got, []Value{IntValue(1)}) {
		t.Errorf("examples = %v, want [1]", got)
	}
}

// ---------------------------------------------------------------------------
// string truncation
// ---------------------------------------------------------------------------

func TestReservoir_TruncatesLongStrings(t *testing.T) {
	r := NewReservoir(10, 1024)
	long := strings.Repeat("x", 2000)
	r.Add("k", StringValue(long))

	got := r.Sample("k")[0].Str
	wantPrefix := strings.Repeat("x", 1024)
	wantSuffix := fmt.Sprintf("<truncated> (%d) ...", 2000)
	if !strings.HasPrefix(got, wantPrefix) {
		t.Error("stored string does not keep the first max_length characters")
	}
	if !strings.HasSuffix(got, wantSuffix) {
		t.Errorf("stored string missing annotation, got suffix %q", got[1024:])
	}
	if got[:1024] != wantPrefix || len(got) != 1024+len(wantSuffix) {
		t.Errorf("stored string is %d chars, want exactly %d + annotation",
			len(got), 1024)
	}

	// Truncation happens before uniqueness tracking.
	if ex := r.Examples()["k"][0].Str; ex != got {
		t.Error("example set stored a different form than the sample")
	}
}

func TestReservoir_ShortStringsUntouched(t *testing.T) {
	r := NewReservoir(10, 8)
	r.Add("k", StringValue("short"))
	if got := r.Sample("k")[0].Str; got != "short" {
		t.Errorf("stored = %q, want %q", got, "short")
	}
}

func TestReservoir_TruncationCollapsesEqualPrefixes(t *testing.T) {
	// Two long strings sharing the first max_length characters and
	// length collapse to one example after truncation.
	r := NewReservoir(10, 4)
	r.Add("k", StringValue("aaaa11"))
	r.Add("k", StringValue("aaaa22"))
	if got := len(r.Examples()["k"]); got != 1 {
		t.Errorf("examples has %d entries, want 1", got)
	}
}

// ---------------------------------------------------------------------------
// unique storage (reduction of the sample)
// ---------------------------------------------------------------------------

func TestReservoir_UniqueStorageEqualsSampleSet(t *testing.T) {
	r := NewReservoir(10, 1024)
	for _, v := range []int64{1, 2, 1, 3, 2, 1} {
		r.Add("k", IntValue(v))
	}

	uniq := r.UniqueStorage()["k"]
	want := []Value{IntValue(1), IntValue(2), IntValue(3)}
	if !reflect.DeepEqual(uniq, want) {
		t.Errorf("unique storage = %v, want %v", uniq, want)
	}

	// Every unique value must come from the sample, and every sampled
	// value must appear in the reduction.
	set := make(map[Value]struct{})
	for _, v := range r.Sample("k") {
		set[v] = struct{}{}
	}
	if len(set) != len(uniq) {
		t.Errorf("reduction has %d values, sample set has %d", len(uniq), len(set))
	}
	for _, v := range uniq {
		if _, ok := set[v]; !ok {
			t.Errorf("unique storage contains %v, absent from sample", v)
		}
	}
}

func TestReservoir_UniqueStorageDivergesFromExamples(t *testing.T) {
	// After replacement churn, the example set (first seen) and the
	// sample reduction can legitimately differ.
	rng := &fixedRand{draws: []int{0}}
	r := NewReservoir(1, 1024, WithRand(rng))
	r.Add("k", IntValue(1))
	r.Add("k", IntValue(2)) // replaces slot 0

	if got := r.UniqueStorage()["k"]; !reflect.DeepEqual(got, []Value{IntValue(2)}) {
		t.Errorf("unique storage = %v, want [2]", got)
	}
	if got := r.Examples()["k"]; !reflect.DeepEqual(got, []Value{IntValue(1)}) {
		t.Errorf("examples = %v, want [1]", got)
	}
}

// ---------------------------------------------------------------------------
// defaults
// ---------------------------------------------------------------------------

func TestNewReservoir_Defaults(t *testing.T) {
	r := NewReservoir(0, 0)
	if r.Size() != DefaultSize {
		t.Errorf("size = %d, want %d", r.Size(), DefaultSize)
	}
}
