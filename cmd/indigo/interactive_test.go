package main

import (
	"strings"
	"testing"
	"time"

	"github.com/unbound-force/indigo/internal/profile"
	"github.com/unbound-force/indigo/internal/report"
)

func testReport() *report.Report {
	c := profile.NewCounter()
	r := profile.NewReservoir(10, 1024)

	c.Inc("user.name")
	c.Inc("user.name")
	c.Inc("age")
	r.Add("user.name", profile.StringValue("ada"))
	r.Add("user.name", profile.StringValue("grace"))
	r.Add("age", profile.IntValue(36))

	generated := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	return report.Build(generated, 2, strings.Repeat("ab", 20), c, r)
}

// TestRenderProfileContent_EmptyReport verifies that a pathless report
// renders the zero counts and the no-paths notice.
func TestRenderProfileContent_EmptyReport(t *testing.T) {
	c := profile.NewCounter()
	r := profile.NewReservoir(10, 1024)
	rpt := report.Build(time.Now(), 0, strings.Repeat("0", 40), c, r)

	output := renderProfileContent(rpt)

	if !strings.Contains(output, "0 document(s)") {
		t.Errorf("expected output to contain '0 document(s)', got:\n%s", output)
	}
	if !strings.Contains(output, "No key paths discovered") {
		t.Errorf("expected no-paths notice, got:\n%s", output)
	}
}

// TestRenderProfileContent_PathsAndCounts verifies that discovered
// paths, their counts, and example values appear in the rendering.
func TestRenderProfileContent_PathsAndCounts(t *testing.T) {
	output := renderProfileContent(testReport())

	if !strings.Contains(output, "2 document(s)") {
		t.Errorf("expected document count, got:\n%s", output)
	}
	if !strings.Contains(output, "user.name") {
		t.Errorf("expected path 'user.name', got:\n%s", output)
	}
	if !strings.Contains(output, `"ada"`) {
		t.Errorf("expected example value, got:\n%s", output)
	}
	if !strings.Contains(output, "36") {
		t.Errorf("expected integer example, got:\n%s", output)
	}
}

// TestRenderProfileContent_Digest verifies the digest line renders.
func TestRenderProfileContent_Digest(t *testing.T) {
	output := renderProfileContent(testReport())
	if !strings.Contains(output, strings.Repeat("ab", 20)) {
		t.Errorf("expected digest in output, got:\n%s", output)
	}
}

// TestRenderProfileContent_ExampleTruncation verifies that long
// example lists are cut off rather than blowing out the table.
func TestRenderProfileContent_ExampleTruncation(t *testing.T) {
	c := profile.NewCounter()
	r := profile.NewReservoir(10, 1024)
	c.Inc("words")
	for _, s := range []string{"alpha", "beta", "gamma", "delta", "epsilon"} {
		r.Add("words", profile.StringValue(s))
	}
	rpt := report.Build(time.Now(), 1, strings.Repeat("0", 40), c, r)

	output := renderProfileContent(rpt)

	if strings.Contains(output, "epsilon") {
		t.Errorf("expected example list to stop at three entries, got:\n%s", output)
	}
	if !strings.Contains(output, "...") {
		t.Errorf("expected ellipsis for truncated examples, got:\n%s", output)
	}
}
