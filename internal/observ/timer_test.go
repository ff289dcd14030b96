package observ

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestReportExcludesNestedFromTotal(t *testing.T) {
	tm := NewTimer()
	tm.phases = append(tm.phases, Phase{Name: "load library", Dur: 2 * time.Millisecond})
	tm.phases = append(tm.phases, Phase{Name: "resolve", Dur: 5 * time.Millisecond, Note: "3 files"})
	tm.Record("a.kexp", 4*time.Millisecond, "")
	tm.Record("b.kexp", 3*time.Millisecond, "cached")

	report := tm.Report()
	if report.TotalMS != 7 {
		t.Fatalf("total = %v, want 7", report.TotalMS)
	}
	if len(report.Phases) != 4 || !report.Phases[2].Nested || report.Phases[1].Nested {
		t.Fatalf("unexpected phases: %+v", report.Phases)
	}

	summary := tm.Summary()
	for _, want := range []string{
		"  load library            2.00 ms\n",
		"  resolve                 5.00 ms  // 3 files\n",
		"    a.kexp                4.00 ms\n",
		"    b.kexp                3.00 ms  // cached\n",
		"  total                   7.00 ms\n",
	} {
		if !strings.Contains(summary, want) {
			t.Fatalf("summary misses %q:\n%s", want, summary)
		}
	}
}

func TestBeginEnd(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("resolve")
	tm.End(idx, "done")
	tm.End(42, "ignored")
	report := tm.Report()
	if len(report.Phases) != 1 || report.Phases[0].Note != "done" {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestWriteSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTimer().WriteSummary(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}
