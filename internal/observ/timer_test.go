package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	scan := tm.Begin("scan")
	tm.End(scan, "3 calls")
	tm.End(42, "ignored")
	rep := tm.Report()
	if len(rep.Phases) != 1 || rep.Phases[0].Name != "scan" || rep.Phases[0].Note != "3 calls" {
		t.Fatalf("unexpected report %+v", rep)
	}
	if rep.TotalMS < 0 {
		t.Fatalf("negative total %f", rep.TotalMS)
	}
}

func TestReportMerge(t *testing.T) {
	var sum Report
	sum.Merge(Report{TotalMS: 3, Phases: []PhaseReport{{Name: "scan", DurationMS: 1, Count: 1}, {Name: "lint", DurationMS: 2, Count: 1}}})
	sum.Merge(Report{TotalMS: 4, Phases: []PhaseReport{{Name: "scan", DurationMS: 4, Count: 1, Note: "x"}}})
	if sum.TotalMS != 7 {
		t.Fatalf("total = %f", sum.TotalMS)
	}
	if len(sum.Phases) != 2 || sum.Phases[0].DurationMS != 5 || sum.Phases[0].Count != 2 {
		t.Fatalf("unexpected phases %+v", sum.Phases)
	}
	out := sum.Summary()
	if !strings.Contains(out, "x2") || !strings.Contains(out, "total") {
		t.Fatalf("summary:\n%s", out)
	}
}
