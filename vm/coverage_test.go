package vm

import (
	"bytes"
	"strings"
	"testing"
)

func TestCodeCoverageRecordExecution(t *testing.T) {
	c := NewCodeCoverage(&bytes.Buffer{})
	c.RecordExecution(0, 1)
	c.RecordExecution(0, 2)
	c.RecordExecution(4, 3)

	entry := c.GetEntry(0)
	if entry == nil {
		t.Fatal("GetEntry(0) = nil")
	}
	if entry.ExecutionCount != 2 || entry.FirstExecution != 1 || entry.LastExecution != 2 {
		t.Errorf("entry = %+v, want {ExecutionCount:2 FirstExecution:1 LastExecution:2}", entry)
	}
}

func TestCodeCoverageDisabledRecordsNothing(t *testing.T) {
	c := NewCodeCoverage(&bytes.Buffer{})
	c.Enabled = false
	c.RecordExecution(0, 1)
	if c.GetEntry(0) != nil {
		t.Error("RecordExecution should be a no-op when disabled")
	}
}

func TestCodeCoverageRespectsCodeRange(t *testing.T) {
	c := NewCodeCoverage(&bytes.Buffer{})
	c.SetCodeRange(0, 8)
	c.RecordExecution(4, 1)
	c.RecordExecution(100, 1) // outside the range, should be dropped
	if c.GetEntry(4) == nil {
		t.Error("address within range should be recorded")
	}
	if c.GetEntry(100) != nil {
		t.Error("address outside range should not be recorded")
	}
}

func TestCodeCoverageGetCoverage(t *testing.T) {
	c := NewCodeCoverage(&bytes.Buffer{})
	c.SetCodeRange(0, 16) // 4 instructions
	c.RecordExecution(0, 1)
	c.RecordExecution(4, 1)
	if got := c.GetCoverage(); got != 50.0 {
		t.Errorf("GetCoverage() = %v, want 50", got)
	}
}

func TestCodeCoverageGetCoverageZeroRange(t *testing.T) {
	c := NewCodeCoverage(&bytes.Buffer{})
	if got := c.GetCoverage(); got != 0.0 {
		t.Errorf("GetCoverage() with no range set = %v, want 0", got)
	}
}

func TestCodeCoverageGetExecutedAddressesSorted(t *testing.T) {
	c := NewCodeCoverage(&bytes.Buffer{})
	c.RecordExecution(8, 1)
	c.RecordExecution(0, 1)
	c.RecordExecution(4, 1)
	got := c.GetExecutedAddresses()
	want := []uint32{0, 4, 8}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("GetExecutedAddresses() = %v, want %v", got, want)
			break
		}
	}
}

func TestCodeCoverageGetUnexecutedAddresses(t *testing.T) {
	c := NewCodeCoverage(&bytes.Buffer{})
	c.SetCodeRange(0, 12)
	c.RecordExecution(4, 1)
	unexec := c.GetUnexecutedAddresses()
	want := []uint32{0, 8}
	if len(unexec) != len(want) || unexec[0] != want[0] || unexec[1] != want[1] {
		t.Errorf("GetUnexecutedAddresses() = %v, want %v", unexec, want)
	}
}

func TestCodeCoverageLoadSymbols(t *testing.T) {
	c := NewCodeCoverage(&bytes.Buffer{})
	c.LoadSymbols(map[string]uint32{"main": 0})
	c.RecordExecution(0, 1)
	var buf bytes.Buffer
	c.Writer = &buf
	if err := c.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if !strings.Contains(buf.String(), "[main]") {
		t.Errorf("Flush output missing symbol annotation: %s", buf.String())
	}
}

func TestCodeCoverageStartResets(t *testing.T) {
	c := NewCodeCoverage(&bytes.Buffer{})
	c.RecordExecution(0, 1)
	c.Start()
	if c.GetEntry(0) != nil {
		t.Error("Start should clear previously recorded executions")
	}
}

func TestCodeCoverageExportJSON(t *testing.T) {
	c := NewCodeCoverage(&bytes.Buffer{})
	c.RecordExecution(0, 1)
	var buf bytes.Buffer
	if err := c.ExportJSON(&buf); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	if !strings.Contains(buf.String(), "coverage_percent") {
		t.Errorf("ExportJSON output missing expected key: %s", buf.String())
	}
}

func TestCodeCoverageString(t *testing.T) {
	c := NewCodeCoverage(&bytes.Buffer{})
	c.SetCodeRange(0, 8)
	c.RecordExecution(0, 1)
	out := c.String()
	if !strings.Contains(out, "Coverage:") {
		t.Errorf("String() output missing summary: %s", out)
	}
}
