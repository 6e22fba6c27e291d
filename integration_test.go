// integration_test.go exercises the built logmerge binary end-to-end
// against fixture files under testdata/, in the style of the teacher's
// test/checkpoints_test.go: build from source, run as a subprocess,
// assert on stdout. These correspond to the concrete end-to-end
// scenarios in spec.md §8.
package main_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// buildBinary compiles the logmerge CLI into a temp directory once per
// test run and returns its path.
func buildBinary(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	bin := filepath.Join(dir, "logmerge_test")
	cmd := exec.Command("go", "build", "-o", bin, ".")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("failed to build binary: %v\n%s", err, out.String())
	}
	return bin
}

type jsonEntry struct {
	Timestamp string `json:"@timestamp"`
	FlowID    string `json:"flowid"`
	Level     string `json:"level"`
	Thread    string `json:"thread"`
	Class     string `json:"class"`
	Method    string `json:"method"`
	File      string `json:"file"`
	Line      int    `json:"line"`
	Message   string `json:"message"`
	Logfile   string `json:"logfile"`
}

func runLogmerge(t *testing.T, bin string, args ...string) []jsonEntry {
	t.Helper()
	cmd := exec.Command(bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("run failed: %v\nstderr:\n%s", err, stderr.String())
	}

	var entries []jsonEntry
	sc := bufio.NewScanner(&stdout)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var e jsonEntry
		if err := json.Unmarshal(line, &e); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scanning stdout: %v", err)
	}
	return entries
}

// TestMultilineRecord covers spec.md §8 scenario 2: a record followed
// by continuation lines must have its message concatenated, and the
// next header line must start a fresh entry.
func TestMultilineRecord(t *testing.T) {
	bin := buildBinary(t)
	// tail 100 exceeds the file's header count, so SeekTail falls back
	// to byte 0 and the whole file is emitted (spec.md §4.C).
	entries := runLogmerge(t, bin, "--json", "--tail", "100", "testdata/multiline.log")

	if len(entries) != 2 {
		t.Fatalf("want 2 entries, got %d: %+v", len(entries), entries)
	}

	first := entries[0]
	wantMsg := "Error!\nE: :(\n        at D.n(D.java:42)\n        at E.o(E.java:5)"
	if first.Message != wantMsg {
		t.Errorf("first message = %q, want %q", first.Message, wantMsg)
	}
	if first.Level != "ERROR" {
		t.Errorf("first level = %q, want ERROR", first.Level)
	}
	if first.Class != "C" || first.Method != "m" || first.File != "C.java" || first.Line != 23 {
		t.Errorf("first location = %+v, want C.m(C.java:23)", first)
	}

	second := entries[1]
	if second.Level != "INFO" {
		t.Errorf("second level = %q, want INFO", second.Level)
	}
	if second.Message != "ok" {
		t.Errorf("second message = %q, want %q", second.Message, "ok")
	}
}

// TestMalformedLinesSkipped runs the input of spec.md §8 scenario 3:
// malformed input yields zero entries and the process still exits
// successfully. The first line has no code location, so
// autoconfiguration fails and that file's reader stops before parsing.
func TestMalformedLinesSkipped(t *testing.T) {
	bin := buildBinary(t)
	entries := runLogmerge(t, bin, "--json", "--tail", "100", "testdata/malformed.log")
	if len(entries) != 0 {
		t.Fatalf("want 0 entries from malformed input, got %d: %+v", len(entries), entries)
	}
}

// TestOrderedMergeAcrossFiles covers spec.md §8 scenario 7: two
// readers producing interleaved timestamps must be merged in strict
// timestamp order, not arrival order.
func TestOrderedMergeAcrossFiles(t *testing.T) {
	bin := buildBinary(t)
	entries := runLogmerge(t, bin, "--json", "--tail", "100",
		"testdata/merge_a.log", "testdata/merge_b.log")

	if len(entries) != 3 {
		t.Fatalf("want 3 merged entries, got %d: %+v", len(entries), entries)
	}
	wantOrder := []string{
		"2000-01-01 00:00:00,000",
		"2000-01-01 00:00:00,001",
		"2000-01-01 00:00:00,002",
	}
	for i, want := range wantOrder {
		if entries[i].Timestamp != want {
			t.Errorf("entry %d timestamp = %q, want %q (full: %+v)", i, entries[i].Timestamp, want, entries)
		}
	}
	if entries[1].Logfile == entries[0].Logfile {
		t.Errorf("entry 1 (from merge_b.log) should have a different display name than entry 0 (merge_a.log), both got %q", entries[0].Logfile)
	}
}

// TestFIFOMergeIsArrivalOrder covers the FIFO half of spec.md §8
// scenario 7: with --fifo, a single file's own entries must still come
// back in file order regardless of the merge variant.
func TestFIFOMergeIsArrivalOrder(t *testing.T) {
	bin := buildBinary(t)
	entries := runLogmerge(t, bin, "--json", "--fifo", "--tail", "100", "testdata/merge_a.log")
	if len(entries) != 2 {
		t.Fatalf("want 2 entries, got %d: %+v", len(entries), entries)
	}
	if entries[0].Message != "first from A" || entries[1].Message != "third from A" {
		t.Errorf("entries out of arrival order: %+v", entries)
	}
}

// TestLevelFilter covers spec.md §8's filter semantics: a --level
// filter restricts output to exactly the requested levels.
func TestLevelFilter(t *testing.T) {
	bin := buildBinary(t)
	entries := runLogmerge(t, bin, "--json", "--tail", "100", "--level", "WARN",
		"testdata/merge_a.log", "testdata/merge_b.log")
	if len(entries) != 1 {
		t.Fatalf("want 1 WARN entry, got %d: %+v", len(entries), entries)
	}
	if entries[0].Level != "WARN" {
		t.Errorf("level = %q, want WARN", entries[0].Level)
	}
}

// TestMissingFileArgument covers the CLI's error path when no files
// are given.
func TestMissingFileArgument(t *testing.T) {
	bin := buildBinary(t)
	cmd := exec.Command(bin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err == nil {
		t.Fatalf("expected non-zero exit with no file arguments, got success")
	}
}

func init() {
	// Integration tests run with testdata/ relative to the module
	// root; verify fixtures exist early with a clear message rather
	// than a confusing "no such file" deep in a subprocess.
	for _, f := range []string{"testdata/merge_a.log", "testdata/merge_b.log", "testdata/multiline.log", "testdata/malformed.log"} {
		if _, err := os.Stat(f); err != nil {
			panic("missing integration test fixture " + f + ": " + err.Error())
		}
	}
}
