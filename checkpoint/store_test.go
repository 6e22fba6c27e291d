package checkpoint

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(filepath.Join(dir, "sincedb_"), log)

	s.Save("/var/log/app.log", "1fg2a", 12345, 67890)

	rec, err := s.Load("/var/log/app.log")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.Path != "/var/log/app.log" || rec.Identity != "1fg2a" || rec.Position != 12345 || rec.Size != 67890 {
		t.Errorf("got %+v", rec)
	}
}

func TestLoadMissingCheckpointFails(t *testing.T) {
	dir := t.TempDir()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(filepath.Join(dir, "sincedb_"), log)

	if _, err := s.Load("/var/log/never-saved.log"); err == nil {
		t.Fatalf("expected error for missing checkpoint")
	}
}

func TestParseRecordPreservesSpacesInPath(t *testing.T) {
	rec, err := parseRecord("/var/log/my app.log 1fg2a 100 200")
	if err != nil {
		t.Fatalf("parseRecord: %v", err)
	}
	if rec.Path != "/var/log/my app.log" {
		t.Errorf("path = %q", rec.Path)
	}
	if rec.Position != 100 || rec.Size != 200 {
		t.Errorf("position/size = %d/%d", rec.Position, rec.Size)
	}
}

func TestParseRecordRejectsMalformed(t *testing.T) {
	if _, err := parseRecord("not enough fields"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDifferentPathsHashToDifferentFiles(t *testing.T) {
	dir := t.TempDir()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(filepath.Join(dir, "sincedb_"), log)

	if s.pathFor("/a.log") == s.pathFor("/b.log") {
		t.Errorf("expected distinct checkpoint paths for distinct log paths")
	}
}
