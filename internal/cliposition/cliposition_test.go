package cliposition

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseExistingPathIsVerbatim(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file:with:colons.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got := Parse(path)
	want := Position{Path: path}
	if got != want {
		t.Fatalf("Parse(%q) = %+v, want %+v", path, got, want)
	}
}

func TestParseLineOnly(t *testing.T) {
	got := Parse("/nonexistent/main.go:42")
	want := Position{Path: "/nonexistent/main.go", Line: 42}
	if got != want {
		t.Fatalf("Parse = %+v, want %+v", got, want)
	}
}

func TestParseLineAndCol(t *testing.T) {
	got := Parse("/nonexistent/main.go:42:7")
	want := Position{Path: "/nonexistent/main.go", Line: 42, Col: 7}
	if got != want {
		t.Fatalf("Parse = %+v, want %+v", got, want)
	}
}

func TestParsePlainPathWithNoLocation(t *testing.T) {
	got := Parse("/nonexistent/main.go")
	want := Position{Path: "/nonexistent/main.go"}
	if got != want {
		t.Fatalf("Parse = %+v, want %+v", got, want)
	}
}

func TestParseNonNumericSuffixIsNotALocation(t *testing.T) {
	got := Parse("/nonexistent/README:draft")
	want := Position{Path: "/nonexistent/README:draft"}
	if got != want {
		t.Fatalf("Parse = %+v, want %+v", got, want)
	}
}
