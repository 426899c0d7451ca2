package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func readReport(t *testing.T, name string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("failed to open report: %v", err)
	}
	defer zr.Close()

	files := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("failed to read %s: %v", f.Name, err)
		}
		files[f.Name] = string(data)
	}
	return files
}

func TestReport_Archive(t *testing.T) {
	dir := t.TempDir()
	rpt, err := (&ReporterConfig{Destination: filepath.Join(dir, "report.zip")}).Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	stored := filepath.Join(dir, "stored.txt")
	if err := os.WriteFile(stored, []byte("stored"), 0644); err != nil {
		t.Fatal(err)
	}
	source := filepath.Join(dir, "source.md")
	if err := os.WriteFile(source, []byte("::: gloss\n:::\n"), 0644); err != nil {
		t.Fatal(err)
	}

	rpt.Store("file", stored)
	rpt.Store("missing", filepath.Join(dir, "missing.txt"))
	rpt.StoreData("data", []byte("first"))
	rpt.StoreData("data", []byte("second"))
	if err := rpt.StoreCopy("source", source); err != nil {
		t.Fatalf("StoreCopy() error = %v", err)
	}
	// modifications after the copy do not reach the report
	if err := os.WriteFile(source, []byte("changed"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	files := readReport(t, rpt.Name())
	if files["file"] != "stored" {
		t.Errorf("file = %q", files["file"])
	}
	if files["data"] != "first" {
		t.Errorf("data = %q", files["data"])
	}
	if files["source"] != "::: gloss\n:::\n" {
		t.Errorf("source = %q", files["source"])
	}
	if _, ok := files["missing"]; ok {
		t.Error("absent file was put into report")
	}

	var versioned int
	for name, content := range files {
		if strings.HasPrefix(name, "data-") && content == "second" {
			versioned++
		}
	}
	if versioned != 1 {
		t.Errorf("versioned data entries = %d, want 1", versioned)
	}
	if !strings.Contains(files["MANIFEST"], "\tsource\t") {
		t.Errorf("MANIFEST does not list source:\n%s", files["MANIFEST"])
	}
}

func TestReportClose_RemovesCopies(t *testing.T) {
	dir := t.TempDir()
	rpt, err := (&ReporterConfig{Destination: filepath.Join(dir, "report.zip")}).Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	src := filepath.Join(dir, "tree")
	if err := os.MkdirAll(filepath.Join(src, "nested"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "nested", "a.md"), []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := rpt.StoreCopy("tree", src); err != nil {
		t.Fatalf("StoreCopy() error = %v", err)
	}
	copies := append([]string(nil), rpt.copies...)

	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	for _, c := range copies {
		if _, err := os.Stat(c); !os.IsNotExist(err) {
			t.Errorf("temporary copy %s was not removed", c)
		}
	}
	// source is untouched
	if _, err := os.Stat(filepath.Join(src, "nested", "a.md")); err != nil {
		t.Errorf("source was affected: %v", err)
	}

	files := readReport(t, rpt.Name())
	if files["tree/nested/a.md"] != "a" {
		t.Errorf("directory copy was not archived, got entries %v", files)
	}
}

func TestReport_Concurrent(t *testing.T) {
	rpt, err := (&ReporterConfig{Destination: filepath.Join(t.TempDir(), "report.zip")}).Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			rpt.StoreData("diagnostics", []byte("x"))
		})
	}
	wg.Wait()

	if len(rpt.entries) == 0 {
		t.Error("no entries stored")
	}
	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	r.Store("x", "y")
	r.StoreData("x", nil)
	if err := r.StoreCopy("x", "y"); err != nil {
		t.Errorf("StoreCopy on nil report should not error, got: %v", err)
	}
	if r.Name() != "" {
		t.Errorf("Name() = %q, want empty", r.Name())
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
