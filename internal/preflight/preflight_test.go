package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mihonorg/internal/config"
	"mihonorg/internal/failure"
	"mihonorg/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir(), true)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"), false)
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !errors.Is(result.Err, failure.ErrNotFound) {
		t.Fatalf("expected not-found marker, got %v", result.Err)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f, false)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
	if !errors.Is(result.Err, failure.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", result.Err)
	}
}

func TestCheckDirectoryAccess_ReadOnly(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses permission bits")
	}
	dir := t.TempDir()
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	if result := CheckDirectoryAccess("test", dir, false); !result.Passed {
		t.Fatalf("expected read-only dir to pass a dry-run check: %s", result.Detail)
	}
	if result := CheckDirectoryAccess("test", dir, true); result.Passed {
		t.Fatal("expected read-only dir to fail a write check")
	}
}

func TestCheckParentWritable(t *testing.T) {
	target := filepath.Join(t.TempDir(), "reports", "deep", "run.json")
	if result := CheckParentWritable("Report file", target); !result.Passed {
		t.Fatalf("expected missing parents under a writable root to pass: %s", result.Detail)
	}
}

func TestRunAllAndFirstFailure(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.SourcePath = t.TempDir()
	cfg.Output.ReportPath = filepath.Join(t.TempDir(), "report.yaml")

	results := RunAll(&cfg)
	if len(results) != 2 {
		t.Fatalf("expected source and report checks, got %d", len(results))
	}
	if err := FirstFailure(results); err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}

	cfg.Paths.SourcePath = filepath.Join(cfg.Paths.SourcePath, "missing")
	err := FirstFailure(RunAll(&cfg))
	if !errors.Is(err, failure.ErrNotFound) {
		t.Fatalf("expected not-found failure, got %v", err)
	}
}

func TestRunAllDryRunNeedsReadOnly(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDryRun(), testsupport.WithInPlace(), testsupport.WithImagesPerChapter(5))
	if err := os.Chmod(cfg.Paths.SourcePath, 0o555); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(cfg.Paths.SourcePath, 0o755) })
	if os.Geteuid() == 0 {
		t.Skip("root bypasses permission checks")
	}

	if err := FirstFailure(RunAll(cfg)); err != nil {
		t.Fatalf("dry run against read-only source should pass: %v", err)
	}

	cfg.Organize.DryRun = false
	if err := FirstFailure(RunAll(cfg)); err == nil {
		t.Fatal("expected real run against read-only source to fail")
	}
}
