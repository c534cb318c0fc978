package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mihonorg/internal/failure"
	"mihonorg/internal/library"
	"mihonorg/internal/runlock"
	"mihonorg/internal/testsupport"
)

// isolateCLI points HOME and the working directory at empty temp dirs so no
// user config or .env file leaks into the test.
func isolateCLI(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	home := filepath.Join(base, "home")
	work := filepath.Join(base, "work")
	for _, dir := range []string{home, work} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	t.Setenv("HOME", home)
	for _, key := range []string{
		"MIHONORG_SOURCE_PATH", "MIHONORG_IMAGES_PER_CHAPTER", "MIHONORG_MAX_COLLISION_ATTEMPTS",
		"MIHONORG_IMAGE_EXTENSIONS", "MIHONORG_LOG_LEVEL", "MIHONORG_LOG_FORMAT",
		"MIHONORG_LOG_FILE", "MIHONORG_REPORT", "MIHONORG_METRICS_FILE",
	} {
		t.Setenv(key, "")
	}
	t.Chdir(work)
	return base
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n--- output ---\n%s", needle, haystack)
	}
}

func newLibrary(t *testing.T, base string, pages int) string {
	t.Helper()
	source := filepath.Join(base, "manga")
	testsupport.WriteImages(t, filepath.Join(source, "Demo Comic"), testsupport.Names("page", ".jpg", pages, 2)...)
	return source
}

func TestCopyModeRun(t *testing.T) {
	base := isolateCLI(t)
	source := newLibrary(t, base, 25)

	out, _, err := runCLI(t, "--source-path", source, "-i", "10")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "[1/1] Demo Comic")
	requireContains(t, out, "Chapter 003: 5 image(s)")
	requireContains(t, out, "Demo Comic")
	requireContains(t, out, "1 organized, 0 skipped")
	if strings.Contains(out, "[DRY RUN]") {
		t.Fatalf("real run printed dry-run prefix:\n%s", out)
	}

	files := testsupport.ListFiles(t, filepath.Join(source, library.OrganizedDirName, "Demo Comic"))
	if len(files) != 25 {
		t.Fatalf("expected 25 files in organized output, got %d", len(files))
	}
	if _, err := os.Stat(runlock.Path(source)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected lock file to be removed, stat err=%v", err)
	}
}

func TestDryRunLeavesTreeUntouched(t *testing.T) {
	base := isolateCLI(t)
	source := newLibrary(t, base, 12)
	before := testsupport.TreeHash(t, source)

	out, _, err := runCLI(t, "-s", source, "-i", "5", "--in-place", "--dry-run")
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	requireContains(t, out, "[DRY RUN] [1/1] Demo Comic")
	requireContains(t, out, "[DRY RUN]   Chapter 003: 2 image(s)")
	requireContains(t, out, "[DRY RUN] No changes were made.")
	if after := testsupport.TreeHash(t, source); after != before {
		t.Fatal("dry run modified the source tree")
	}
}

func TestInPlaceRunCreatesBackup(t *testing.T) {
	base := isolateCLI(t)
	source := newLibrary(t, base, 4)

	if _, _, err := runCLI(t, "-s", source, "-i", "2", "--in-place"); err != nil {
		t.Fatalf("run: %v", err)
	}
	backup := testsupport.ListFiles(t, filepath.Join(source, library.BackupDirName, "Demo Comic"))
	if len(backup) != 4 {
		t.Fatalf("expected 4 backup files, got %v", backup)
	}
	files := testsupport.ListFiles(t, filepath.Join(source, "Demo Comic"))
	want := []string{
		"Chapter 001/page01.jpg", "Chapter 001/page02.jpg",
		"Chapter 002/page03.jpg", "Chapter 002/page04.jpg",
	}
	if strings.Join(files, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected in-place layout %v", files)
	}

	out, _, err := runCLI(t, "-s", source, "-i", "2", "--in-place")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	requireContains(t, out, "skipped: already organized")
}

func TestInvalidImagesPerChapterRejectedEarly(t *testing.T) {
	base := isolateCLI(t)
	missing := filepath.Join(base, "does-not-exist")

	for _, value := range []string{"0", "-3"} {
		_, _, err := runCLI(t, "-s", missing, "-i", value)
		if err == nil {
			t.Fatalf("expected -i %s to be rejected", value)
		}
		if !errors.Is(err, failure.ErrValidation) {
			t.Fatalf("expected validation error for -i %s, got %v", value, err)
		}
		requireContains(t, err.Error(), "images-per-chapter")
	}
}

func TestZeroChapterSizeInConfigRejected(t *testing.T) {
	base := isolateCLI(t)
	source := newLibrary(t, base, 3)
	cfgPath := filepath.Join(base, "zero.toml")
	if err := os.WriteFile(cfgPath, []byte("[organize]\nimages_per_chapter = 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, err := runCLI(t, "--config", cfgPath, "-s", source)
	if !errors.Is(err, failure.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(source, library.OrganizedDirName)); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatal("run started despite invalid chapter size")
	}
}

func TestMissingSourcePath(t *testing.T) {
	base := isolateCLI(t)

	_, _, err := runCLI(t, "-s", filepath.Join(base, "nowhere"))
	if err == nil {
		t.Fatal("expected error for missing source path")
	}
	if !errors.Is(err, failure.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestSourceDefaultsToWorkingDirectory(t *testing.T) {
	base := isolateCLI(t)
	work := filepath.Join(base, "work")
	testsupport.WriteImages(t, filepath.Join(work, "Cwd Comic"), "a.png", "b.png")

	out, _, err := runCLI(t, "--dry-run")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "Cwd Comic")
}

func TestUsageFlag(t *testing.T) {
	isolateCLI(t)

	out, _, err := runCLI(t, "--usage")
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	requireContains(t, out, "Organized_Mihon")
	requireContains(t, out, "--images-per-chapter")
}

func TestConfigInitAndValidate(t *testing.T) {
	base := isolateCLI(t)

	out, _, err := runCLI(t, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Config file did not exist; defaults were used")
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(base, "cfg", "mihonorg.toml")
	out, _, err = runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected init without --overwrite to refuse an existing file")
	}
	if _, _, err := runCLI(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, "--config", target, "config", "validate")
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "Config path: "+target)
	requireContains(t, out, "Configuration valid")
}

func TestConfigFileDrivesRun(t *testing.T) {
	base := isolateCLI(t)
	source := newLibrary(t, base, 6)
	cfgPath := filepath.Join(base, "run.toml")
	body := "[paths]\nsource_path = \"" + source + "\"\n\n[organize]\nimages_per_chapter = 4\ndry_run = true\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, _, err := runCLI(t, "--config", cfgPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "[DRY RUN]   Chapter 002: 2 image(s)")

	out, _, err = runCLI(t, "--config", cfgPath, "-i", "3")
	if err != nil {
		t.Fatalf("run with override: %v", err)
	}
	requireContains(t, out, "[DRY RUN]   Chapter 002: 3 image(s)")
}

func TestReportAndMetricsFiles(t *testing.T) {
	base := isolateCLI(t)
	source := newLibrary(t, base, 7)
	reportPath := filepath.Join(base, "out", "report.json")
	metricsPath := filepath.Join(base, "out", "mihonorg.prom")
	if err := os.MkdirAll(filepath.Dir(reportPath), 0o755); err != nil {
		t.Fatalf("mkdir out: %v", err)
	}

	if _, _, err := runCLI(t, "-s", source, "-i", "3", "--report", reportPath, "--metrics-file", metricsPath); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var decoded struct {
		Mode   string `json:"mode"`
		Totals struct {
			Chapters int `json:"chapters"`
			Placed   int `json:"placed"`
		} `json:"totals"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if decoded.Mode != "copy" || decoded.Totals.Chapters != 3 || decoded.Totals.Placed != 7 {
		t.Fatalf("unexpected report %+v", decoded)
	}

	metricsData, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	requireContains(t, string(metricsData), "mihonorg_items_placed_total")
	requireContains(t, string(metricsData), "mihonorg_last_run_success")
}

func TestUnsupportedReportExtension(t *testing.T) {
	base := isolateCLI(t)
	source := newLibrary(t, base, 2)

	_, _, err := runCLI(t, "-s", source, "--report", filepath.Join(base, "report.csv"))
	if !errors.Is(err, failure.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(source, library.OrganizedDirName)); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatal("run started despite invalid report path")
	}
}

func TestLockedSourceRefused(t *testing.T) {
	base := isolateCLI(t)
	source := newLibrary(t, base, 3)

	lock, err := runlock.Acquire(source)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer lock.Release()

	logPath := filepath.Join(base, "logs", "mihonorg.log")
	t.Setenv("MIHONORG_LOG_FILE", logPath)
	_, _, err = runCLI(t, "-s", source)
	if !errors.Is(err, failure.ErrLocked) {
		t.Fatalf("expected locked error, got %v", err)
	}
	logData, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	requireContains(t, string(logData), `"event_type":"lock_unavailable"`)
	requireContains(t, string(logData), `"error_kind":"locked"`)

	if _, _, err := runCLI(t, "-s", source, "--dry-run"); err != nil {
		t.Fatalf("dry run should not need the lock: %v", err)
	}
}
