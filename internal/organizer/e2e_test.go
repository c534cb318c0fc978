package organizer_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"mihonorg/internal/fsys"
	"mihonorg/internal/library"
	"mihonorg/internal/organizer"
	"mihonorg/internal/testsupport"
)

func runOS(t *testing.T, root string, opts organizer.Options) *organizer.Report {
	t.Helper()
	report, err := organizer.New(fsys.OS{}, opts, nil).Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return report
}

func TestEndToEndCopyMode(t *testing.T) {
	root := t.TempDir()
	comic := filepath.Join(root, "Demo Comic")
	testsupport.WriteImages(t, comic, testsupport.Names("page", ".jpg", 25, 2)...)
	before := testsupport.TreeHash(t, comic)

	report := runOS(t, root, organizer.Options{ImagesPerChapter: 10})

	files := testsupport.ListFiles(t, filepath.Join(root, library.OrganizedDirName, "Demo Comic"))
	if len(files) != 25 {
		t.Fatalf("expected 25 organized files, got %d", len(files))
	}
	counts := map[string]int{}
	for _, f := range files {
		counts[strings.SplitN(f, "/", 2)[0]]++
	}
	if counts["Chapter 001"] != 10 || counts["Chapter 002"] != 10 || counts["Chapter 003"] != 5 {
		t.Fatalf("unexpected chapter sizes %v", counts)
	}
	data, err := os.ReadFile(filepath.Join(root, library.OrganizedDirName, "Demo Comic", "Chapter 002", "page11.jpg"))
	if err != nil || string(data) != "page11.jpg" {
		t.Fatalf("expected page11 content in chapter 002, got %q (%v)", data, err)
	}
	if after := testsupport.TreeHash(t, comic); after != before {
		t.Fatal("copy mode changed the original collection")
	}
	if report.Totals.Placed != 25 || report.Totals.Failures != 0 {
		t.Fatalf("unexpected totals %+v", report.Totals)
	}
}

func TestEndToEndInPlaceWithBackup(t *testing.T) {
	root := t.TempDir()
	comic := filepath.Join(root, "Demo Comic")
	names := testsupport.Names("page", ".jpg", 25, 2)
	testsupport.WriteImages(t, filepath.Join(comic, "raw"), names[:12]...)
	testsupport.WriteImages(t, filepath.Join(comic, "extra", "more"), names[12:]...)
	original := testsupport.TreeHash(t, comic)
	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := os.Chtimes(filepath.Join(comic, "raw", "page01.jpg"), mtime, mtime); err != nil {
		t.Fatal(err)
	}

	report := runOS(t, root, organizer.Options{InPlace: true, ImagesPerChapter: 10})

	backup := filepath.Join(root, library.BackupDirName, "Demo Comic")
	if got := testsupport.TreeHash(t, backup); got != original {
		t.Fatal("backup does not mirror the original tree")
	}
	info, err := os.Stat(filepath.Join(backup, "raw", "page01.jpg"))
	if err != nil || !info.ModTime().Equal(mtime) {
		t.Fatalf("expected backup to keep mtime, got %v (%v)", info, err)
	}

	files := testsupport.ListFiles(t, comic)
	want := make([]string, 0, len(names))
	for i, name := range names {
		want = append(want, library.ChapterName(i/10+1)+"/"+name)
	}
	if !slices.Equal(files, want) {
		t.Fatalf("got %v\nwant %v", files, want)
	}
	for _, dir := range []string{"raw", "extra"} {
		if _, err := os.Stat(filepath.Join(comic, dir)); !os.IsNotExist(err) {
			t.Fatalf("expected %s to be pruned, got %v", dir, err)
		}
	}
	if c := report.Collections[0]; c.Backup != organizer.BackupCreated || len(c.RemovedDirs) != 3 {
		t.Fatalf("unexpected collection report %+v", c)
	}

	again := runOS(t, root, organizer.Options{InPlace: true, ImagesPerChapter: 10})
	if again.Collections[0].Skipped != organizer.SkipAlreadyOrganized {
		t.Fatalf("expected rerun to skip, got %q", again.Collections[0].Skipped)
	}
}

func TestEndToEndDryRunLeavesTreeUnchanged(t *testing.T) {
	for _, inPlace := range []bool{false, true} {
		root := t.TempDir()
		testsupport.WriteImages(t, filepath.Join(root, "Demo Comic", "raw"), testsupport.Names("page", ".jpg", 25, 2)...)
		testsupport.WriteImages(t, filepath.Join(root, "Other"), "cover.png", "a/cover.png")
		before := testsupport.TreeHash(t, root)

		report := runOS(t, root, organizer.Options{InPlace: inPlace, DryRun: true, ImagesPerChapter: 10})

		if after := testsupport.TreeHash(t, root); after != before {
			t.Fatalf("dry run (in_place=%v) changed the tree", inPlace)
		}
		if report.Totals.Chapters != 4 || report.Totals.Placed != 27 {
			t.Fatalf("unexpected dry-run plan %+v", report.Totals)
		}
	}
}
