package library

import (
	"testing"

	"mihonorg/internal/testsupport"
)

func TestDiscoverCollections(t *testing.T) {
	fs := testsupport.NewMemFS()
	fs.AddDir("/src/Demo Comic")
	fs.AddDir("/src/Organized_Mihon/Demo Comic")
	fs.AddDir("/src/_Backup/Demo Comic")
	fs.AddDir("/src/Another: Title")
	fs.AddFile("/src/loose.jpg", "x")
	fs.AddDir("/src/_Backup2")

	collections, err := DiscoverCollections(fs, "/src")
	if err != nil {
		t.Fatalf("DiscoverCollections: %v", err)
	}
	if len(collections) != 3 {
		t.Fatalf("expected 3 collections, got %+v", collections)
	}
	want := []Collection{
		{RawTitle: "Another: Title", Title: "Another_ Title", Path: "/src/Another: Title"},
		{RawTitle: "Demo Comic", Title: "Demo Comic", Path: "/src/Demo Comic"},
		{RawTitle: "_Backup2", Title: "_Backup2", Path: "/src/_Backup2"},
	}
	for i := range want {
		if collections[i] != want[i] {
			t.Fatalf("collection %d = %+v, want %+v", i, collections[i], want[i])
		}
	}
}

func TestDiscoverCollectionsDisambiguatesTitles(t *testing.T) {
	fs := testsupport.NewMemFS()
	fs.AddDir("/src/a:b")
	fs.AddDir("/src/a?b")
	fs.AddDir("/src/a_b")
	fs.AddDir("/src/...")

	collections, err := DiscoverCollections(fs, "/src")
	if err != nil {
		t.Fatal(err)
	}
	titles := map[string]string{}
	for _, c := range collections {
		titles[c.RawTitle] = c.Title
	}
	if titles["..."] != "untitled" {
		t.Fatalf("expected empty title fallback, got %q", titles["..."])
	}
	seen := map[string]bool{}
	for _, c := range collections {
		if seen[c.Title] {
			t.Fatalf("duplicate title %q in %+v", c.Title, collections)
		}
		seen[c.Title] = true
	}
	if titles["a:b"] != "a_b" || titles["a?b"] != "a_b_1" || titles["a_b"] != "a_b_2" {
		t.Fatalf("unexpected titles %v", titles)
	}
}

func TestDiscoverCollectionsMissingRoot(t *testing.T) {
	if _, err := DiscoverCollections(testsupport.NewMemFS(), "/missing"); err == nil {
		t.Fatal("expected error")
	}
}

func TestIsReserved(t *testing.T) {
	for name, want := range map[string]bool{
		"Organized_Mihon":  true,
		"_Backup":          true,
		"organized_mihon":  false,
		"_Backup ":         false,
		"Organized_Mihon2": false,
	} {
		if got := IsReserved(name); got != want {
			t.Errorf("IsReserved(%q) = %v, want %v", name, got, want)
		}
	}
}
