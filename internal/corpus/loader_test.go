package corpus

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("b_second.txt", "Second Title\n\nBody of the second document.")
	write("a_first.txt", "First Title\n\nBody of the first document.")
	write("notes.md", "ignored, wrong extension")

	docs, err := LoadDirectory(dir)
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	// os.ReadDir returns entries in lexical order.
	if docs[0].ID != "a_first" || docs[1].ID != "b_second" {
		t.Errorf("ids = [%s %s], want lexical order", docs[0].ID, docs[1].ID)
	}
	if docs[0].Metadata.Title != "First Title" {
		t.Errorf("Title = %q, want First Title", docs[0].Metadata.Title)
	}
	if docs[0].Metadata.Filename != "a_first.txt" {
		t.Errorf("Filename = %q", docs[0].Metadata.Filename)
	}
}

func TestLoadDirectorySkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "nested.txt"), 0755); err != nil {
		t.Fatal(err)
	}
	docs, err := LoadDirectory(dir)
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("got %d documents, want 0", len(docs))
	}
}

func TestLoadDirectoryMissing(t *testing.T) {
	if _, err := LoadDirectory(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestFirstLine(t *testing.T) {
	cases := []struct {
		content string
		want    string
	}{
		{"Title\nbody", "Title"},
		{"Title only", "Title only"},
		{"Title\r\nbody", "Title"},
		{"", "Unknown Title"},
		{"\nbody without title", "Unknown Title"},
	}
	for _, tc := range cases {
		if got := firstLine(tc.content); got != tc.want {
			t.Errorf("firstLine(%q) = %q, want %q", tc.content, got, tc.want)
		}
	}
}

func TestWriteSampleDocumentsRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "corpus")
	if err := WriteSampleDocuments(dir); err != nil {
		t.Fatalf("WriteSampleDocuments: %v", err)
	}

	docs, err := LoadDirectory(dir)
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(docs) != len(sampleDocuments) {
		t.Fatalf("got %d documents, want %d", len(docs), len(sampleDocuments))
	}
	for i, doc := range docs {
		if doc.ID != sampleDocuments[i].id {
			t.Errorf("docs[%d].ID = %s, want %s", i, doc.ID, sampleDocuments[i].id)
		}
		if doc.Metadata.Title != sampleDocuments[i].title {
			t.Errorf("docs[%d].Title = %q, want %q", i, doc.Metadata.Title, sampleDocuments[i].title)
		}
	}
}
