package storage

import (
	"testing"
)

func tempVault(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempVault(t)
	content := []byte("# Hello\nWorld\n")
	if err := s.Write("note.md", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("note.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempVault(t)
	if err := s.Write("a/b/c.md", []byte("deep")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("a/b/c.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "deep" {
		t.Errorf("content = %q", got)
	}
}

func TestListOnlyMarkdown(t *testing.T) {
	s := tempVault(t)
	_ = s.Write("one.md", []byte("1"))
	_ = s.Write("sub/two.md", []byte("2"))
	if err := s.Write("skip.txt", []byte("x")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	files, err := s.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("len(files) = %d, want 2", len(files))
	}
	for _, f := range files {
		if f.Checksum == "" {
			t.Errorf("missing checksum for %s", f.Path)
		}
	}
}

func TestListSubdir(t *testing.T) {
	s := tempVault(t)
	_ = s.Write("Notes/a.md", []byte("a"))
	_ = s.Write("Other/b.md", []byte("b"))
	files, err := s.List("Notes")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(files) != 1 || files[0].Path != "Notes/a.md" {
		t.Errorf("files = %+v", files)
	}
}

func TestPathTraversalRejected(t *testing.T) {
	s := tempVault(t)
	if _, err := s.Read("../outside.md"); err == nil {
		t.Error("expected traversal to be rejected")
	}
	if err := s.Write("/abs.md", []byte("x")); err == nil {
		t.Error("expected absolute path to be rejected")
	}
}
