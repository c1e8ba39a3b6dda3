package parser

import (
	"testing"
)

func TestInsertFrontmatterKey_NoFrontmatter(t *testing.T) {
	content := []byte("# Hello\nBody.\n")
	got := InsertFrontmatterKey(content, RemoteIDKey, "abc123")
	want := "---\nremote_id: abc123\n---\n\n# Hello\nBody.\n"
	if string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestInsertFrontmatterKey_ExistingFrontmatter(t *testing.T) {
	content := []byte("---\ntitle: Hello\ntags:\n  - go\n---\nBody.\n")
	got := InsertFrontmatterKey(content, RemoteIDKey, "abc123")
	want := "---\ntitle: Hello\ntags:\n  - go\nremote_id: abc123\n---\nBody.\n"
	if string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestInsertFrontmatterKey_KeyAlreadyPresent(t *testing.T) {
	content := []byte("---\nremote_id: old-id\ntitle: Hello\n---\nBody.\n")
	got := InsertFrontmatterKey(content, RemoteIDKey, "new-id")
	if string(got) != string(content) {
		t.Errorf("existing key must never be overwritten: got %q", got)
	}
}

func TestInsertFrontmatterKey_OnlyOneLineAdded(t *testing.T) {
	content := []byte("---\ntitle: T\nslug: t\nstatus: draft\n---\n\n# T\n\ntext\n")
	got := InsertFrontmatterKey(content, RemoteIDKey, "id-1")
	// Everything except the single inserted line is byte-identical.
	if len(got) != len(content)+len("\nremote_id: id-1") {
		t.Fatalf("size delta wrong: %d vs %d", len(got), len(content))
	}
	reparsed := Parse(got)
	if String(reparsed.Frontmatter, RemoteIDKey) != "id-1" {
		t.Errorf("reparsed remote_id = %q", String(reparsed.Frontmatter, RemoteIDKey))
	}
	if String(reparsed.Frontmatter, "title") != "T" {
		t.Errorf("title lost on rewrite")
	}
	orig := Parse(content)
	if reparsed.Body != orig.Body {
		t.Errorf("body changed: %q vs %q", reparsed.Body, orig.Body)
	}
}

func TestInsertFrontmatterKey_UnclosedFence(t *testing.T) {
	content := []byte("---\ntitle: broken\n")
	got := InsertFrontmatterKey(content, RemoteIDKey, "x")
	r := Parse(got)
	if String(r.Frontmatter, RemoteIDKey) != "x" {
		t.Errorf("remote_id = %q, want x", String(r.Frontmatter, RemoteIDKey))
	}
}

func TestInsertFrontmatterKey_CRLF(t *testing.T) {
	content := []byte("---\r\ntitle: T\r\nstatus: draft\r\n---\r\nBody.\r\n")
	got := InsertFrontmatterKey(content, RemoteIDKey, "r-1")
	want := "---\r\ntitle: T\r\nstatus: draft\r\nremote_id: r-1\r\n---\r\nBody.\r\n"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	reparsed := Parse(got)
	if String(reparsed.Frontmatter, "title") != "T" {
		t.Errorf("title lost on CRLF rewrite")
	}
	if String(reparsed.Frontmatter, RemoteIDKey) != "r-1" {
		t.Errorf("remote_id = %q, want r-1", String(reparsed.Frontmatter, RemoteIDKey))
	}
	if reparsed.Body != Parse(content).Body {
		t.Errorf("body changed: %q", reparsed.Body)
	}
}

func TestInsertFrontmatterKey_CRLFKeyAlreadyPresent(t *testing.T) {
	content := []byte("---\r\nremote_id: old-id\r\ntitle: T\r\n---\r\nBody.\r\n")
	got := InsertFrontmatterKey(content, RemoteIDKey, "new-id")
	if string(got) != string(content) {
		t.Errorf("existing key must never be overwritten: got %q", got)
	}
}

func TestInsertFrontmatterKey_DashLineInsideBlock(t *testing.T) {
	// A line that merely starts with --- is not a closing fence; the
	// insertion must land before the real fence, not the lookalike.
	content := []byte("---\ntitle: T\n--- note divider\nslug: t\n---\nBody.\n")
	got := InsertFrontmatterKey(content, RemoteIDKey, "r-2")
	want := "---\ntitle: T\n--- note divider\nslug: t\nremote_id: r-2\n---\nBody.\n"
	if string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestInsertFrontmatterKey_Idempotent(t *testing.T) {
	content := []byte("# Note\n")
	once := InsertFrontmatterKey(content, RemoteIDKey, "r1")
	twice := InsertFrontmatterKey(once, RemoteIDKey, "r2")
	if string(twice) != string(once) {
		t.Errorf("second insert must be a no-op: %q", twice)
	}
}
