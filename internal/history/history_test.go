package history

import (
	"os"
	"testing"
)

func testJournal(t *testing.T) *Journal {
	t.Helper()
	f, err := os.CreateTemp("", "ansuz-history-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	j, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndRecent(t *testing.T) {
	j := testJournal(t)
	if err := j.Record(Entry{Path: "a.md", Title: "A", Action: "created", RemoteID: "r1"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := j.Record(Entry{Path: "b.md", Title: "B", Action: "failed", Error: "boom"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, err := j.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	// Newest first.
	if entries[0].Path != "b.md" || entries[0].Error != "boom" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[1].RemoteID != "r1" {
		t.Errorf("entries[1] = %+v", entries[1])
	}
}

func TestRecentLimit(t *testing.T) {
	j := testJournal(t)
	for i := 0; i < 5; i++ {
		_ = j.Record(Entry{Path: "n.md", Action: "updated"})
	}
	entries, err := j.Recent(3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("len = %d, want 3", len(entries))
	}
}

func TestCounts(t *testing.T) {
	j := testJournal(t)
	_ = j.Record(Entry{Path: "a.md", Action: "created"})
	_ = j.Record(Entry{Path: "b.md", Action: "updated"})
	_ = j.Record(Entry{Path: "c.md", Action: "failed", Error: "x"})

	ok, failed, err := j.Counts()
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if ok != 2 || failed != 1 {
		t.Errorf("counts = %d/%d, want 2/1", ok, failed)
	}
}

func TestNilJournalRecordIsNoop(t *testing.T) {
	var j *Journal
	if err := j.Record(Entry{Path: "x.md"}); err != nil {
		t.Errorf("nil journal Record: %v", err)
	}
}
