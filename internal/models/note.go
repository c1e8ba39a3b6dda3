// Package models defines the domain types for Ansuz.
package models

import "time"

// Status is the publication state of a note on the remote store.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// ParseStatus validates a raw status value, falling back to draft for
// anything outside the known set.
func ParseStatus(raw string) Status {
	switch Status(raw) {
	case StatusDraft, StatusPublished:
		return Status(raw)
	default:
		return StatusDraft
	}
}

// NoteMetadata is the normalized description of a vault note, rebuilt from
// the file on every sync and discarded afterwards. RemoteID and CategoryID
// use the empty string as "not set"; the payload omits empty fields.
type NoteMetadata struct {
	Title      string
	Slug       string
	Tags       []string
	Status     Status
	CategoryID string
	Summary    string
	RemoteID   string
}

// NotePayload is the full reconciled document sent to the remote store on
// both create and update. Every sync sends the complete payload; there are
// no partial patches.
type NotePayload struct {
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Markdown   string   `json:"markdown"`
	Summary    string   `json:"summary"`
	Tags       []string `json:"tags"`
	Status     Status   `json:"status"`
	CategoryID string   `json:"categoryId,omitempty"`
}

// Payload builds the wire payload for metadata and the given Markdown body.
func (m NoteMetadata) Payload(markdown string) NotePayload {
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	return NotePayload{
		Title:      m.Title,
		Slug:       m.Slug,
		Markdown:   markdown,
		Summary:    m.Summary,
		Tags:       tags,
		Status:     m.Status,
		CategoryID: m.CategoryID,
	}
}

// RemoteCategory is a category as reported by the remote store. Read-only;
// used to populate configuration choices, never consulted during
// reconciliation.
type RemoteCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	ParentID    string `json:"parentId,omitempty"`
}

// VaultFile is a lightweight listing entry for a Markdown file in the vault.
type VaultFile struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SyncAction distinguishes how a note reached the remote store.
type SyncAction string

const (
	ActionCreated SyncAction = "created"
	ActionUpdated SyncAction = "updated"
)

// SyncResult reports the outcome of one successful single-note sync.
type SyncResult struct {
	Path     string     `json:"path"`
	Title    string     `json:"title"`
	RemoteID string     `json:"remote_id"`
	Action   SyncAction `json:"action"`
}

// BatchReport accumulates per-note outcomes of a batch sync. A failing note
// never aborts the batch; it is counted and the batch moves on.
type BatchReport struct {
	Total     int       `json:"total"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`
}
