package api

import (
	"github.com/starford/ansuz/internal/history"
	"github.com/starford/ansuz/internal/models"
)

// SyncRequest is the request body for triggering a single-note sync.
type SyncRequest struct {
	Path string `json:"path"`
}

// StatusResponse reports the engine and scheduler state.
type StatusResponse struct {
	Busy            bool                `json:"busy"`
	AutoSyncRunning bool                `json:"auto_sync_running"`
	LastBatch       *models.BatchReport `json:"last_batch,omitempty"`
}

// HistoryResponse wraps recent journal entries.
type HistoryResponse struct {
	Entries []history.Entry `json:"entries"`
}

// CategoriesResponse wraps the remote category listing.
type CategoriesResponse struct {
	Items []models.RemoteCategory `json:"items"`
}
