// Package syncer implements the reconciliation engine: deciding
// create-vs-update for a note, dispatching it to the remote store, and
// writing the assigned remote identity back into the note. It also owns
// the session gate, batch sync, and the periodic scheduler.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/history"
	"github.com/starford/ansuz/internal/metadata"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/remote"
	"github.com/starford/ansuz/internal/sse"
	"github.com/starford/ansuz/internal/storage"
)

// EngineConfig carries the collaborators and resolution rules for an
// Engine. Store and Remote are required; Journal, Broker, Logger, and Now
// are optional.
type EngineConfig struct {
	Store    storage.Provider
	Remote   remote.Store
	Journal  *history.Journal
	Broker   *sse.Broker
	Logger   *slog.Logger
	Metadata metadata.Options
	// Folder restricts batch sync and sync-on-save to one vault folder.
	// Empty means every Markdown file in the vault.
	Folder string
	// Now supplies the clock for date-based slug strategies.
	Now func() time.Time
}

// Engine reconciles vault notes with the remote store. At most one sync
// runs at a time; the gate is a real test-and-set because syncs may be
// triggered concurrently by the CLI, the watcher, the scheduler, and the
// control API.
type Engine struct {
	store   storage.Provider
	remote  remote.Store
	journal *history.Journal
	broker  *sse.Broker
	logger  *slog.Logger
	opts    metadata.Options
	folder  string
	now     func() time.Time

	busy       atomic.Bool
	lastReport atomic.Pointer[models.BatchReport]
}

// NewEngine creates an Engine from cfg.
func NewEngine(cfg EngineConfig) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		store:   cfg.Store,
		remote:  cfg.Remote,
		journal: cfg.Journal,
		broker:  cfg.Broker,
		logger:  logger,
		opts:    cfg.Metadata,
		folder:  cfg.Folder,
		now:     now,
	}
}

// Busy reports whether a sync currently holds the session gate.
func (e *Engine) Busy() bool {
	return e.busy.Load()
}

// SyncNote reconciles a single note with the remote store. A call that
// finds the gate held returns apperr.ErrSyncBusy with no side effects.
// All other outcomes are journaled and broadcast.
func (e *Engine) SyncNote(ctx context.Context, path string) (*models.SyncResult, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return nil, apperr.ErrSyncBusy
	}
	defer e.busy.Store(false)

	e.broker.PublishSync(sse.EventSyncStarted, path, "")

	result, err := e.reconcile(ctx, path)
	if err != nil {
		e.logger.Warn("sync failed", slog.String("path", path), slog.String("error", err.Error()))
		if recErr := e.journal.Record(history.Entry{Path: path, Action: "failed", Error: err.Error()}); recErr != nil {
			e.logger.Warn("journal write failed", slog.String("error", recErr.Error()))
		}
		e.broker.PublishSync(sse.EventSyncFailed, path, err.Error())
		return nil, err
	}

	e.logger.Info("note synced",
		slog.String("path", path),
		slog.String("title", result.Title),
		slog.String("remote_id", result.RemoteID),
		slog.String("action", string(result.Action)))
	if recErr := e.journal.Record(history.Entry{
		Path:     path,
		Title:    result.Title,
		Action:   string(result.Action),
		RemoteID: result.RemoteID,
	}); recErr != nil {
		e.logger.Warn("journal write failed", slog.String("error", recErr.Error()))
	}
	e.broker.PublishSync(sse.EventSyncSynced, path, "")
	return result, nil
}

// reconcile runs the extract → dispatch → finalize sequence for one note.
// The caller holds the gate.
func (e *Engine) reconcile(ctx context.Context, path string) (*models.SyncResult, error) {
	data, err := e.store.Read(path)
	if err != nil {
		return nil, &apperr.ExtractionError{Path: path, Reason: err.Error()}
	}

	parsed := parser.Parse(data)
	meta, err := metadata.Extract(metadata.Input{
		Path:        path,
		Frontmatter: parsed.Frontmatter,
		ContentTags: parsed.Tags,
		Now:         e.now(),
	}, e.opts)
	if err != nil {
		return nil, err
	}

	payload := meta.Payload(parsed.Body)

	if meta.RemoteID != "" {
		if err := e.remote.UpdateNote(ctx, meta.RemoteID, payload); err != nil {
			return nil, err
		}
		return &models.SyncResult{Path: path, Title: meta.Title, RemoteID: meta.RemoteID, Action: models.ActionUpdated}, nil
	}

	id, err := e.remote.CreateNote(ctx, payload)
	if err != nil {
		return nil, err
	}

	// Persist the assigned identity. Losing it would make the next sync
	// create a duplicate, so a failed write-back is fatal and names the
	// orphaned remote id for manual repair.
	rewritten := parser.InsertFrontmatterKey(data, parser.RemoteIDKey, id)
	if err := e.store.Write(path, rewritten); err != nil {
		return nil, fmt.Errorf("sync %s: note created remotely with id %s but the id could not be written back (%w); add %s: %s to the frontmatter before syncing again",
			path, id, err, parser.RemoteIDKey, id)
	}

	return &models.SyncResult{Path: path, Title: meta.Title, RemoteID: id, Action: models.ActionCreated}, nil
}
