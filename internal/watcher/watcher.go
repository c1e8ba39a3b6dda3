// Package watcher syncs a note to the remote store when its file is saved
// (sync-on-save). Events are debounced per file so editors that write in
// bursts trigger a single sync.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/syncer"
)

// NoteSyncer is the engine surface the watcher needs.
type NoteSyncer interface {
	SyncNote(ctx context.Context, path string) (*models.SyncResult, error)
}

// Watch starts an fsnotify watcher on the vault root and syncs changed
// in-scope .md files until ctx is cancelled. New directories created at
// runtime are added to the watch list.
//
// The engine's own write-back of the remote id changes the file and fires
// another event; a per-path record of the last synced checksum suppresses
// that echo, so a save leads to exactly one sync.
func Watch(ctx context.Context, store storage.Provider, eng NoteSyncer, vaultRoot, folder string, debounce time.Duration, logger *slog.Logger) error {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, vaultRoot); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", vaultRoot), slog.String("folder", folder))

	syncCh := make(chan string, 64)
	var mu sync.Mutex
	timers := make(map[string]*time.Timer)
	lastSynced := make(map[string]string)

	schedule := func(rel string) {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := timers[rel]; ok {
			t.Reset(debounce)
			return
		}
		timers[rel] = time.AfterFunc(debounce, func() {
			select {
			case syncCh <- rel:
			case <-ctx.Done():
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			mu.Lock()
			for _, t := range timers {
				t.Stop()
			}
			mu.Unlock()
			logger.Info("watcher: stopped")
			return nil

		case rel := <-syncCh:
			mu.Lock()
			delete(timers, rel)
			mu.Unlock()

			data, readErr := store.Read(rel)
			if readErr != nil {
				continue // deleted between event and debounce
			}
			sum := checksum.Sum(data)
			if lastSynced[rel] == sum {
				continue
			}

			res, syncErr := eng.SyncNote(ctx, rel)
			if syncErr != nil {
				if errors.Is(syncErr, apperr.ErrSyncBusy) {
					// Another sync holds the gate; try again after the
					// debounce window instead of dropping the save.
					schedule(rel)
					continue
				}
				logger.Warn("watcher: sync failed", slog.String("path", rel), slog.String("error", syncErr.Error()))
				continue
			}

			// Record the post-sync content so the write-back echo event
			// does not trigger a second sync.
			if after, err := store.Read(rel); err == nil {
				lastSynced[rel] = checksum.Sum(after)
			}
			logger.Debug("watcher: synced", slog.String("path", rel), slog.String("action", string(res.Action)))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					// Files may land in the new directory before it is
					// watched; schedule any that are already there.
					scheduleExisting(ev.Name, vaultRoot, folder, schedule)
					continue
				}
			}

			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.HasSuffix(ev.Name, ".md") || strings.Contains(filepath.Base(ev.Name), ".ansuz-tmp-") {
				continue
			}

			rel, relErr := filepath.Rel(vaultRoot, ev.Name)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)
			if !syncer.InScope(rel, folder) {
				continue
			}
			schedule(rel)

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// scheduleExisting schedules a sync for every in-scope .md file already
// present under dir.
func scheduleExisting(dir, vaultRoot, folder string, schedule func(string)) {
	_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(p, ".md") {
			return nil
		}
		rel, relErr := filepath.Rel(vaultRoot, p)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if syncer.InScope(rel, folder) {
			schedule(rel)
		}
		return nil
	})
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
