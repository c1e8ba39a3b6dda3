package syncer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/sse"
)

// InScope reports whether a vault path falls inside the configured folder
// scope. An empty folder means every Markdown file is in scope; otherwise
// the path must sit under the folder (exact prefix, no ancestor fuzziness).
func InScope(path, folder string) bool {
	if folder == "" {
		return strings.HasSuffix(path, ".md")
	}
	return strings.HasPrefix(path, strings.TrimSuffix(folder, "/")+"/")
}

// SyncAll reconciles every in-scope note, strictly sequentially, and
// reports success and failure counts. One note's failure never aborts the
// batch. Each member sync acquires the session gate itself, so outside
// callers are rejected for the duration of the member, not the batch.
func (e *Engine) SyncAll(ctx context.Context) (models.BatchReport, error) {
	files, err := e.store.List("")
	if err != nil {
		return models.BatchReport{}, err
	}

	report := models.BatchReport{StartedAt: e.now()}
	for _, f := range files {
		if !InScope(f.Path, e.folder) {
			continue
		}
		report.Total++
		if _, err := e.SyncNote(ctx, f.Path); err != nil {
			// A busy rejection here means an outside sync sneaked in
			// between members; count it failed like any other error.
			if errors.Is(err, apperr.ErrSyncBusy) {
				e.logger.Warn("batch: note skipped, gate held elsewhere", slog.String("path", f.Path))
			}
			report.Failed++
			continue
		}
		report.Succeeded++
	}
	report.Duration = e.now().Sub(report.StartedAt).Round(time.Millisecond).String()

	e.lastReport.Store(&report)
	e.logger.Info("batch sync completed",
		slog.Int("total", report.Total),
		slog.Int("succeeded", report.Succeeded),
		slog.Int("failed", report.Failed))
	e.broker.Publish(sse.Event{Type: sse.EventBatchCompleted, Data: report})
	return report, nil
}

// LastReport returns the report of the most recent batch sync, or nil if
// none has run.
func (e *Engine) LastReport() *models.BatchReport {
	return e.lastReport.Load()
}
