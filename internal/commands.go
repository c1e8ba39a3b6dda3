package internal

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/starford/ansuz/internal/mcpserver"
)

// SyncOne reconciles a single note and writes a short report to out.
func SyncOne(ctx context.Context, cfg *Config, path string, out io.Writer) error {
	logger := NewLogger(cfg.App.LogLevel)
	comp, err := buildComponents(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer comp.Close()

	res, err := comp.engine.SyncNote(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %s (%s, remote id %s)\n", res.Action, res.Path, res.Title, res.RemoteID)
	return nil
}

// SyncAllOnce runs one batch sync and writes the report to out. A batch
// with per-note failures still succeeds as a command; only a failure to
// run the batch at all returns an error.
func SyncAllOnce(ctx context.Context, cfg *Config, out io.Writer) error {
	logger := NewLogger(cfg.App.LogLevel)
	comp, err := buildComponents(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer comp.Close()

	report, err := comp.engine.SyncAll(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "synced %d notes: %d succeeded, %d failed (%s)\n",
		report.Total, report.Succeeded, report.Failed, report.Duration)
	return nil
}

// FetchCategories lists the remote categories as a configuration aid for
// the folder→category mapping.
func FetchCategories(ctx context.Context, cfg *Config, out io.Writer) error {
	logger := NewLogger(cfg.App.LogLevel)
	comp, err := buildComponents(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer comp.Close()

	cats, err := comp.client.ListCategories(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSLUG\tPARENT")
	for _, c := range cats {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Slug, c.ParentID)
	}
	return w.Flush()
}

// ShowHistory prints the most recent journal entries.
func ShowHistory(cfg *Config, limit int, out io.Writer) error {
	logger := NewLogger(cfg.App.LogLevel)
	comp, err := buildComponents(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer comp.Close()

	if comp.journal == nil {
		fmt.Fprintln(out, "history journal is disabled (history.path is empty)")
		return nil
	}
	entries, err := comp.journal.Recent(limit)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTION\tPATH\tREMOTE ID\tERROR")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.SyncedAt.Format("2006-01-02 15:04:05"), e.Action, e.Path, e.RemoteID, e.Error)
	}
	return w.Flush()
}

// RunMCP serves the MCP tools over stdio until the client disconnects.
func RunMCP(cfg *Config) error {
	logger := NewLogger(cfg.App.LogLevel)
	comp, err := buildComponents(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer comp.Close()

	srv := mcpserver.New(comp.engine, comp.store, comp.client, cfg.Publish.MetadataOptions())
	return srv.ServeStdio()
}
