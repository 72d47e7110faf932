package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	ferrors "git.home.luguber.info/inful/gtmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/gtmdocs/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int    `short:"n" help:"Number of runs to list" default:"10"`
	ID    string `arg:"" optional:"" help:"Show the documents of one run"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	return h.run(context.Background(), g, root.Config)
}

func (h *HistoryCmd) run(ctx context.Context, g *Global, configPath string) error {
	cfg, err := loadConfigUnvalidated(configPath)
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return ferrors.ConfigError("history.path is not configured").Build()
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return ferrors.StorageError("open run history").WithCause(err).
			WithContext("path", cfg.History.Path).
			Build()
	}
	defer func() { _ = store.Close() }()

	if h.ID != "" {
		run, err := store.Get(ctx, h.ID)
		if errors.Is(err, history.ErrNotFound) {
			return ferrors.ValidationError("unknown run id").WithContext("id", h.ID).Build()
		}
		if err != nil {
			return ferrors.StorageError("read run").WithCause(err).Build()
		}
		printRun(g.out(), run)
		return nil
	}

	runs, err := store.Recent(ctx, h.Limit)
	if err != nil {
		return ferrors.StorageError("read run history").WithCause(err).Build()
	}
	printRuns(g.out(), runs)
	return nil
}

func printRuns(w io.Writer, runs []history.Run) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "RUN\tCONTAINER\tSTARTED\tDURATION\tOUTCOME\tDOCS\tWARNINGS")
	for _, r := range runs {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			r.ID, r.Container, r.StartedAt.Format(time.RFC3339),
			r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond),
			r.Outcome, len(r.Documents), r.Warnings)
	}
	_ = tw.Flush()
}

func printRun(w io.Writer, r *history.Run) {
	_, _ = fmt.Fprintf(w, "Run %s (%s) %s\n", r.ID, r.Container, r.Outcome)
	if r.Error != "" {
		_, _ = fmt.Fprintf(w, "Error: %s\n", r.Error)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "DOCUMENT\tBYTES\tFINGERPRINT\tERROR")
	for _, d := range r.Documents {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", d.Name, d.Bytes, d.Fingerprint, d.Error)
	}
	_ = tw.Flush()
}
