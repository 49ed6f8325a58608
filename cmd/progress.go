package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"assetkit/internal/logging"
	"assetkit/internal/report"
	"assetkit/internal/tui"
)

type progressJob func(ctx context.Context, updates chan<- report.ProgressUpdate, log *zerolog.Logger) error

// withProgress runs job while a progress view drains its updates. When the
// view is disabled the job gets a nil channel and logs to stderr instead.
// Log output is dropped while the view owns the terminal. Closing the view
// with ctrl+c cancels ctx; updates keep being drained until the job returns.
func withProgress(ctx context.Context, title string, enabled bool, job progressJob, opts ...tea.ProgramOption) error {
	if !enabled {
		return job(ctx, nil, &logger)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan report.ProgressUpdate, 64)
	program := tea.NewProgram(tui.NewModel(title, updates), opts...)

	uiDone := make(chan struct{})
	go func() {
		defer close(uiDone)
		final, _ := program.Run()
		if m, ok := final.(tui.Model); ok && m.Interrupted() {
			cancel()
		}
		for range updates {
		}
	}()

	quiet := logging.Discard()
	err := job(ctx, updates, &quiet)
	close(updates)
	<-uiDone
	return err
}
