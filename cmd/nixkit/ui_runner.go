package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"nixkit/internal/driver"
	"nixkit/internal/ui"
)

type checkOutcome struct {
	result *driver.CheckResult
	err    error
}

// runCheckWithUI runs CheckDir while a progress view renders its events to out.
func runCheckWithUI(ctx context.Context, out io.Writer, dir string, opts driver.CheckOptions) (*driver.CheckResult, error) {
	files, err := driver.ListNixFiles(dir)
	if err != nil {
		return nil, err
	}
	events := make(chan driver.ProgressEvent, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.CheckDir(ctx, dir, opts)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("check "+dir, files, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// UI упал раньше времени: дочитываем события, чтобы CheckDir не встал
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
