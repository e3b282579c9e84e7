package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"capfmt/internal/driver"
	"capfmt/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// shouldUseTUI shows the progress view for directory runs on a terminal. The
// view draws on stderr so stdout stays clean for the report.
func shouldUseTUI(mode uiMode, target string) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isDir(target) && isTerminal(os.Stderr)
	}
}

type checkOutcome struct {
	result *driver.Result
	err    error
}

// runWithUI runs check while the progress model follows its events.
func runWithUI(ctx context.Context, title string, run func(context.Context, driver.ProgressSink) (*driver.Result, error)) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		res, err := run(ctx, driver.ChannelSink{Ch: events})
		close(events)
		outcomeCh <- checkOutcome{result: res, err: err}
	}()

	model := ui.NewProgressModel(title, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		cancel()
	}
	// дочитываем события, чтобы воркеры не блокировались после выхода из UI
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
