package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"
)

// TelemetryStatus is the result category of a command run.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo describes one finished run.
type TelemetryInfo struct {
	Command   string
	Operation string
	Duration  time.Duration
	Status    TelemetryStatus
	Error     error
}

// Telemetry is invoked after every run, successful or not.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// CommandRecorder receives one observation per finished run.
type CommandRecorder interface {
	CommandCompleted(command, status string, elapsed time.Duration)
}

// RecorderTelemetry reports runs to recorder, labelled by operation when set
// and by message type otherwise.
func RecorderTelemetry[T command.Message](recorder CommandRecorder) Telemetry[T] {
	if recorder == nil {
		return nil
	}
	return func(_ context.Context, _ T, info TelemetryInfo) {
		name := info.Operation
		if name == "" {
			name = info.Command
		}
		recorder.CommandCompleted(name, string(info.Status), info.Duration)
	}
}
