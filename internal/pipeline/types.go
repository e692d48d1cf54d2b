// Package pipeline describes progress events of the load/parse/resolve/lint pipeline.
package pipeline

import "time"

// Stage is a pipeline phase.
type Stage string

const (
	StageLoad    Stage = "load"
	StageParse   Stage = "parse"
	StageResolve Stage = "resolve"
	StageLint    Stage = "lint"
)

// Stages lists the phases in execution order.
var Stages = []Stage{StageLoad, StageParse, StageResolve, StageLint}

// Fraction is the share of work done once stage has started.
func (s Stage) Fraction() float64 {
	switch s {
	case StageLoad:
		return 0.1
	case StageParse:
		return 0.3
	case StageResolve:
		return 0.6
	case StageLint:
		return 0.8
	default:
		return 0
	}
}

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file, or for the whole run when File is empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be goroutine-safe.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// Emit sends evt to sink if there is one.
func Emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
