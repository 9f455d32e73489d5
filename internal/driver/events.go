package driver

import "time"

// Stage describes a high-level phase of a run.
type Stage string

const (
	StageLoad    Stage = "load"
	StageDeclare Stage = "declare"
	StageSolve   Stage = "solve"
	StageLayout  Stage = "layout"
)

// Status captures progress within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a manifest file, or for the run when File is
// empty. Solve events carry the pass number and the queue length after it.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Pass    int
	Pending int
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
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

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) { f(evt) }

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
