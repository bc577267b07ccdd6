package driver

// Stage identifies the part of CheckDir a file is going through.
type Stage string

const (
	StageLoad    Stage = "load"
	StageAnalyze Stage = "analyze"
	StageAssists Stage = "assists"
)

type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// ProgressEvent reports a status change of one file.
type ProgressEvent struct {
	File   string
	Stage  Stage
	Status Status
	Offers int // только для StatusDone
}

// ProgressSink receives progress events; OnEvent may be called from several goroutines.
type ProgressSink interface {
	OnEvent(ProgressEvent)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- ProgressEvent
}

func (s ChannelSink) OnEvent(evt ProgressEvent) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt ProgressEvent) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
