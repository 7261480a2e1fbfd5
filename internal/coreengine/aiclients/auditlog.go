package aiclients

import "time"

// Service type labels recorded with every audit entry.
const (
	ServiceTranscription = "TRANSCRIPTION"
	ServiceScoring       = "SCORING"
)

// LogEntry is one audit record of an external AI service call. RequestData
// holds request metadata only, never raw audio payloads. Exactly one entry is
// recorded per attempt, for successes and failures alike.
type LogEntry struct {
	TestAnswerID     int64
	ServiceType      string
	RequestData      string
	ResponseData     string
	ErrorMessage     string
	ProcessingTimeMs int64
}

// LogSink receives audit entries. Implementations must not fail the calling
// pipeline; persistence errors are the sink's own problem.
type LogSink interface {
	Record(entry LogEntry)
}

// LogFunc adapts a plain function to the LogSink interface.
type LogFunc func(entry LogEntry)

func (f LogFunc) Record(entry LogEntry) { f(entry) }

// NopLog discards all entries. Used when no audit persistence is wired.
var NopLog LogSink = LogFunc(func(LogEntry) {})

func elapsedMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
