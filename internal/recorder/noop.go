package recorder

// NoopRecorder is a no-op implementation used when no output is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *RunSnapshot) error { return nil }
func (n *NoopRecorder) Close() error                   { return nil }
