package vecpack

// ProgressBar tracks the lines of one input file.
type ProgressBar interface {
	// Add advances the bar by n lines.
	Add(n int)
	// Finish marks the file as done, or failed when err is non-nil.
	Finish(err error)
}

// ProgressReporter hands out progress bars to workers.
type ProgressReporter interface {
	// Start opens a bar on the line owned by slot. total is the expected
	// number of lines, or -1 when unknown.
	Start(slot int, name string, total int) ProgressBar
}

// NoopProgress discards progress.
type NoopProgress struct{}

// Start implements ProgressReporter.
func (NoopProgress) Start(int, string, int) ProgressBar { return noopBar{} }

type noopBar struct{}

func (noopBar) Add(int)      {}
func (noopBar) Finish(error) {}
