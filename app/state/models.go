package state

import (
	"time"
)

// Run is one recorded sync run with its aggregate outcome counters.
type Run struct {
	ID         string
	Mode       string
	StartedAt  time.Time
	FinishedAt *time.Time
	Created    int
	Updated    int
	Unchanged  int
	Skipped    int
	Failed     int
}
