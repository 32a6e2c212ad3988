package util

import (
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// PerfStats records the time and memory allocated at a given point, such that
// the cost of some phase (e.g. loading tables or classifying a grid) can be
// reported once it completes.
type PerfStats struct {
	// Starting time
	startTime time.Time
	// Starting total memory allocation
	startMem uint64
	// Starting number of gc events
	startGc uint32
}

// NewPerfStats creates a new snapshot of the current amount of memory allocated.
func NewPerfStats() *PerfStats {
	var m runtime.MemStats
	//
	startTime := time.Now()
	//
	runtime.ReadMemStats(&m)
	//
	return &PerfStats{startTime, m.TotalAlloc, m.NumGC}
}

// Elapsed returns the time passed since this snapshot was taken.
func (p *PerfStats) Elapsed() time.Duration {
	return time.Since(p.startTime)
}

// Log reports, at debug level, the time taken and memory allocated since this
// snapshot was taken.
func (p *PerfStats) Log(prefix string) {
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	alloc := (m.TotalAlloc - p.startMem) / 1024 / 1024
	gcs := m.NumGC - p.startGc
	//
	log.WithFields(log.Fields{
		"alloc_mb": alloc,
		"gcs":      gcs,
	}).Debugf("%s took %0.3fs", prefix, p.Elapsed().Seconds())
}
