package query

import (
	"fmt"
	"sync"
	"time"

	"github.com/momentics/numaq/metrics"
	"go.uber.org/zap"
)

// sectionEntry records one completed timed region, mirroring the
// original's Section value: a name, a byte count for throughput
// accounting, and the measured duration.
type sectionEntry struct {
	Name     string
	Bytes    uint64
	Duration time.Duration
}

// SectionLog accumulates timed regions across a query run and can render
// them as a human-readable throughput report, matching
// Section::print's "name: duration -> throughput" table.
type SectionLog struct {
	mu      sync.Mutex
	entries []sectionEntry
	logger  *zap.Logger
	reg     *metrics.Registry
}

// NewSectionLog creates a SectionLog; logger and reg may be nil, in which
// case logging/metrics observation for each section is skipped.
func NewSectionLog(logger *zap.Logger, reg *metrics.Registry) *SectionLog {
	return &SectionLog{logger: logger, reg: reg}
}

// Run executes fn, timing it as a section named name accounting for
// bytes bytes of data movement, then records the result.
func (sl *SectionLog) Run(name string, bytes uint64, fn func() error) error {
	start := time.Now()
	err := fn()
	d := time.Since(start)

	sl.mu.Lock()
	sl.entries = append(sl.entries, sectionEntry{Name: name, Bytes: bytes, Duration: d})
	sl.mu.Unlock()

	if sl.reg != nil {
		sl.reg.StageDuration(name).Observe(d.Seconds())
	}
	if sl.logger != nil {
		gib := float64(bytes) / float64(1<<30)
		seconds := d.Seconds()
		var throughput float64
		if seconds > 0 {
			throughput = gib / seconds
		}
		sl.logger.Info("pipeline section",
			zap.String("name", name),
			zap.Duration("duration", d),
			zap.Float64("throughput_gib_s", throughput),
		)
	}
	return err
}

// ObserveProbe records how many rows were probed and how many matched
// during the probe stage, if a registry was supplied.
func (sl *SectionLog) ObserveProbe(probed, matched int) {
	if sl.reg == nil {
		return
	}
	sl.reg.AddRowsProbed(probed)
	sl.reg.AddRowsMatched(matched)
}

// Print renders every recorded section as a throughput table, in
// recording order.
func (sl *SectionLog) Print() string {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	out := "Sections:\n"
	for _, e := range sl.entries {
		seconds := e.Duration.Seconds()
		var throughput float64
		if seconds > 0 {
			throughput = float64(e.Bytes) / float64(1<<30) / seconds
		}
		out += fmt.Sprintf("section %20s: %12.8f s -> %8.3f GiB/s\n", e.Name, seconds, throughput)
	}
	return out
}
