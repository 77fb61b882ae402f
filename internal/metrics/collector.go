package metrics

import (
	"context"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
	"go.uber.org/zap"
)

// RunStats counts what one extraction run saw and produced
type RunStats struct {
	Nodes              int
	Entities           int
	Houses             int
	Footprints         int
	Renames            int
	ProjectionFailures int
	GeometryFailures   int
	MissingFields      int
	RowsWritten        int
	RowsExcluded       int
}

// Fields renders the counters as log fields
func (s RunStats) Fields() []zap.Field {
	return []zap.Field{
		zap.Int("nodes", s.Nodes),
		zap.Int("entities", s.Entities),
		zap.Int("houses", s.Houses),
		zap.Int("footprints", s.Footprints),
		zap.Int("renames", s.Renames),
		zap.Int("projection_failures", s.ProjectionFailures),
		zap.Int("geometry_failures", s.GeometryFailures),
		zap.Int("missing_fields", s.MissingFields),
		zap.Int("rows_written", s.RowsWritten),
		zap.Int("rows_excluded", s.RowsExcluded),
	}
}

// Snapshot is one sample of process and system resource usage
type Snapshot struct {
	ProcessCPUPercent float64 // can exceed 100% on multi-core
	ProcessRSSMB      float64
	MemoryUsedGB      float64
	MemoryPercent     float64
	Timestamp         time.Time
}

// Collector samples resource usage, periodically while a run is in
// progress and once more for the final summary.
type Collector struct {
	interval time.Duration
	logger   *zap.Logger
	proc     *process.Process
	start    time.Time

	mu   sync.RWMutex
	last *Snapshot
	peak float64 // highest RSS seen, MB
}

// NewCollector creates a collector. Intervals under a second fall back to
// 30s.
func NewCollector(interval time.Duration, logger *zap.Logger) *Collector {
	if interval < time.Second {
		interval = 30 * time.Second
	}

	proc, _ := process.NewProcess(int32(os.Getpid()))

	return &Collector{
		interval: interval,
		logger:   logger,
		proc:     proc,
		start:    time.Now(),
	}
}

// Start logs a sample every interval until ctx is cancelled
func (c *Collector) Start(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("Metrics collection stopped")
			return
		case <-ticker.C:
			s := c.Sample()
			c.logger.Debug("Resource usage",
				zap.Float64("proc_cpu", s.ProcessCPUPercent),
				zap.String("rss", formatMB(s.ProcessRSSMB)),
				zap.Float64("mem_pct", s.MemoryPercent),
			)
		}
	}
}

// Sample takes a snapshot now. Metrics gopsutil cannot read stay zero.
func (c *Collector) Sample() *Snapshot {
	s := &Snapshot{Timestamp: time.Now()}

	if c.proc != nil {
		if pct, err := c.proc.Percent(0); err == nil {
			s.ProcessCPUPercent = pct
		}
		if info, err := c.proc.MemoryInfo(); err == nil && info != nil {
			s.ProcessRSSMB = float64(info.RSS) / (1024 * 1024)
		}
	}

	if vmem, err := mem.VirtualMemory(); err == nil {
		s.MemoryPercent = vmem.UsedPercent
		s.MemoryUsedGB = float64(vmem.Used) / (1024 * 1024 * 1024)
	}

	c.mu.Lock()
	c.last = s
	if s.ProcessRSSMB > c.peak {
		c.peak = s.ProcessRSSMB
	}
	c.mu.Unlock()

	return s
}

// Last returns the most recent snapshot, or nil before the first sample
func (c *Collector) Last() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

// PeakRSS returns the highest resident set size sampled, in MB
func (c *Collector) PeakRSS() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.peak
}

// LogSummary takes a final sample and logs it with the run counters
func (c *Collector) LogSummary(stats RunStats) {
	s := c.Sample()

	fields := stats.Fields()
	fields = append(fields,
		zap.Duration("duration", time.Since(c.start).Round(time.Millisecond)),
		zap.String("peak_rss", formatMB(c.PeakRSS())),
		zap.String("mem_used", formatGB(s.MemoryUsedGB)),
		zap.Int("cpus", numCPU()),
	)
	c.logger.Info("Run summary", fields...)
}

func numCPU() int {
	n, err := cpu.Counts(true)
	if err != nil {
		return 0
	}
	return n
}

func formatMB(mb float64) string {
	return strconv.FormatFloat(mb, 'f', 1, 64) + " MB"
}

func formatGB(gb float64) string {
	return strconv.FormatFloat(gb, 'f', 1, 64) + " GB"
}
