package metrics

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Inventory counts retained snapshots. Implemented by the snapshot
// store; kept as an interface here so metrics stays import-free of
// the packages it measures.
type Inventory interface {
	Count() int
}

// Collector samples host resource usage and the snapshot inventory
// into gauges on a fixed interval. Watch mode runs one alongside the
// poll loop so /metrics reflects live host state.
type Collector struct {
	inventory Inventory
	stopCh    chan struct{}
}

// NewCollector creates a new metrics collector. A nil inventory skips
// snapshot gauges.
func NewCollector(inventory Inventory) *Collector {
	return &Collector{
		inventory: inventory,
		stopCh:    make(chan struct{}),
	}
}

// Start begins collecting metrics
func (c *Collector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		// Collect immediately on start
		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	c.collectHostMetrics()
	c.collectSnapshotMetrics()
}

func (c *Collector) collectHostMetrics() {
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		HostCPUPercent.Set(percents[0])
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		HostMemoryUsedBytes.Set(float64(vm.Used))
	}
}

func (c *Collector) collectSnapshotMetrics() {
	if c.inventory == nil {
		return
	}
	SnapshotFiles.Set(float64(c.inventory.Count()))
}
