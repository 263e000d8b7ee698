package validator

import (
	"fmt"

	"github.com/cuemby/preflight/pkg/manifest"
	"github.com/cuemby/preflight/pkg/types"
)

// ConflictDetector finds host-port collisions between the workloads
// a document declares and workloads already running on the cluster.
type ConflictDetector struct {
	current []types.RunningWorkload
}

// NewConflictDetector creates a detector seeded with the running
// workload inventory. A nil inventory means an empty cluster.
func NewConflictDetector(current []types.RunningWorkload) *ConflictDetector {
	return &ConflictDetector{current: current}
}

// Detect returns one PORT_CONFLICT issue per colliding host port.
// Running workloads claim their ports first; new workloads then claim
// theirs in document order, so two new workloads declaring the same
// port conflict with each other too. A workload never conflicts with
// its own name, which lets a config redeclare a running workload
// unchanged.
func (d *ConflictDetector) Detect(doc *manifest.Document) []types.Issue {
	portOwner := make(map[int]string)

	for _, w := range d.current {
		name := w.Name
		if name == "" {
			name = "unknown"
		}
		for _, port := range ExtractPorts(w.RuntimeConfig) {
			portOwner[port] = name
		}
	}

	var issues []types.Issue
	for _, w := range doc.Workloads() {
		name := w.Name()
		rc, _ := w.RuntimeConfigText()
		for _, port := range ExtractPorts(rc) {
			owner, claimed := portOwner[port]
			if claimed && owner != name {
				issues = append(issues, types.Issue{
					Type:                types.IssueTypePortConflict,
					Severity:            types.SeverityError,
					Workload:            name,
					Port:                port,
					ConflictingWorkload: owner,
					Message:             fmt.Sprintf("Port %d is already used by workload %q", port, owner),
					Recommendation:      fmt.Sprintf("Use a different port or stop workload %q", owner),
				})
				continue
			}
			portOwner[port] = name
		}
	}
	return issues
}
