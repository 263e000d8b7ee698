/*
Package healer implements preflight's self-healing flow: automatic
remediation of validation findings followed by re-validation.

# Architecture

	┌───────────────────── HEALING FLOW ─────────────────────────┐
	│                                                             │
	│  config text ──► Validate ──► valid? ──► done (ready)       │
	│                     │                                       │
	│                     ▼ errors                                │
	│              autoHeal off? ──► done (failed)                │
	│                     │                                       │
	│                     ▼                                       │
	│                 Remediator                                  │
	│       rule fixes + normalization passes                     │
	│                     │                                       │
	│                     ▼                                       │
	│             changed anything? ──no──► done (failed)         │
	│                     │                                       │
	│                     ▼ yes                                   │
	│                Re-validate                                  │
	│                     │                                       │
	│         valid ──► ready                                     │
	│         still broken ──► healing_required                   │
	│                                                             │
	└─────────────────────────────────────────────────────────────┘

The flow is linear: one healing attempt, one re-validation, no loops.
A document the rules cannot fix in a single pass stays in
healing_required for a human to finish.

# Fix Rules

Each validation error matches at most one rule:

  - missing runtime field: set to the canonical default runtime
  - invalid runtime value: overwrite with the canonical default
  - missing agent field: set to DefaultAgent
  - workload name with spaces or uppercase: rename in place to the
    underscored, lowercased form (skipped when the target name is
    taken)
  - missing runtimeConfig: insert MinimalRuntimeConfig
  - dangling dependency: remove that entry; drop the container when it
    empties
  - self-dependency: remove the self edge; same cleanup
  - circular dependency: remove the single edge from the first cycle
    node to the second
  - port conflict: bump the conflicting host port by one in the
    runtimeConfig text

Issues that name a workload missing from the document are skipped
silently, as are issues no rule matches.

# Normalization Passes

After the rules, three passes run over every workload regardless of
which issues were reported:

  - image qualification: bare image names gain the default registry
    prefix; placeholder registries are replaced with FallbackImage
  - whitespace cleanup: carriage returns and NUL bytes stripped,
    surrounding blank lines trimmed, common indentation removed from
    runtimeConfig text
  - dependencies sanitization: non-mapping dependencies fields are
    removed, non-string keys dropped, non-mapping values coerced to
    empty mappings, empty results removed

# Purity

Remediator.AutoFix does no I/O and never fails: unparseable input or a
serialization problem returns the original text with the reason in the
log. Healer.ValidateAndHeal converts even panics into a terminal
failed HealingResult, so callers never see an error from this package.

# Usage

	h := healer.New(running)
	result := h.ValidateAndHeal(configText, true)

	switch result.DeploymentStatus {
	case types.DeploymentStatusReady:
		deploy(result.Config)
	case types.DeploymentStatusHealingRequired:
		review(result.HealingReport)
	}

# Integration Points

This package integrates with:

  - pkg/validator: both validation rounds
  - pkg/manifest: node-level document surgery that preserves comments
    and key order in the healed output
  - pkg/deploy: the apply flow runs ValidateAndHeal as its pre-check
  - pkg/metrics: healing and fix counters
*/
package healer
