package healer

import (
	"fmt"

	"github.com/cuemby/preflight/pkg/log"
	"github.com/cuemby/preflight/pkg/metrics"
	"github.com/cuemby/preflight/pkg/types"
	"github.com/cuemby/preflight/pkg/validator"
	"github.com/rs/zerolog"
)

// Healer drives the validate, heal, re-validate flow. It never
// returns an error: every outcome, including a panic somewhere in the
// pipeline, is folded into the HealingResult.
type Healer struct {
	runner     *validator.Runner
	remediator *Remediator
	logger     zerolog.Logger
}

// New creates a healer whose validation passes resolve dependencies
// and port claims against the given running workloads.
func New(running []types.RunningWorkload) *Healer {
	return &Healer{
		runner:     validator.NewRunner(running),
		remediator: NewRemediator(),
		logger:     log.WithComponent("healer"),
	}
}

// ValidateAndHeal validates the configuration and, when autoHeal is
// set and errors were found, applies automatic fixes and validates the
// result again. The returned Config is always deployable text: the
// healed document when healing changed anything, the input otherwise.
func (h *Healer) ValidateAndHeal(configYAML string, autoHeal bool) (result *types.HealingResult) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error().Interface("panic", rec).Msg("healing flow panicked")
			result = &types.HealingResult{
				Config: configYAML,
				HealingReport: types.HealingReport{
					Attempted: true,
					Logs:      []string{fmt.Sprintf("Validation failed with exception: %v", rec)},
				},
				DeploymentStatus: types.DeploymentStatusFailed,
				Error:            fmt.Sprint(rec),
			}
		}
	}()

	result = &types.HealingResult{Config: configYAML}

	report := h.runner.Validate(configYAML)
	result.ValidationReport = report

	errors := report.ErrorIssues()
	result.OriginalValid = len(errors) == 0

	if result.OriginalValid {
		result.Success = true
		result.FinalValid = true
		result.DeploymentStatus = types.DeploymentStatusReady
		result.HealingReport.Logs = []string{"Configuration is valid. No healing required."}
		h.logger.Info().Msg("configuration valid, no healing required")
		return result
	}

	if !autoHeal {
		result.DeploymentStatus = types.DeploymentStatusFailed
		result.HealingReport.Logs = []string{
			"Auto-healing disabled. Configuration validation failed and manual fixes required.",
		}
		h.logger.Warn().Int("errors", len(errors)).Msg("validation failed and auto-healing is disabled")
		return result
	}

	result.HealingReport.Attempted = true
	metrics.HealingsTotal.Inc()

	healed, logs := h.remediator.AutoFix(configYAML, errors)
	result.HealingReport.Logs = logs
	result.Config = healed
	result.Healed = healed != configYAML

	if result.Healed {
		metrics.FixesApplied.Add(float64(len(logs)))

		healedReport := h.runner.Validate(healed)
		result.HealedValidation = healedReport

		remaining := healedReport.ErrorIssues()
		result.FinalValid = len(remaining) == 0
		if result.FinalValid {
			result.Success = true
			result.HealingReport.Logs = append(result.HealingReport.Logs,
				"✓ Configuration healed and re-validated successfully!")
		} else {
			result.HealingReport.Logs = append(result.HealingReport.Logs,
				fmt.Sprintf("✗ Configuration healed but %d issues remain. Manual intervention required.", len(remaining)))
			result.HealingReport.RemainingIssues = remaining
		}
	} else {
		result.HealingReport.Logs = append(result.HealingReport.Logs,
			"No automatic fixes could be applied.")
	}

	result.DeploymentStatus = deploymentStatus(result)

	h.logger.Info().
		Bool("original_valid", result.OriginalValid).
		Bool("healed", result.Healed).
		Bool("final_valid", result.FinalValid).
		Str("status", string(result.DeploymentStatus)).
		Msg("healing flow completed")

	return result
}

func deploymentStatus(result *types.HealingResult) types.DeploymentStatus {
	switch {
	case result.Success:
		return types.DeploymentStatusReady
	case result.Healed:
		return types.DeploymentStatusHealingRequired
	default:
		return types.DeploymentStatusFailed
	}
}
