package scoring

import (
	"fmt"
	"strings"

	"pmhscreen/internal/model"
)

// Thresholds for the rule cascade
const (
	positivePHQ2Threshold  = 3
	borderlinePHQ2Score    = 2
	borderlineLifestyleMin = 2
)

const lowRiskReason = "No high-risk criteria met"

// Classify maps a response set to a risk classification.
// Rules are evaluated in priority order and the first match wins:
// positive PHQ-2, then any high-risk flag, then borderline PHQ-2 with lifestyle risks.
func Classify(rs model.ResponseSet) model.RiskResult {
	flags := model.RiskFlags{
		PriorMH:    hasPriorTreatment(rs),
		MHMeds:     takesMentalHealthMeds(rs),
		PoorHealth: hasPoorHealth(rs),
	}

	lifestyle := 0
	for _, holds := range lifestyleFactors {
		if holds(rs) {
			lifestyle++
		}
	}

	result := model.RiskResult{
		Classification: model.LowRisk,
		Reason:         lowRiskReason,
		PHQ2Total:      phq2Total(rs),
		HighRiskFlags:  flags.Count(),
		LifestyleRisk:  lifestyle,
		Flags:          flags,
	}

	switch {
	case result.PHQ2Total >= positivePHQ2Threshold:
		fire(&result, model.RulePositivePHQ2, fmt.Sprintf(
			"Your depression screening score (%d/%d) suggests you may be experiencing symptoms of depression",
			result.PHQ2Total, model.PHQ2TotalMax))
	case result.HighRiskFlags >= 1:
		fire(&result, model.RuleHighRiskFlag, fmt.Sprintf(
			"You reported %s which are important risk factors for perinatal depression",
			strings.Join(flagReasons(flags), ", ")))
	case result.PHQ2Total == borderlinePHQ2Score && lifestyle >= borderlineLifestyleMin:
		fire(&result, model.RuleBorderlineLifestyle, fmt.Sprintf(
			"Combination of borderline depression symptoms (PHQ-2 score: %d) and %d lifestyle risk factors",
			result.PHQ2Total, lifestyle))
	}

	return result
}

func fire(r *model.RiskResult, rule model.Rule, reason string) {
	r.Classification = model.HighRisk
	r.RuleTriggered = &rule
	r.Reason = reason
}

// flagReasons lists fired flags in fixed order: prior treatment, medications, poor health
func flagReasons(f model.RiskFlags) []string {
	var reasons []string
	if f.PriorMH {
		reasons = append(reasons, "prior mental health treatment")
	}
	if f.MHMeds {
		reasons = append(reasons, "medications for mood/anxiety")
	}
	if f.PoorHealth {
		reasons = append(reasons, "fair or poor general health")
	}
	return reasons
}
