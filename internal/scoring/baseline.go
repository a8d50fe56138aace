package scoring

import "pmhscreen/internal/model"

// BaselineSource describes where the baseline counts come from.
// PHQ-2 and risk distributions are literature-derived estimates, not measured values.
const BaselineSource = "PRAMS Phase 8 (2016-2021) - Non-missing responses only"

const baselineTotal = 53000 // Average non-missing responses across variables

var baseline = model.AnalyticsSnapshot{
	TotalResponses: baselineTotal,
	RiskDistribution: map[string]int{
		string(model.HighRisk): 9540,  // ~18%
		string(model.LowRisk):  43460, // ~82%
	},
	PHQ2Distribution: map[int]int{
		0: 15900,
		1: 13250,
		2: 12190,
		3: 5300,
		4: 3180,
		5: 2120,
		6: 1060,
	},
	RiskFactors: map[string]int{
		model.FactorPriorMH:    3873,
		model.FactorPoorHealth: 1872,
		model.FactorNoExercise: 31671,
		model.FactorDieting:    14817,
		model.FactorOverweight: 2786,
		model.FactorMHMeds:     0, // not measured in PRAMS
	},
	CareSettings: map[string]int{
		"OB/Gyn office":                          1899,
		"Family doctor / Primary care physician": 756,
		"Community health clinic":                241,
		"Hospital":                               745,
		"Pharmacy":                               536,
		"Work or school clinic":                  379,
		"Other":                                  82,
	},
}

// baselineNonMissing is the per-item count of non-missing PRAMS answers
var baselineNonMissing = map[string]int{
	model.ItemPriorMH:       13774,
	model.ItemGeneralHealth: 23464,
	model.ItemPrescription:  53053,
	model.ItemExercise:      53078,
	model.ItemDieting:       53120,
	model.ItemOverweight:    8325,
	model.ItemProviderTalk:  53468,
	model.ItemCareSource:    4638,
}

// Baseline returns a fresh copy of the historical reference counts
func Baseline() model.AnalyticsSnapshot {
	return baseline.Clone()
}

// BaselineNonMissing returns a copy of the per-item non-missing response counts
func BaselineNonMissing() map[string]int {
	out := make(map[string]int, len(baselineNonMissing))
	for k, v := range baselineNonMissing {
		out[k] = v
	}
	return out
}
