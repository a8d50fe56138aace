package model

// Classification is the screening outcome
type Classification string

const (
	HighRisk Classification = "HIGH_RISK"
	LowRisk  Classification = "LOW_RISK"
)

// Rule identifies which classification rule fired
type Rule string

const (
	RulePositivePHQ2        Rule = "POSITIVE_PHQ2"        // PHQ-2 total >= 3
	RuleHighRiskFlag        Rule = "HIGH_RISK_FLAG"       // Any high-risk flag
	RuleBorderlineLifestyle Rule = "BORDERLINE_LIFESTYLE" // PHQ-2 == 2 with 2+ lifestyle risks
)

// RiskFlags are the three high-risk indicators
type RiskFlags struct {
	PriorMH    bool `json:"prior_mh" bson:"priorMh"`
	MHMeds     bool `json:"mh_meds" bson:"mhMeds"`
	PoorHealth bool `json:"poor_health" bson:"poorHealth"`
}

// Count returns how many flags are set
func (f RiskFlags) Count() int {
	n := 0
	for _, set := range []bool{f.PriorMH, f.MHMeds, f.PoorHealth} {
		if set {
			n++
		}
	}
	return n
}

// RiskResult is the classifier output.
// Sub-scores and flags are always populated regardless of which rule fired.
type RiskResult struct {
	Classification Classification `json:"classification" bson:"classification"`
	Reason         string         `json:"reason" bson:"reason"`
	RuleTriggered  *Rule          `json:"rule_triggered" bson:"ruleTriggered"` // nil for LOW_RISK
	PHQ2Total      int            `json:"phq2_total" bson:"phq2Total"`
	HighRiskFlags  int            `json:"high_risk_flags" bson:"highRiskFlags"`
	LifestyleRisk  int            `json:"lifestyle_risk" bson:"lifestyleRisk"`
	Flags          RiskFlags      `json:"flags" bson:"flags"`
}

// IsHighRisk reports whether any rule fired
func (r RiskResult) IsHighRisk() bool {
	return r.Classification == HighRisk
}

// RuleName returns the triggered rule or "" when none fired
func (r RiskResult) RuleName() string {
	if r.RuleTriggered == nil {
		return ""
	}
	return string(*r.RuleTriggered)
}
