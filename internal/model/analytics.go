package model

// AnalyticsSnapshot is the dashboard payload: baseline counts merged with live screenings
type AnalyticsSnapshot struct {
	TotalResponses   int            `json:"total_responses"`
	RiskDistribution map[string]int `json:"risk_distribution"`
	PHQ2Distribution map[int]int    `json:"phq2_distribution"`
	RiskFactors      map[string]int `json:"risk_factors"`
	CareSettings     map[string]int `json:"care_settings"`
}

// Clone returns a deep copy. Nil maps stay nil.
func (s AnalyticsSnapshot) Clone() AnalyticsSnapshot {
	return AnalyticsSnapshot{
		TotalResponses:   s.TotalResponses,
		RiskDistribution: cloneCounts(s.RiskDistribution),
		PHQ2Distribution: cloneCounts(s.PHQ2Distribution),
		RiskFactors:      cloneCounts(s.RiskFactors),
		CareSettings:     cloneCounts(s.CareSettings),
	}
}

func cloneCounts[K comparable](m map[K]int) map[K]int {
	if m == nil {
		return nil
	}
	out := make(map[K]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
