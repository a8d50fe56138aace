package scoring

import "pmhscreen/internal/model"

// UnknownSetting is a care setting name that is never counted
const UnknownSetting = "Unknown"

// Aggregate merges live screenings into a copy of base. The input snapshot is not modified.
// Each record contributes field by field: a field that cannot be counted is skipped and the
// rest of the record, and every other record, still counts.
func Aggregate(base model.AnalyticsSnapshot, records []*model.StoredScreening) model.AnalyticsSnapshot {
	out := base.Clone()
	if len(records) == 0 {
		return out
	}

	if out.RiskDistribution == nil {
		out.RiskDistribution = make(map[string]int)
	}
	if out.PHQ2Distribution == nil {
		out.PHQ2Distribution = make(map[int]int)
	}
	if out.RiskFactors == nil {
		out.RiskFactors = make(map[string]int)
	}
	if out.CareSettings == nil {
		out.CareSettings = make(map[string]int)
	}

	out.TotalResponses += len(records)

	for _, rec := range records {
		if rec == nil {
			continue
		}

		switch c := rec.RiskResult.Classification; c {
		case model.HighRisk, model.LowRisk:
			out.RiskDistribution[string(c)]++
		}

		if score := rec.RiskResult.PHQ2Total; score >= 0 && score <= model.PHQ2TotalMax {
			out.PHQ2Distribution[score]++
		}

		// Factors are re-derived from raw answers, not from the stored result
		for name, holds := range RiskFactors(model.NewResponseSet(rec.Responses)) {
			if holds {
				out.RiskFactors[name]++
			}
		}

		if name := rec.Routing.SettingName; name != "" && name != UnknownSetting {
			out.CareSettings[name]++
		}
	}

	return out
}
