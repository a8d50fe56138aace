package scoring

import "pmhscreen/internal/model"

// CareSetting is one entry of the routing table
type CareSetting struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Referral string `json:"referral"`
}

// NoRegularProvider is the fallback for unknown or missing care setting codes
var NoRegularProvider = CareSetting{
	Name:     "No regular provider",
	Referral: "We recommend connecting with telehealth mental health services or visiting a community health clinic. Many resources are available regardless of insurance status.",
}

var careSettings = []CareSetting{
	{
		Code:     "1",
		Name:     "OB/Gyn office",
		Referral: "Contact an OB/Gyn office that has integrated behavioral health services. Many OB/Gyn practices now offer mental health screening and support as part of routine prenatal care.",
	},
	{
		Code:     "2",
		Name:     "Family doctor / Primary care physician",
		Referral: "Your family doctor can treat perinatal depression or refer you to specialists. Primary care physicians often have behavioral health consultants in their practice.",
	},
	{
		Code:     "3",
		Name:     "Community health clinic",
		Referral: "Community health clinics often provide integrated mental health and prenatal care services, often on a sliding scale based on income. Federally Qualified Health Centers (FQHCs) serve all patients regardless of insurance.",
	},
	{
		Code:     "4",
		Name:     "Hospital",
		Referral: "Hospital systems often have specialized perinatal psychiatry programs. Contact the hospital's maternal mental health program or OB/Gyn behavioral health services.",
	},
	{
		Code:     "5",
		Name:     "Pharmacy",
		Referral: "For mental health support during pregnancy, we recommend telehealth services with perinatal specialists. Platforms like Talkspace, BetterHelp, and Maven Clinic offer same-day appointments.",
	},
	{
		Code:     "6",
		Name:     "Work or school clinic",
		Referral: "Check your Employee Assistance Program (EAP) for free therapy sessions (typically 3-8 sessions). If you're a student, your campus health services likely offer free or low-cost counseling.",
	},
	{
		Code:     "7",
		Name:     "Other",
		Referral: "We recommend telehealth mental health services for quick access to perinatal specialists. Many platforms offer same-day video appointments.",
	},
}

var careSettingByCode = func() map[string]CareSetting {
	m := make(map[string]CareSetting, len(careSettings))
	for _, cs := range careSettings {
		m[cs.Code] = cs
	}
	return m
}()

// CareSettings returns the routing table in code order
func CareSettings() []CareSetting {
	out := make([]CareSetting, len(careSettings))
	copy(out, careSettings)
	return out
}

// Route picks referral guidance from the usual care setting code.
// Codes outside the table, including "", fall back to NoRegularProvider.
func Route(existingProviderAnswer, careSettingCode string) model.RoutingResult {
	setting, ok := careSettingByCode[careSettingCode]
	if !ok {
		setting = NoRegularProvider
	}
	return model.RoutingResult{
		ExistingProvider: existingProviderAnswer == codeYes,
		SettingName:      setting.Name,
		ReferralText:     setting.Referral,
	}
}

// RouteResponses routes from the provider-talk and care-source items of a response set
func RouteResponses(rs model.ResponseSet) model.RoutingResult {
	return Route(rs.Value(model.ItemProviderTalk), rs.Value(model.ItemCareSource))
}
