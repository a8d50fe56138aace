package model

// Questionnaire item ids the scoring rules read
const (
	ItemPHQ2Interest   = "PHQ2_Q1"   // Little interest or pleasure, 0-3
	ItemPHQ2Depressed  = "PHQ2_Q2"   // Feeling down or hopeless, 0-3
	ItemPriorMH        = "BPG_MH"    // Treated for depression/anxiety before pregnancy
	ItemPrescription   = "PRE_RX"    // Taking prescription medicines
	ItemPrescriptionMH = "PRE_RX_MH" // Medicine is for mood/anxiety
	ItemGeneralHealth  = "HTH_GEN"   // Self-rated health, 1 excellent .. 5 poor
	ItemExercise       = "PRE_EXER"  // Exercised 3+ days a week
	ItemDieting        = "PRE_DIET"  // Dieting to lose weight
	ItemOverweight     = "OWGT_OBS"  // Told overweight or obese
	ItemProviderTalk   = "BPG_TALK"  // Discussed feelings with a provider
	ItemCareSource     = "FLU_SRC"   // Usual care setting, 1-7
)

// Risk factor names used as analytics keys
const (
	FactorPriorMH    = "prior_mh"
	FactorMHMeds     = "mh_meds"
	FactorPoorHealth = "poor_health"
	FactorNoExercise = "no_exercise"
	FactorDieting    = "dieting"
	FactorOverweight = "overweight"
)

// RiskFactorNames lists the six tracked risk factors in reporting order
var RiskFactorNames = []string{
	FactorPriorMH,
	FactorMHMeds,
	FactorPoorHealth,
	FactorNoExercise,
	FactorDieting,
	FactorOverweight,
}

// PHQ-2 item bounds
const (
	PHQ2ItemMin  = 0
	PHQ2ItemMax  = 3
	PHQ2TotalMax = 6
)
