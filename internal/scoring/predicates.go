// Package scoring holds the pure screening rules: risk classification, care routing
// and the analytics merge. Nothing here performs I/O.
package scoring

import (
	"strconv"

	"pmhscreen/internal/model"
)

// Answer codes that trigger each condition
const (
	codeYes        = "2" // BPG_MH, PRE_RX, PRE_DIET, OWGT_OBS, BPG_TALK
	codeNoExercise = "1" // PRE_EXER
)

var (
	mentalHealthMedAnswers = map[string]bool{"Yes": true, "Not sure": true}
	poorHealthCodes        = map[string]bool{"4": true, "5": true} // Fair, Poor
)

// phq2Item returns the item score, treating unanswered or unparseable values as 0
func phq2Item(rs model.ResponseSet, id string) int {
	v := rs.Value(id)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	switch {
	case n < model.PHQ2ItemMin:
		return model.PHQ2ItemMin
	case n > model.PHQ2ItemMax:
		return model.PHQ2ItemMax
	}
	return n
}

func phq2Total(rs model.ResponseSet) int {
	return phq2Item(rs, model.ItemPHQ2Interest) + phq2Item(rs, model.ItemPHQ2Depressed)
}

func hasPriorTreatment(rs model.ResponseSet) bool {
	return rs.Value(model.ItemPriorMH) == codeYes
}

func takesMentalHealthMeds(rs model.ResponseSet) bool {
	return rs.Value(model.ItemPrescription) == codeYes && mentalHealthMedAnswers[rs.Value(model.ItemPrescriptionMH)]
}

func hasPoorHealth(rs model.ResponseSet) bool {
	return poorHealthCodes[rs.Value(model.ItemGeneralHealth)]
}

func noExercise(rs model.ResponseSet) bool {
	return rs.Value(model.ItemExercise) == codeNoExercise
}

func isDieting(rs model.ResponseSet) bool {
	return rs.Value(model.ItemDieting) == codeYes
}

func isOverweight(rs model.ResponseSet) bool {
	return rs.Value(model.ItemOverweight) == codeYes
}

// riskFactor pairs an analytics key with its predicate
type riskFactor struct {
	name  string
	holds func(model.ResponseSet) bool
}

var riskFactors = []riskFactor{
	{model.FactorPriorMH, hasPriorTreatment},
	{model.FactorMHMeds, takesMentalHealthMeds},
	{model.FactorPoorHealth, hasPoorHealth},
	{model.FactorNoExercise, noExercise},
	{model.FactorDieting, isDieting},
	{model.FactorOverweight, isOverweight},
}

var lifestyleFactors = []func(model.ResponseSet) bool{noExercise, isDieting, isOverweight}

// RiskFactors evaluates the six tracked risk factors for one response set
func RiskFactors(rs model.ResponseSet) map[string]bool {
	out := make(map[string]bool, len(riskFactors))
	for _, f := range riskFactors {
		out[f.name] = f.holds(rs)
	}
	return out
}
