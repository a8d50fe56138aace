package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNormalizeResponses(t *testing.T) {
	raw := map[string]*string{
		"PHQ2_Q1":   strPtr("NA"),
		"PHQ2_Q2":   strPtr(" 2 "),
		"BPG_MH":    strPtr("2"),
		"PRE_RX_MH": nil,
		"HTH_GEN":   strPtr(""),
		"FLU_SRC":   strPtr("na"),
		"  ":        strPtr("1"),
	}

	got, err := NormalizeResponses(raw)
	require.NoError(t, err)

	assert.Equal(t, ResponseSet{"PHQ2_Q2": "2", "BPG_MH": "2"}, got)
	assert.Equal(t, "2", got.Value("BPG_MH"))
	assert.Equal(t, "", got.Value("HTH_GEN"))
}

func TestNormalizeResponses_RejectsDuplicateIDs(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]*string
	}{
		{"padded copy", map[string]*string{"PHQ2_Q1": strPtr("3"), " PHQ2_Q1 ": strPtr("0")}},
		{"padded copies only", map[string]*string{"PHQ2_Q1 ": strPtr("1"), "\tPHQ2_Q1": strPtr("2")}},
		{"unanswered copy", map[string]*string{"BPG_MH": strPtr("2"), "BPG_MH ": nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// map order varies, so repeat to cover both iteration orders
			for i := 0; i < 50; i++ {
				got, err := NormalizeResponses(tt.raw)
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidAnswer)
				assert.Nil(t, got)
			}
		})
	}
}

func TestRawAnswers(t *testing.T) {
	got, err := RawAnswers(map[string]interface{}{
		"PHQ2_Q1":   float64(2),
		"PRE_RX_MH": "Not sure",
		"HTH_GEN":   nil,
	})
	require.NoError(t, err)
	require.NotNil(t, got["PHQ2_Q1"])
	assert.Equal(t, "2", *got["PHQ2_Q1"])
	assert.Equal(t, "Not sure", *got["PRE_RX_MH"])
	assert.Contains(t, got, "HTH_GEN")
	assert.Nil(t, got["HTH_GEN"])

	_, err = RawAnswers(map[string]interface{}{"BPG_MH": []interface{}{"2"}})
	assert.ErrorIs(t, err, ErrInvalidAnswer)

	_, err = RawAnswers(map[string]interface{}{"BPG_MH": true})
	assert.ErrorIs(t, err, ErrInvalidAnswer)
}

func TestNormalizeResponses_RejectsMalformedScores(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"non numeric", "sometimes"},
		{"above range", "4"},
		{"below range", "-1"},
		{"decimal", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeResponses(map[string]*string{"PHQ2_Q1": strPtr(tt.value)})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidAnswer)
			assert.Contains(t, err.Error(), "PHQ2_Q1")
		})
	}
}

func TestNormalizeResponses_FreeTextItemsNotValidated(t *testing.T) {
	got, err := NormalizeResponses(map[string]*string{"PRE_RX_MH": strPtr("Not sure")})
	require.NoError(t, err)
	assert.Equal(t, "Not sure", got.Value("PRE_RX_MH"))
}

func TestNewResponseSet_DropsSentinels(t *testing.T) {
	got := NewResponseSet(map[string]string{"A": "NA", "B": "", "C": "3"})
	assert.Equal(t, ResponseSet{"C": "3"}, got)
}

func TestAnalyticsSnapshotClone(t *testing.T) {
	s := AnalyticsSnapshot{
		TotalResponses:   2,
		RiskDistribution: map[string]int{"HIGH_RISK": 1},
		PHQ2Distribution: map[int]int{3: 1},
	}

	c := s.Clone()
	c.RiskDistribution["HIGH_RISK"] = 9
	c.PHQ2Distribution[3] = 9

	assert.Equal(t, 1, s.RiskDistribution["HIGH_RISK"])
	assert.Equal(t, 1, s.PHQ2Distribution[3])
	assert.Nil(t, c.RiskFactors)
	assert.Nil(t, c.CareSettings)
}

func TestRiskFlagsCount(t *testing.T) {
	assert.Equal(t, 0, RiskFlags{}.Count())
	assert.Equal(t, 2, RiskFlags{PriorMH: true, PoorHealth: true}.Count())
	assert.Equal(t, 3, RiskFlags{PriorMH: true, MHMeds: true, PoorHealth: true}.Count())
}
