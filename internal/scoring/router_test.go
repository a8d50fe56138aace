package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pmhscreen/internal/model"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		name         string
		talk         string
		code         string
		wantProvider bool
		wantSetting  string
	}{
		{"pharmacy", "", "5", false, "Pharmacy"},
		{"ob gyn with provider", "2", "1", true, "OB/Gyn office"},
		{"primary care", "1", "2", false, "Family doctor / Primary care physician"},
		{"other", "2", "7", true, "Other"},
		{"unknown code", "", "99", false, "No regular provider"},
		{"missing code", "", "", false, "No regular provider"},
		{"zero code", "2", "0", true, "No regular provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Route(tt.talk, tt.code)
			assert.Equal(t, tt.wantProvider, got.ExistingProvider)
			assert.Equal(t, tt.wantSetting, got.SettingName)
			assert.NotEmpty(t, got.ReferralText)
		})
	}
}

func TestRoute_FallbackText(t *testing.T) {
	got := Route("", "99")
	assert.Equal(t, NoRegularProvider.Referral, got.ReferralText)
	assert.Contains(t, got.ReferralText, "telehealth")
}

func TestRouteResponses(t *testing.T) {
	got := RouteResponses(model.NewResponseSet(map[string]string{"BPG_TALK": "2", "FLU_SRC": "3"}))
	assert.True(t, got.ExistingProvider)
	assert.Equal(t, "Community health clinic", got.SettingName)
}

func TestCareSettings_ReturnsCopy(t *testing.T) {
	settings := CareSettings()
	assert.Len(t, settings, 7)
	settings[0].Name = "changed"
	assert.Equal(t, "OB/Gyn office", CareSettings()[0].Name)
}
