package model

import "time"

// RoutingResult is the care-routing recommendation
type RoutingResult struct {
	ExistingProvider bool   `json:"existing_provider" bson:"existingProvider"`
	SettingName      string `json:"setting_name" bson:"settingName"`
	ReferralText     string `json:"referral_text" bson:"referralText"`
}

// StoredScreening is one persisted submission. Records are never updated.
type StoredScreening struct {
	ID         string        `json:"id" bson:"_id,omitempty"`
	OwnerID    string        `json:"owner_id" bson:"ownerId"`
	Responses  ResponseSet   `json:"responses" bson:"responses"`
	RiskResult RiskResult    `json:"risk_result" bson:"riskResult"`
	Routing    RoutingResult `json:"routing" bson:"routing"`
	CreatedAt  time.Time     `json:"created_at" bson:"createdAt"`
}

// OwnerStats summarizes one user's screening history
type OwnerStats struct {
	TotalScreenings int        `json:"total_screenings"`
	FirstScreening  *time.Time `json:"first_screening,omitempty"`
	LastScreening   *time.Time `json:"last_screening,omitempty"`
}

// Profile is a user's account summary with their screening history
type Profile struct {
	User    *User              `json:"user"`
	Stats   OwnerStats         `json:"stats"`
	History []*StoredScreening `json:"history"`
}
