package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Promo attribution values stamped on every order. The type tag and source
// strings are part of the wire contract consumed by the waiter UI.
const (
	PromoTypeTwoForOne        = "2x1_jueves"
	PromoSourceSchedule       = "auto_thursday"
	PromoSourceManualOverride = "manual_override"
)

// PromoStateID is the fixed primary key of the singleton promo row.
const PromoStateID int64 = 1

// PromoState is the persisted singleton controlling the manual override.
// Concurrent updates overwrite rather than merge: last writer wins.
type PromoState struct {
	bun.BaseModel `bun:"table:promo_state"`

	ID                    int64     `bun:"id,pk" json:"-"`
	ManualOverrideEnabled bool      `bun:"manual_override_enabled" json:"manualOverrideEnabled"`
	UpdatedAt             time.Time `bun:"updated_at" json:"updatedAt"`
}

// PromoEvaluation is the result of evaluating the policy for one instant.
type PromoEvaluation struct {
	ScheduledActive bool
	EffectiveActive bool
}

// PromoStatus is the triple returned by the promo endpoints.
type PromoStatus struct {
	ScheduledActive       bool `json:"isThursday"`
	ManualOverrideEnabled bool `json:"manualOverrideEnabled"`
	EffectiveActive       bool `json:"promoActive"`
}
