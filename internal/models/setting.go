package models

import "time"

// TierLimits is the per-tier ceiling on record counts. Zero means the
// feature is blocked entirely; -1 means unlimited.
type TierLimits struct {
	Transactions int `json:"transactions"`
	Clients      int `json:"clients"`
	Agents       int `json:"agents"`
	Expenses     int `json:"expenses"`
}

// OfficeSettings is the platform-wide settings object. The three limit
// blocks gate create operations by the caller's effective tier;
// employees inherit the golden tier of their parent account.
type OfficeSettings struct {
	ID            int        `json:"id"`
	VisitorLimits TierLimits `json:"visitor_limits"`
	MemberLimits  TierLimits `json:"member_limits"`
	GoldenLimits  TierLimits `json:"golden_limits"`
	AffiliatePct  float64    `json:"affiliate_pct"` // referrer cut of subscription payments
	UpdatedAt     time.Time  `json:"updated_at"`
}

// LimitsFor returns the ceilings that apply to the given effective tier.
// Unknown tiers fall back to the visitor block.
func (s *OfficeSettings) LimitsFor(tier string) TierLimits {
	switch tier {
	case RoleGolden:
		return s.GoldenLimits
	case RoleMember:
		return s.MemberLimits
	default:
		return s.VisitorLimits
	}
}

// DefaultOfficeSettings mirrors the tier ceilings the product launched with
func DefaultOfficeSettings() *OfficeSettings {
	return &OfficeSettings{
		VisitorLimits: TierLimits{Transactions: 3, Clients: 3, Agents: 3, Expenses: 3},
		MemberLimits:  TierLimits{Transactions: 30, Clients: 30, Agents: 30, Expenses: 30},
		GoldenLimits:  TierLimits{Transactions: -1, Clients: -1, Agents: -1, Expenses: -1},
		AffiliatePct:  5,
	}
}
