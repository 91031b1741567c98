package models

import "time"

// The five daily prayers, in canonical order. Claim validation and the
// per-prayer stats breakdown both iterate this slice.
var PrayerNames = []string{"Fajr", "Dhuhr", "Asr", "Maghrib", "Isha"}

// Claim status constants
const (
	ClaimStatusPending  = "pending"
	ClaimStatusApproved = "approved"
	ClaimStatusDenied   = "denied"
)

func IsValidPrayerName(name string) bool {
	for _, n := range PrayerNames {
		if n == name {
			return true
		}
	}
	return false
}

type PrayerClaim struct {
	PrayerClaimID string     `json:"prayerClaimId" db:"prayer_claim_id"`
	ChildID       int        `json:"childId" db:"child_id"`
	PrayerName    string     `json:"prayerName" db:"prayer_name"`
	ClaimedAt     time.Time  `json:"claimedAt" db:"claimed_at"`
	ClaimedDate   string     `json:"claimedDate" db:"claimed_date"`
	Status        string     `json:"status" db:"status"`
	Points        int        `json:"points" db:"points"`
	ApprovedBy    *int       `json:"approvedBy" db:"approved_by"`
	ApprovedAt    *time.Time `json:"approvedAt" db:"approved_at"`
	DeniedBy      *int       `json:"deniedBy" db:"denied_by"`
	DeniedAt      *time.Time `json:"deniedAt" db:"denied_at"`
	DenialReason  *string    `json:"denialReason" db:"denial_reason"`
	Backdated     bool       `json:"backdated" db:"backdated"`
	BackdateDate  *string    `json:"backdateDate" db:"backdate_date"`
}

type PrayerClaimCreate struct {
	PrayerName   string  `json:"prayerName" binding:"required"`
	Points       int     `json:"points" binding:"required"`
	BackdateDate *string `json:"backdateDate"`
}

type PrayerClaimDeny struct {
	Reason *string `json:"reason"`
}

// PrayerCounts is the per-prayer-name claimed/approved breakdown inside
// PrayerStats.
type PrayerCounts struct {
	Claimed  int `json:"claimed"`
	Approved int `json:"approved"`
}

// PrayerStats is computed from the full claim history on every request; it
// is never stored.
type PrayerStats struct {
	TotalClaimed  int                     `json:"totalClaimed"`
	TotalApproved int                     `json:"totalApproved"`
	TotalDenied   int                     `json:"totalDenied"`
	PendingCount  int                     `json:"pendingCount"`
	ApprovalRate  float64                 `json:"approvalRate"`
	CurrentStreak int                     `json:"currentStreak"`
	ByPrayer      map[string]PrayerCounts `json:"byPrayer"`
}
