package models

import "time"

// PointEvent is one entry in a child's point ledger. Approval of a prayer
// claim appends exactly one event tagged with the claim's id.
type PointEvent struct {
	PointEventID   string    `json:"pointEventId" db:"point_event_id"`
	ChildID        int       `json:"childId" db:"child_id"`
	Points         int       `json:"points" db:"points"`
	Reason         string    `json:"reason" db:"reason"`
	PrayerClaimID  *string   `json:"prayerClaimId" db:"prayer_claim_id"`
	Backdated      bool      `json:"backdated" db:"backdated"`
	BackdateDate   *string   `json:"backdateDate" db:"backdate_date"`
	CreatedBy      int       `json:"createdBy" db:"created_by"`
	DatetimeCreate time.Time `json:"datetimeCreate" db:"datetime_create" goqu:"skipinsert"`
}
