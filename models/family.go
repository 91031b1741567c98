package models

import "time"

// Family is the unit of membership: parents (user profiles) and children
// both belong to exactly one family. The family's IANA timezone decides
// which calendar day a prayer claim is attributed to.
type Family struct {
	FamilyID       int       `json:"familyId" db:"family_id" goqu:"skipinsert"`
	FamilyName     string    `json:"familyName" db:"family_name"`
	Timezone       string    `json:"timezone" db:"timezone"`
	DatetimeCreate time.Time `json:"datetimeCreate" db:"datetime_create" goqu:"skipinsert"`
	DatetimeUpdate time.Time `json:"datetimeUpdate" db:"datetime_update" goqu:"skipinsert"`
}

type Child struct {
	ChildID        int       `json:"childId" db:"child_id" goqu:"skipinsert"`
	FamilyID       int       `json:"familyId" db:"family_id"`
	ChildName      string    `json:"childName" db:"child_name"`
	TotalPoints    int       `json:"totalPoints" db:"total_points"`
	DatetimeCreate time.Time `json:"datetimeCreate" db:"datetime_create" goqu:"skipinsert"`
	DatetimeUpdate time.Time `json:"datetimeUpdate" db:"datetime_update" goqu:"skipinsert"`
}
