package models

import "time"

// UserProfile is a parent account. Children are not user profiles; they are
// directory entries on the family (see Child).
type UserProfile struct {
	UserProfileID  int       `json:"userProfileId" db:"user_profile_id" goqu:"skipinsert"`
	FamilyID       int       `json:"familyId" db:"family_id"`
	Username       string    `json:"username" db:"username"`
	Password       string    `json:"-" db:"password"`
	Email          string    `json:"email" db:"email"`
	FirstName      string    `json:"firstName" db:"first_name"`
	LastName       string    `json:"lastName" db:"last_name"`
	Admin          bool      `json:"admin" db:"admin" goqu:"skipinsert"`
	DatetimeCreate time.Time `json:"datetimeCreate" db:"datetime_create" goqu:"skipinsert"`
	DatetimeUpdate time.Time `json:"datetimeUpdate" db:"datetime_update" goqu:"skipinsert"`
}

type UserProfileSignup struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	FamilyID  int    `json:"familyId"`
}

type Login struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
