package services

import "errors"

// Claim engine failure modes. Controllers match these with errors.Is and map
// them to HTTP statuses; anything else is a generic 500.
var (
	ErrInvalidPrayerName      = errors.New("prayer name is not one of the five daily prayers")
	ErrBackdateTooOld         = errors.New("backdate date is more than 7 days in the past")
	ErrBackdateInFuture       = errors.New("backdate date is in the future")
	ErrDuplicateClaim         = errors.New("a claim for this prayer and date already exists")
	ErrDailyLimitExceeded     = errors.New("daily prayer claim limit reached")
	ErrClaimNotFound          = errors.New("prayer claim not found")
	ErrInvalidStateTransition = errors.New("prayer claim has already been approved or denied")
	ErrChildNotFound          = errors.New("child not found")
)
