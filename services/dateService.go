package services

import (
	"fmt"
	"time"
)

// Claim dates are bare YYYY-MM-DD strings in the family's local calendar.
const ClaimDateLayout = "2006-01-02"

// LocalDate formats the calendar date of t as observed in loc. A claim made
// at 23:30 local time must land on the local day, not the UTC one.
func LocalDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(ClaimDateLayout)
}

// LocalToday returns today's date in the given IANA timezone.
func LocalToday(timezone string) (string, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return "", fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return LocalDate(time.Now(), loc), nil
}

// ParseClaimDate validates a YYYY-MM-DD string and returns it as midnight
// UTC. Bare dates are compared in UTC so DST shifts in the family zone
// cannot change the day arithmetic.
func ParseClaimDate(date string) (time.Time, error) {
	t, err := time.ParseInLocation(ClaimDateLayout, date, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid claim date %q: %w", date, err)
	}
	return t, nil
}

// DaysBetween returns the number of calendar days from one date to another
// (positive when "to" is later than "from").
func DaysBetween(from, to string) (int, error) {
	f, err := ParseClaimDate(from)
	if err != nil {
		return 0, err
	}
	t, err := ParseClaimDate(to)
	if err != nil {
		return 0, err
	}
	return int(t.Sub(f).Hours() / 24), nil
}

// PreviousDay returns the date one calendar day before the given one. The
// input must already be a valid claim date.
func PreviousDay(date string) string {
	t, err := ParseClaimDate(date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, -1).Format(ClaimDateLayout)
}
