package controllers

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/FGSParent/models"
)

// Test fixture data for use in tests

// MockUser creates a sample parent profile for testing
func MockUser() models.UserProfile {
	return models.UserProfile{
		UserProfileID:  1,
		FamilyID:       1,
		Username:       "testparent",
		FirstName:      "Test",
		LastName:       "Parent",
		Email:          "parent@example.com",
		Admin:          false,
		DatetimeCreate: time.Now(),
		DatetimeUpdate: time.Now(),
	}
}

// MockUserWithPassword creates a sample parent with a bcrypt hashed password
// Password is "password123" - use this in tests
func MockUserWithPassword() models.UserProfile {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := MockUser()
	user.Password = string(hashedPassword)
	return user
}

// MockAdminUser creates a sample admin user for testing
func MockAdminUser() models.UserProfile {
	return models.UserProfile{
		UserProfileID:  2,
		FamilyID:       1,
		Username:       "adminuser",
		FirstName:      "Admin",
		LastName:       "User",
		Email:          "admin@example.com",
		Admin:          true,
		DatetimeCreate: time.Now(),
		DatetimeUpdate: time.Now(),
	}
}

// MockOtherFamilyUser creates a parent from a different family, for scoping
// tests
func MockOtherFamilyUser() models.UserProfile {
	return models.UserProfile{
		UserProfileID:  3,
		FamilyID:       2,
		Username:       "otherparent",
		FirstName:      "Other",
		LastName:       "Parent",
		Email:          "other@example.com",
		Admin:          false,
		DatetimeCreate: time.Now(),
		DatetimeUpdate: time.Now(),
	}
}

// MockFamily creates a sample family for testing
func MockFamily() models.Family {
	return models.Family{
		FamilyID:       1,
		FamilyName:     "Test Family",
		Timezone:       "America/New_York",
		DatetimeCreate: time.Now(),
		DatetimeUpdate: time.Now(),
	}
}

// MockChild creates a sample child for testing
func MockChild() models.Child {
	return models.Child{
		ChildID:        1,
		FamilyID:       1,
		ChildName:      "Test Child",
		TotalPoints:    40,
		DatetimeCreate: time.Now(),
		DatetimeUpdate: time.Now(),
	}
}

// MockPendingClaim creates a sample pending prayer claim for testing
func MockPendingClaim() models.PrayerClaim {
	return models.PrayerClaim{
		PrayerClaimID: "a3bb189e-8bf9-3888-9912-ace4e6543002",
		ChildID:       1,
		PrayerName:    "Fajr",
		ClaimedAt:     time.Now().UTC(),
		ClaimedDate:   time.Now().Format("2006-01-02"),
		Status:        models.ClaimStatusPending,
		Points:        10,
	}
}
