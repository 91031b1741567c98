package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/FGSParent/models"
)

func userProfileRows(user models.UserProfile) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"user_profile_id", "family_id", "username", "password", "email",
		"first_name", "last_name", "admin", "datetime_create", "datetime_update",
	}).AddRow(user.UserProfileID, user.FamilyID, user.Username, user.Password, user.Email,
		user.FirstName, user.LastName, user.Admin, user.DatetimeCreate, user.DatetimeUpdate)
}

func TestUserLogin(t *testing.T) {
	t.Setenv("SECRET", "test-secret")

	tests := []struct {
		name           string
		login          models.Login
		setupMock      func(mock sqlmock.Sqlmock)
		expectedStatus int
		expectToken    bool
	}{
		{
			name:  "successful login",
			login: models.Login{Username: "testparent", Password: "password123"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM \"user_profile\"").
					WillReturnRows(userProfileRows(MockUserWithPassword()))
			},
			expectedStatus: http.StatusOK,
			expectToken:    true,
		},
		{
			name:  "wrong password",
			login: models.Login{Username: "testparent", Password: "wrongpassword"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM \"user_profile\"").
					WillReturnRows(userProfileRows(MockUserWithPassword()))
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:  "unknown user",
			login: models.Login{Username: "nobody", Password: "password123"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM \"user_profile\"").
					WillReturnRows(sqlmock.NewRows([]string{
						"user_profile_id", "family_id", "username", "password", "email",
						"first_name", "last_name", "admin", "datetime_create", "datetime_update",
					}))
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			tt.setupMock(mock)

			ctl := NewUserController(db)

			c, w := SetupTestContext()
			jsonData, _ := json.Marshal(tt.login)
			c.Request = httptest.NewRequest("POST", "/login", bytes.NewBuffer(jsonData))
			c.Request.Header.Set("Content-Type", "application/json")

			ctl.UserLogin(c)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			_ = json.Unmarshal(w.Body.Bytes(), &response)

			if tt.expectToken {
				assert.NotEmpty(t, response["token"])
			} else {
				assert.NotNil(t, response["error"])
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStorePushToken(t *testing.T) {
	tests := []struct {
		name           string
		tokenData      models.PushTokenRequest
		expectedStatus int
		expectError    bool
	}{
		{
			name: "successful token storage - iOS",
			tokenData: models.PushTokenRequest{
				PushToken: strings.Repeat("a", 100),
				Platform:  "ios",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "successful token storage - Android",
			tokenData: models.PushTokenRequest{
				PushToken: "ExponentPushToken[" + strings.Repeat("a", 50) + "]",
				Platform:  "android",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "token too short",
			tokenData: models.PushTokenRequest{
				PushToken: "short",
				Platform:  "ios",
			},
			expectedStatus: http.StatusBadRequest,
			expectError:    true,
		},
		{
			name: "token too long",
			tokenData: models.PushTokenRequest{
				PushToken: strings.Repeat("a", 501),
				Platform:  "ios",
			},
			expectedStatus: http.StatusBadRequest,
			expectError:    true,
		},
		{
			name: "invalid platform",
			tokenData: models.PushTokenRequest{
				PushToken: strings.Repeat("a", 100),
				Platform:  "web",
			},
			expectedStatus: http.StatusBadRequest,
			expectError:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			if !tt.expectError {
				mock.ExpectExec("INSERT INTO \"user_push_tokens\"").
					WillReturnResult(sqlmock.NewResult(1, 1))
			}

			ctl := NewUserController(db)

			c, w := SetupTestContext()
			SetAuthenticatedUser(c, MockUser(), false)
			jsonData, _ := json.Marshal(tt.tokenData)
			c.Request = httptest.NewRequest("POST", "/users/push-token", bytes.NewBuffer(jsonData))
			c.Request.Header.Set("Content-Type", "application/json")

			ctl.StorePushToken(c)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			_ = json.Unmarshal(w.Body.Bytes(), &response)

			if tt.expectError {
				assert.NotNil(t, response["error"])
			} else {
				assert.NotNil(t, response["message"])
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserSignup_RequiresAdmin(t *testing.T) {
	db, mock, cleanup := SetupTestDB(t)
	defer cleanup()

	ctl := NewUserController(db)

	c, w := SetupTestContext()
	SetAuthenticatedUser(c, MockUser(), false)
	jsonData, _ := json.Marshal(models.UserProfileSignup{
		Username: "newparent",
		Password: "password123",
		Email:    "new@example.com",
		FamilyID: 1,
	})
	c.Request = httptest.NewRequest("POST", "/users", bytes.NewBuffer(jsonData))
	c.Request.Header.Set("Content-Type", "application/json")

	ctl.UserSignup(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
