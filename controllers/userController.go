package controllers

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/FGSParent/models"
)

// UserController handles parent account auth and device registration.
type UserController struct {
	db *goqu.Database
}

func NewUserController(db *goqu.Database) *UserController {
	return &UserController{db: db}
}

func (ctl *UserController) UserSignup(c *gin.Context) {
	admin := c.MustGet("admin")

	if admin != true {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "must be logged in as an admin to create a user."})
		return
	}

	var user models.UserProfileSignup

	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userCount, err := ctl.db.From("user_profile").Select("username").Where(goqu.C("username").Eq(user.Username)).Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if userCount > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username already exists."})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newUser := models.UserProfile{
		FamilyID:  user.FamilyID,
		Username:  user.Username,
		Password:  string(passwordHash),
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}

	insert := ctl.db.Insert("user_profile").Rows(newUser).Executor()
	if _, err := insert.Exec(); err != nil {
		log.Default().Println(insert)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{
		"message": "User created successfully.",
		"user":    user,
	})
}

func (ctl *UserController) UserLogin(c *gin.Context) {
	var user models.Login

	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var dbUser models.UserProfile
	_, err := ctl.db.From("user_profile").Select("*").Where(goqu.C("username").Eq(user.Username)).ScanStruct(&dbUser)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(dbUser.Password), []byte(user.Password))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}

	role := "user"
	if dbUser.Admin || strings.HasPrefix(dbUser.Username, "admin") {
		role = "admin"
	}

	generateToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   dbUser.UserProfileID,
		"exp":  time.Now().Add(time.Hour * 24).Unix(),
		"role": role,
	})

	token, err := generateToken.SignedString([]byte(os.Getenv("SECRET")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(200, gin.H{
		"message": "User logged in successfully.",
		"token":   token,
		"user":    dbUser,
	})
}

func (ctl *UserController) GetUserProfile(c *gin.Context) {
	user, _ := c.Get("currentUser")

	c.JSON(200, gin.H{
		"user":  user,
		"admin": c.MustGet("admin"),
	})
}

// StorePushToken upserts the caller's device token so claim notifications can
// reach their phone. Tokens shorter than 10 or longer than 500 characters are
// rejected before touching the database.
func (ctl *UserController) StorePushToken(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.UserProfile)

	var request models.PushTokenRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(request.PushToken) < 10 || len(request.PushToken) > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid push token length"})
		return
	}

	insert := ctl.db.Insert("user_push_tokens").
		Rows(goqu.Record{
			"user_profile_id": currentUser.UserProfileID,
			"push_token":      request.PushToken,
			"platform":        request.Platform,
			"updated_at":      time.Now(),
		}).
		OnConflict(goqu.DoUpdate(
			"user_profile_id, push_token",
			goqu.Record{"platform": request.Platform, "updated_at": time.Now()},
		)).
		Executor()

	if _, err := insert.Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store push token", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Push token stored successfully"})
}
