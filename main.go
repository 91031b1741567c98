package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FGSParent/controllers"
	"github.com/FGSParent/initializers"
	"github.com/FGSParent/middlewares"
	"github.com/FGSParent/services"
)

func main() {
	initializers.LoadEnv()
	db := initializers.ConnectDB()

	directory := services.NewFamilyDirectoryService(db)
	ledger := services.NewPointLedgerService(db)
	push := services.NewPushNotificationService(db)
	email := services.NewEmailService()
	notifier := services.NewNotificationTriggerService(db, directory, push, email)
	claims := services.NewPrayerClaimService(db, directory, ledger, notifier)

	claimController := controllers.NewPrayerClaimController(claims, directory)
	pointController := controllers.NewPointController(ledger, directory)
	userController := controllers.NewUserController(db)
	notificationController := controllers.NewNotificationController(db)

	router := gin.Default()

	getKey := func(c *gin.Context) string {
		if gin.Mode() == gin.DebugMode {
			return c.FullPath()
		}
		return c.ClientIP()
	}

	router.POST("/login", middlewares.RateLimitMiddleware(2, 2, getKey), userController.UserLogin)
	router.GET("/ping", middlewares.RateLimitMiddleware(2, 2, getKey), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	auth := router.Group("/")
	auth.Use(middlewares.CheckAuth(db))
	auth.Use(middlewares.RateLimitMiddleware(10, 10, getKey))
	{
		// user routes
		auth.GET("/users/me", userController.GetUserProfile)
		auth.POST("/users/push-token", userController.StorePushToken)

		// notification routes
		auth.GET("/users/:user_profile_id/notifications", notificationController.GetUserNotifications)
		auth.PATCH("/users/:user_profile_id/notifications/mark-all-read", notificationController.MarkAllNotificationsAsRead)

		// prayer claim routes
		auth.POST("/children/:child_id/prayer-claims", claimController.CreatePrayerClaim)
		auth.GET("/children/:child_id/prayer-claims", claimController.GetChildClaims)
		auth.GET("/children/:child_id/prayer-claims/date/:date", claimController.GetClaimsForDate)
		auth.PATCH("/prayer-claims/:prayer_claim_id/approve", claimController.ApprovePrayerClaim)
		auth.PATCH("/prayer-claims/:prayer_claim_id/deny", claimController.DenyPrayerClaim)
		auth.GET("/families/:family_id/prayer-claims/pending", claimController.GetPendingClaimsForFamily)

		// stats and points routes
		auth.GET("/children/:child_id/prayer-stats", claimController.GetPrayerStats)
		auth.GET("/children/:child_id/points", pointController.GetChildPoints)

		// admin only routes
		admin := auth.Group("/")
		admin.Use(middlewares.CheckAdmin)
		admin.Use(middlewares.RateLimitMiddleware(5, 5, getKey))
		{
			admin.POST("/users", userController.UserSignup)
		}
	}

	if err := router.Run(); err != nil {
		log.Fatal(err)
	}
}
