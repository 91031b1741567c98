package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/FGSParent/models"
	"github.com/FGSParent/services"
)

// PrayerClaimController exposes the claim engine over HTTP. All routes run
// behind CheckAuth; family scoping is enforced here before the engine is
// called.
type PrayerClaimController struct {
	claims    *services.PrayerClaimService
	directory *services.FamilyDirectoryService
}

func NewPrayerClaimController(claims *services.PrayerClaimService, directory *services.FamilyDirectoryService) *PrayerClaimController {
	return &PrayerClaimController{claims: claims, directory: directory}
}

// claimErrorResponse maps engine errors onto client-facing statuses:
// validation problems are 400, invariant conflicts 409, missing records 404.
func claimErrorResponse(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidPrayerName),
		errors.Is(err, services.ErrBackdateTooOld),
		errors.Is(err, services.ErrBackdateInFuture):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrDuplicateClaim),
		errors.Is(err, services.ErrDailyLimitExceeded),
		errors.Is(err, services.ErrInvalidStateTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrClaimNotFound),
		errors.Is(err, services.ErrChildNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func currentUserFamilyOK(c *gin.Context, familyID int) bool {
	user := c.MustGet("currentUser").(models.UserProfile)
	admin := c.MustGet("admin").(bool)
	return admin || user.FamilyID == familyID
}

// CreatePrayerClaim submits a new claim for a child.
// POST /children/:child_id/prayer-claims
func (ctl *PrayerClaimController) CreatePrayerClaim(c *gin.Context) {
	childID, err := strconv.Atoi(c.Param("child_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid child ID", "details": err.Error()})
		return
	}

	var body models.PrayerClaimCreate
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if body.BackdateDate != nil && *body.BackdateDate != "" {
		if _, err := services.ParseClaimDate(*body.BackdateDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid backdate", "details": err.Error()})
			return
		}
	}

	// The family's timezone decides which local day the claim lands on.
	family, err := ctl.directory.GetChildFamily(c, childID)
	if err != nil {
		claimErrorResponse(c, err)
		return
	}

	if !currentUserFamilyOK(c, family.FamilyID) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You are not authorized to submit claims for this child"})
		return
	}

	claim, err := ctl.claims.CreateClaim(c, services.PrayerClaimInput{
		ChildID:      childID,
		PrayerName:   body.PrayerName,
		Points:       body.Points,
		Timezone:     family.Timezone,
		BackdateDate: body.BackdateDate,
	})
	if err != nil {
		claimErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Prayer claim submitted successfully.",
		"claim":   claim,
	})
}

// GetChildClaims lists a child's claims, newest first.
// GET /children/:child_id/prayer-claims?status=pending&limit=20
func (ctl *PrayerClaimController) GetChildClaims(c *gin.Context) {
	childID, err := strconv.Atoi(c.Param("child_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid child ID", "details": err.Error()})
		return
	}

	child, err := ctl.directory.GetChild(c, childID)
	if err != nil {
		claimErrorResponse(c, err)
		return
	}

	if !currentUserFamilyOK(c, child.FamilyID) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You are not authorized to view this child's claims"})
		return
	}

	var status *string
	if s := c.Query("status"); s != "" {
		status = &s
	}

	limit := 0
	if l := c.Query("limit"); l != "" {
		limit, err = strconv.Atoi(l)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit", "details": err.Error()})
			return
		}
	}

	claims, err := ctl.claims.GetChildClaims(c, childID, status, limit)
	if err != nil {
		claimErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Prayer claims retrieved successfully.",
		"claims":  claims,
	})
}

// GetClaimsForDate lists a child's claims for one local calendar date.
// GET /children/:child_id/prayer-claims/date/:date
func (ctl *PrayerClaimController) GetClaimsForDate(c *gin.Context) {
	childID, err := strconv.Atoi(c.Param("child_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid child ID", "details": err.Error()})
		return
	}

	child, err := ctl.directory.GetChild(c, childID)
	if err != nil {
		claimErrorResponse(c, err)
		return
	}

	if !currentUserFamilyOK(c, child.FamilyID) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You are not authorized to view this child's claims"})
		return
	}

	claims, err := ctl.claims.GetClaimsForDate(c, childID, c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Prayer claims retrieved successfully.",
		"claims":  claims,
	})
}

// GetPendingClaimsForFamily returns the family's approval queue, oldest
// claim first.
// GET /families/:family_id/prayer-claims/pending
func (ctl *PrayerClaimController) GetPendingClaimsForFamily(c *gin.Context) {
	familyID, err := strconv.Atoi(c.Param("family_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid family ID", "details": err.Error()})
		return
	}

	if !currentUserFamilyOK(c, familyID) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You are not authorized to view this family's claims"})
		return
	}

	claims, err := ctl.claims.GetPendingClaimsForFamily(c, familyID)
	if err != nil {
		claimErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pending prayer claims retrieved successfully.",
		"claims":  claims,
	})
}

// ApprovePrayerClaim approves a pending claim and awards its points.
// PATCH /prayer-claims/:prayer_claim_id/approve
func (ctl *PrayerClaimController) ApprovePrayerClaim(c *gin.Context) {
	user := c.MustGet("currentUser").(models.UserProfile)
	claimID := c.Param("prayer_claim_id")

	claim, err := ctl.claims.GetClaim(c, claimID)
	if err != nil {
		claimErrorResponse(c, err)
		return
	}

	child, err := ctl.directory.GetChild(c, claim.ChildID)
	if err != nil {
		claimErrorResponse(c, err)
		return
	}

	if !currentUserFamilyOK(c, child.FamilyID) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You are not authorized to approve this claim"})
		return
	}

	approved, pointEvent, err := ctl.claims.ApproveClaim(c, claimID, user.UserProfileID)
	if err != nil {
		claimErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Prayer claim approved successfully.",
		"claim":      approved,
		"pointEvent": pointEvent,
	})
}

// DenyPrayerClaim denies a pending claim with an optional reason.
// PATCH /prayer-claims/:prayer_claim_id/deny
func (ctl *PrayerClaimController) DenyPrayerClaim(c *gin.Context) {
	user := c.MustGet("currentUser").(models.UserProfile)
	claimID := c.Param("prayer_claim_id")

	var body models.PrayerClaimDeny
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	claim, err := ctl.claims.GetClaim(c, claimID)
	if err != nil {
		claimErrorResponse(c, err)
		return
	}

	child, err := ctl.directory.GetChild(c, claim.ChildID)
	if err != nil {
		claimErrorResponse(c, err)
		return
	}

	if !currentUserFamilyOK(c, child.FamilyID) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You are not authorized to deny this claim"})
		return
	}

	denied, err := ctl.claims.DenyClaim(c, claimID, user.UserProfileID, body.Reason)
	if err != nil {
		claimErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Prayer claim denied.",
		"claim":   denied,
	})
}

// GetPrayerStats returns the child's computed claim statistics.
// GET /children/:child_id/prayer-stats?days=7
func (ctl *PrayerClaimController) GetPrayerStats(c *gin.Context) {
	childID, err := strconv.Atoi(c.Param("child_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid child ID", "details": err.Error()})
		return
	}

	child, err := ctl.directory.GetChild(c, childID)
	if err != nil {
		claimErrorResponse(c, err)
		return
	}

	if !currentUserFamilyOK(c, child.FamilyID) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You are not authorized to view this child's stats"})
		return
	}

	days := 7
	if d := c.Query("days"); d != "" {
		days, err = strconv.Atoi(d)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days", "details": err.Error()})
			return
		}
	}

	stats, err := ctl.claims.GetPrayerStats(c, childID, days)
	if err != nil {
		claimErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Prayer stats computed successfully.",
		"stats":   stats,
	})
}
