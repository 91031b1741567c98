package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/FGSParent/services"
)

// PointController exposes the child's running total and ledger history.
type PointController struct {
	ledger    *services.PointLedgerService
	directory *services.FamilyDirectoryService
}

func NewPointController(ledger *services.PointLedgerService, directory *services.FamilyDirectoryService) *PointController {
	return &PointController{ledger: ledger, directory: directory}
}

// GetChildPoints returns the child's current balance and recent ledger
// events.
// GET /children/:child_id/points?limit=50
func (ctl *PointController) GetChildPoints(c *gin.Context) {
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
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You are not authorized to view this child's points"})
		return
	}

	limit := 0
	if l := c.Query("limit"); l != "" {
		limit, err = strconv.Atoi(l)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit", "details": err.Error()})
			return
		}
	}

	events, err := ctl.ledger.GetChildEvents(c, childID, limit)
	if err != nil {
		claimErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Points retrieved successfully.",
		"totalPoints": child.TotalPoints,
		"events":      events,
	})
}
