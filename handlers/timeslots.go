package handlers

import (
	"net/http"
	"time"

	"slotify/config"
	"slotify/models"
	"slotify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DeclareAvailabilityHandler adds a free window to an owner's calendar.
func (h *SchedulingHandler) DeclareAvailabilityHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.DeclareAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid availability declaration", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	slots, err := h.Engine.DeclareAvailability(c.Request.Context(), req)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"timeslots": slots})
}

// DeleteSlotHandler removes one slot from an owner's calendar.
func (h *SchedulingHandler) DeleteSlotHandler(c *gin.Context) {
	ownerID := c.Param("ownerID")
	slotID := c.Param("slotID")

	if err := h.Engine.DeleteSlot(c.Request.Context(), ownerID, slotID); err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "timeslot deleted"})
}

// PurgeOwnerHandler drops an owner's entire calendar (account deletion cascade).
func (h *SchedulingHandler) PurgeOwnerHandler(c *gin.Context) {
	ownerID := c.Param("ownerID")

	deleted, err := h.Engine.PurgeOwner(c.Request.Context(), ownerID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// PromoteToFixedHandler marks a slot as a weekly template and expands it
// forward to the rolling horizon.
func (h *SchedulingHandler) PromoteToFixedHandler(c *gin.Context) {
	ownerID := c.Param("ownerID")
	slotID := c.Param("slotID")

	instances, err := h.Engine.PromoteToFixed(c.Request.Context(), ownerID, slotID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"instances": instances})
}

// ExtendFixedSlotsHandler runs the maintenance extension for one owner on
// demand (calendar navigation); the cron worker covers the periodic case.
func (h *SchedulingHandler) ExtendFixedSlotsHandler(c *gin.Context) {
	ownerID := c.Param("ownerID")

	now := time.Now().UTC()
	windowEnd := now.AddDate(0, 0, 7)
	extended, err := h.Engine.ExtendFixedSlots(c.Request.Context(), ownerID, now, windowEnd)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"extendedTemplates": extended,
		"horizonMonths":     config.AppConfig.FixedSlotHorizonMths,
	})
}
