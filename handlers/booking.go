package handlers

import (
	"net/http"

	"slotify/models"
	"slotify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookHandler confirms a booking against the owner's free capacity.
func (h *SchedulingHandler) BookHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	slot, err := h.Engine.Book(c.Request.Context(), req)
	if err != nil {
		logger.Warn("booking failed", zap.String("ownerID", req.OwnerID), zap.Error(err))
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"timeslot": slot})
}

// ReleaseHandler cancels a booking by slot ID.
func (h *SchedulingHandler) ReleaseHandler(c *gin.Context) {
	slotID := c.Param("slotID")

	slot, err := h.Engine.Release(c.Request.Context(), slotID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"timeslot": slot})
}

// ReleaseByRequestHandler cancels whatever slot a consumer request occupies.
// A request that never reached booking releases nothing; that is success.
func (h *SchedulingHandler) ReleaseByRequestHandler(c *gin.Context) {
	requestID := c.Param("requestID")

	slot, err := h.Engine.ReleaseByRequestID(c.Request.Context(), requestID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	if slot == nil {
		c.JSON(http.StatusOK, gin.H{"message": "no timeslot held by this request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"timeslot": slot})
}

// ReleaseByJobHandler mirrors ReleaseByRequestHandler for the job reference.
func (h *SchedulingHandler) ReleaseByJobHandler(c *gin.Context) {
	jobID := c.Param("jobID")

	slot, err := h.Engine.ReleaseByJobID(c.Request.Context(), jobID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	if slot == nil {
		c.JSON(http.StatusOK, gin.H{"message": "no timeslot held by this job"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"timeslot": slot})
}
