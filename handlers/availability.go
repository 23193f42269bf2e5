package handlers

import (
	"net/http"
	"strconv"
	"time"

	"slotify/config"
	"slotify/utils"

	"github.com/gin-gonic/gin"
)

func parseTimeQuery(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// BrowseAvailabilityHandler returns the owner's merged, inward-padded free
// capacity, optionally bounded to a range.
func (h *SchedulingHandler) BrowseAvailabilityHandler(c *gin.Context) {
	ownerID := c.Param("ownerID")
	padding := intQuery(c, "padding", config.AppConfig.TransitPaddingMin)

	rangeStart, err := parseTimeQuery(c, "from")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid 'from' timestamp", err.Error())
		return
	}
	rangeEnd, err := parseTimeQuery(c, "to")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid 'to' timestamp", err.Error())
		return
	}

	slots, err := h.Engine.AvailabilityForBrowsing(c.Request.Context(), ownerID, padding, rangeStart, rangeEnd)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"timeslots": slots})
}

// NextAvailableHandler returns the first free window long enough to book.
func (h *SchedulingHandler) NextAvailableHandler(c *gin.Context) {
	ownerID := c.Param("ownerID")
	padding := intQuery(c, "padding", config.AppConfig.TransitPaddingMin)
	minDuration := intQuery(c, "minDuration", 0)

	slot, err := h.Engine.NextAvailable(c.Request.Context(), ownerID, padding, minDuration)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	if slot == nil {
		utils.JSONError(c, http.StatusNotFound, "No available timeslot", "no slot meets the requested duration")
		return
	}

	c.JSON(http.StatusOK, gin.H{"timeslot": slot})
}

// CheckAvailabilityHandler is the boolean feasibility probe.
func (h *SchedulingHandler) CheckAvailabilityHandler(c *gin.Context) {
	ownerID := c.Param("ownerID")

	start, err := parseTimeQuery(c, "start")
	if err != nil || start == nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid or missing 'start' timestamp", "")
		return
	}
	end, err := parseTimeQuery(c, "end")
	if err != nil || end == nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid or missing 'end' timestamp", "")
		return
	}

	available, err := h.Engine.CheckAvailability(c.Request.Context(), ownerID, *start, *end)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": available})
}
