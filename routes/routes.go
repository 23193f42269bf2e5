package routes

import (
	"slotify/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all endpoints for the availability & booking engine.
func RegisterRoutes(r *gin.Engine, h *handlers.SchedulingHandler) {
	r.GET("/health", handlers.HealthHandler)

	api := r.Group("/api")

	slots := api.Group("/slots")
	{
		slots.POST("", h.DeclareAvailabilityHandler)
		slots.DELETE("/:ownerID/:slotID", h.DeleteSlotHandler)
		slots.POST("/:ownerID/promote/:slotID", h.PromoteToFixedHandler)
		slots.POST("/:ownerID/extend", h.ExtendFixedSlotsHandler)
		slots.DELETE("/:ownerID", h.PurgeOwnerHandler)
	}

	booking := api.Group("/booking")
	{
		booking.POST("", h.BookHandler)
		booking.DELETE("/slot/:slotID", h.ReleaseHandler)
		booking.DELETE("/request/:requestID", h.ReleaseByRequestHandler)
		booking.DELETE("/job/:jobID", h.ReleaseByJobHandler)
	}

	availability := api.Group("/availability")
	{
		availability.GET("/:ownerID", h.BrowseAvailabilityHandler)
		availability.GET("/:ownerID/next", h.NextAvailableHandler)
		availability.GET("/:ownerID/check", h.CheckAvailabilityHandler)
	}
}
