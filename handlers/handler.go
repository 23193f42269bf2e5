package handlers

import (
	"errors"
	"net/http"

	"slotify/services/scheduling"
	"slotify/utils"

	"github.com/gin-gonic/gin"
)

// SchedulingHandler maps engine operations onto HTTP. The engine itself
// stays transport-agnostic; only typed results and errors cross this seam.
type SchedulingHandler struct {
	Engine scheduling.SchedulingEngine
}

func NewSchedulingHandler(engine scheduling.SchedulingEngine) *SchedulingHandler {
	return &SchedulingHandler{Engine: engine}
}

// respondEngineError translates the engine's error taxonomy to status codes.
func respondEngineError(c *gin.Context, err error) {
	var (
		ve  *scheduling.ValidationError
		ce  *scheduling.ConflictError
		cve *scheduling.CoverageError
		nfe *scheduling.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", ve.Message)
	case errors.As(err, &ce):
		utils.JSONError(c, http.StatusConflict, "Requested time is no longer available", ce.Message)
	case errors.As(err, &cve):
		utils.JSONError(c, http.StatusConflict, "Requested time is only partially available", cve.Message)
	case errors.As(err, &nfe):
		utils.JSONError(c, http.StatusNotFound, "Not found", nfe.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", err.Error())
	}
}
