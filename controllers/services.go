package controllers

import (
	"errors"
	"net/http"

	"city-report-api/config"
	"city-report-api/realtime"
	"city-report-api/services"

	"github.com/gin-gonic/gin"
)

var (
	hub             *realtime.Hub
	reportService   *services.ReportService
	notificationSvc *services.NotificationService
)

// Init wires the controller layer to the shared database handle and the
// realtime hub. Must be called after config.InitDB.
func Init(h *realtime.Hub) {
	hub = h
	notificationSvc = services.NewNotificationService(config.DB, h)
	reportService = services.NewReportService(config.DB, notificationSvc, services.NewNominatimGeocoder())
}

func getCurrentUserID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(string); ok {
			return id, true
		}
	}
	return "", false
}

// scopeFromContext builds the caller's access scope from the auth
// middleware's context values.
func scopeFromContext(c *gin.Context) services.AccessScope {
	role, _ := c.Get("role")
	roleStr, _ := role.(string)

	var osbbID *string
	if v, ok := c.Get("osbbID"); ok {
		if id, ok := v.(string); ok && id != "" {
			osbbID = &id
		}
	}
	return services.ResolveScope(roleStr, osbbID)
}

// respondServiceError maps the service error taxonomy to HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError
	var forbiddenErr *services.ForbiddenError
	var conflictErr *services.ConflictError
	var resolutionErr *services.ResolutionError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &forbiddenErr):
		c.JSON(http.StatusForbidden, gin.H{"error": forbiddenErr.Error()})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Message})
	case errors.As(err, &resolutionErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": resolutionErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
