// internal/handlers/common.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/motorlot/carmarket-backend/internal/i18n"
	"github.com/motorlot/carmarket-backend/internal/services"
	"github.com/motorlot/carmarket-backend/internal/utils"
)

// currentUserID pulls the authenticated subject out of the gin context. A
// missing or malformed ID writes the response and returns false.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return uuid.Nil, false
	}
	return userID, true
}

// pathUUID parses a :param path segment as a UUID.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

// writeServiceError maps the service error taxonomy onto HTTP responses.
// resource names the entity for the not-found message ("deal", "car", ...).
func writeServiceError(c *gin.Context, err error, resource string) {
	lang := utils.GetLangFromContext(c)

	switch {
	case errors.Is(err, services.ErrAccessDenied):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyAccessDenied))
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, resource)
	case errors.Is(err, services.ErrInsufficientBalance):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyDealInsufficient), nil)
	case errors.Is(err, services.ErrInsufficientStock):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyCarOutOfStock), nil)
	case errors.Is(err, services.ErrConflict):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyDealConflict))
	default:
		utils.BadRequestResponse(c, err.Error(), nil)
	}
}
