// internal/handlers/account.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/motorlot/carmarket-backend/internal/i18n"
	"github.com/motorlot/carmarket-backend/internal/services"
	"github.com/motorlot/carmarket-backend/internal/utils"
)

type AccountHandler struct {
	accountService *services.AccountService
}

func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// GET /account/profile
func (h *AccountHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.accountService.GetProfile(userID)
	if err != nil {
		writeServiceError(c, err, "user")
		return
	}

	utils.SuccessResponse(c, profile)
}

// POST /account/topup
func (h *AccountHandler) TopUpBalance(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	profile, err := h.accountService.TopUpBalance(userID, &req)
	if err != nil {
		writeServiceError(c, err, "user")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBalanceToppedUp),
		"profile": profile,
	})
}
