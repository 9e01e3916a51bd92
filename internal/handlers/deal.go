// internal/handlers/deal.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/motorlot/carmarket-backend/internal/i18n"
	"github.com/motorlot/carmarket-backend/internal/models"
	"github.com/motorlot/carmarket-backend/internal/services"
	"github.com/motorlot/carmarket-backend/internal/utils"
)

type DealHandler struct {
	dealService *services.DealService
}

func NewDealHandler(dealService *services.DealService) *DealHandler {
	return &DealHandler{
		dealService: dealService,
	}
}

// POST /deals/wholesale
func (h *DealHandler) ProposeWholesaleDeal(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.ProposeWholesaleDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	deal, err := h.dealService.ProposeWholesaleDeal(userID, &req)
	if err != nil {
		writeServiceError(c, err, "deal")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyDealProposed),
		"deal":    deal,
	})
}

// POST /deals/retail
func (h *DealHandler) ProposeRetailDeal(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.ProposeRetailDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	deal, err := h.dealService.ProposeRetailDeal(userID, &req)
	if err != nil {
		writeServiceError(c, err, "deal")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyDealProposed),
		"deal":    deal,
	})
}

// POST /deals/wholesale/:id/accept
func (h *DealHandler) AcceptWholesaleDeal(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	dealID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	deal, err := h.dealService.AcceptWholesaleDeal(userID, dealID)
	if err != nil {
		writeServiceError(c, err, "deal")
		return
	}

	message := i18n.T(lang, i18n.KeyDealAccepted)
	if deal.Status == models.DealStatusPending {
		message = i18n.T(lang, i18n.KeyDealDeclined)
	}

	utils.SuccessResponse(c, gin.H{
		"message": message,
		"deal":    deal,
	})
}

// POST /deals/retail/:id/accept
func (h *DealHandler) AcceptRetailDeal(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	dealID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	deal, err := h.dealService.AcceptRetailDeal(userID, dealID)
	if err != nil {
		writeServiceError(c, err, "deal")
		return
	}

	message := i18n.T(lang, i18n.KeyDealAccepted)
	if deal.Status == models.DealStatusPending {
		message = i18n.T(lang, i18n.KeyDealDeclined)
	}

	utils.SuccessResponse(c, gin.H{
		"message": message,
		"deal":    deal,
	})
}

// POST /deals/wholesale/:id/reject
func (h *DealHandler) RejectWholesaleDeal(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	dealID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	deal, err := h.dealService.RejectWholesaleDeal(userID, dealID)
	if err != nil {
		writeServiceError(c, err, "deal")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyDealRejected),
		"deal":    deal,
	})
}

// POST /deals/retail/:id/reject
func (h *DealHandler) RejectRetailDeal(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	dealID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	deal, err := h.dealService.RejectRetailDeal(userID, dealID)
	if err != nil {
		writeServiceError(c, err, "deal")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyDealRejected),
		"deal":    deal,
	})
}

// GET /deals/wholesale/:id
func (h *DealHandler) GetWholesaleDeal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	dealID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	deal, err := h.dealService.GetWholesaleDeal(userID, dealID)
	if err != nil {
		writeServiceError(c, err, "deal")
		return
	}

	utils.SuccessResponse(c, deal)
}

// GET /deals/retail/:id
func (h *DealHandler) GetRetailDeal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	dealID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	deal, err := h.dealService.GetRetailDeal(userID, dealID)
	if err != nil {
		writeServiceError(c, err, "deal")
		return
	}

	utils.SuccessResponse(c, deal)
}

// GET /deals/wholesale/incoming
func (h *DealHandler) ListIncomingWholesaleDeals(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	deals, total, err := h.dealService.ListIncomingWholesaleDeals(userID, params)
	if err != nil {
		writeServiceError(c, err, "deal")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(deals, total, params))
}

// GET /deals/wholesale/outgoing
func (h *DealHandler) ListOutgoingWholesaleDeals(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	deals, total, err := h.dealService.ListOutgoingWholesaleDeals(userID, params)
	if err != nil {
		writeServiceError(c, err, "deal")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(deals, total, params))
}

// GET /deals/retail/incoming
func (h *DealHandler) ListIncomingRetailDeals(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	deals, total, err := h.dealService.ListIncomingRetailDeals(userID, params)
	if err != nil {
		writeServiceError(c, err, "deal")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(deals, total, params))
}

// GET /deals/retail/outgoing
func (h *DealHandler) ListOutgoingRetailDeals(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	deals, total, err := h.dealService.ListOutgoingRetailDeals(userID, params)
	if err != nil {
		writeServiceError(c, err, "deal")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(deals, total, params))
}
