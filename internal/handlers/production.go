// internal/handlers/production.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/motorlot/carmarket-backend/internal/i18n"
	"github.com/motorlot/carmarket-backend/internal/services"
	"github.com/motorlot/carmarket-backend/internal/utils"
)

type ProductionHandler struct {
	productionService *services.ProductionService
}

func NewProductionHandler(productionService *services.ProductionService) *ProductionHandler {
	return &ProductionHandler{
		productionService: productionService,
	}
}

// POST /blueprints
func (h *ProductionHandler) CreateBlueprint(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateBlueprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	blueprint, err := h.productionService.CreateBlueprint(userID, &req)
	if err != nil {
		writeServiceError(c, err, "blueprint")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":   i18n.T(lang, i18n.KeyBlueprintCreated),
		"blueprint": blueprint,
	})
}

// PUT /blueprints/:id
func (h *ProductionHandler) UpdateBlueprint(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	blueprintID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateBlueprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	blueprint, err := h.productionService.UpdateBlueprint(userID, blueprintID, &req)
	if err != nil {
		writeServiceError(c, err, "blueprint")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":   i18n.T(lang, i18n.KeyBlueprintUpdated),
		"blueprint": blueprint,
	})
}

// DELETE /blueprints/:id
func (h *ProductionHandler) DeleteBlueprint(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	blueprintID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.productionService.DeleteBlueprint(userID, blueprintID); err != nil {
		writeServiceError(c, err, "blueprint")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBlueprintDeleted),
	})
}

// GET /blueprints
func (h *ProductionHandler) ListBlueprints(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	blueprints, total, err := h.productionService.ListBlueprints(userID, params)
	if err != nil {
		writeServiceError(c, err, "blueprint")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(blueprints, total, params))
}

// POST /manufacturing-orders
func (h *ProductionHandler) RunManufacturingOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.RunManufacturingOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	order, err := h.productionService.RunManufacturingOrder(userID, &req)
	if err != nil {
		writeServiceError(c, err, "blueprint")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderCompleted),
		"order":   order,
	})
}

// GET /manufacturing-orders
func (h *ProductionHandler) ListManufacturingOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	orders, total, err := h.productionService.ListManufacturingOrders(userID, params)
	if err != nil {
		writeServiceError(c, err, "blueprint")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(orders, total, params))
}
