// internal/handlers/inventory.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/motorlot/carmarket-backend/internal/i18n"
	"github.com/motorlot/carmarket-backend/internal/services"
	"github.com/motorlot/carmarket-backend/internal/utils"
)

type InventoryHandler struct {
	inventoryService *services.InventoryService
	storageService   *services.StorageService
}

func NewInventoryHandler(inventoryService *services.InventoryService, storageService *services.StorageService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		storageService:   storageService,
	}
}

// GET /inventory/wholesale - manufacturer admin's own stock
func (h *InventoryHandler) ListOwnWholesale(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	cars, total, err := h.inventoryService.ListOwnWholesale(userID, params)
	if err != nil {
		writeServiceError(c, err, "car")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(cars, total, params))
}

// GET /inventory/retail - dealership admin's own stock
func (h *InventoryHandler) ListOwnRetail(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	cars, total, err := h.inventoryService.ListOwnRetail(userID, params)
	if err != nil {
		writeServiceError(c, err, "car")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(cars, total, params))
}

// GET /market/wholesale - dealership admins shopping manufacturer stock
func (h *InventoryHandler) BrowseWholesale(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	cars, total, err := h.inventoryService.BrowseWholesale(params)
	if err != nil {
		writeServiceError(c, err, "car")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(cars, total, params))
}

// GET /market/retail - customers shopping dealership stock
func (h *InventoryHandler) BrowseRetail(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	cars, total, err := h.inventoryService.BrowseRetail(params)
	if err != nil {
		writeServiceError(c, err, "car")
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(cars, total, params))
}

// GET /inventory/wholesale/:id
func (h *InventoryHandler) GetWholesaleCar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	carID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	car, err := h.inventoryService.GetWholesaleCar(userID, carID)
	if err != nil {
		writeServiceError(c, err, "car")
		return
	}

	utils.SuccessResponse(c, car)
}

// GET /inventory/retail/:id
func (h *InventoryHandler) GetRetailCar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	carID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	car, err := h.inventoryService.GetRetailCar(userID, carID)
	if err != nil {
		writeServiceError(c, err, "car")
		return
	}

	utils.SuccessResponse(c, car)
}

// PATCH /inventory/wholesale/:id/price
func (h *InventoryHandler) UpdateWholesalePrice(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	carID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateCarPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	car, err := h.inventoryService.UpdateWholesalePrice(userID, carID, &req)
	if err != nil {
		writeServiceError(c, err, "car")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCarPriceUpdated),
		"car":     car,
	})
}

// PATCH /inventory/retail/:id/price
func (h *InventoryHandler) UpdateRetailPrice(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	carID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateCarPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	car, err := h.inventoryService.UpdateRetailPrice(userID, carID, &req)
	if err != nil {
		writeServiceError(c, err, "car")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCarPriceUpdated),
		"car":     car,
	})
}

// DELETE /inventory/wholesale/:id
func (h *InventoryHandler) DeleteWholesaleCar(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	carID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.inventoryService.DeleteWholesaleCar(userID, carID); err != nil {
		writeServiceError(c, err, "car")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCarDeleted),
	})
}

// DELETE /inventory/retail/:id
func (h *InventoryHandler) DeleteRetailCar(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	carID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.inventoryService.DeleteRetailCar(userID, carID); err != nil {
		writeServiceError(c, err, "car")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCarDeleted),
	})
}

// POST /inventory/wholesale/:id/photos
func (h *InventoryHandler) UploadWholesalePhoto(c *gin.Context) {
	h.uploadPhoto(c, true)
}

// POST /inventory/retail/:id/photos
func (h *InventoryHandler) UploadRetailPhoto(c *gin.Context) {
	h.uploadPhoto(c, false)
}

func (h *InventoryHandler) uploadPhoto(c *gin.Context, wholesale bool) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	carID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}
	defer file.Close()

	if err := h.storageService.ValidateImage(file); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileInvalidType), nil)
		return
	}

	result, err := h.storageService.UploadFile(file, header, h.storageService.CarPhotoUploadOptions())
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	var payload interface{}
	if wholesale {
		payload, err = h.inventoryService.AttachWholesalePhoto(userID, carID, result.URL)
	} else {
		payload, err = h.inventoryService.AttachRetailPhoto(userID, carID, result.URL)
	}
	if err != nil {
		// The photo is orphaned in the bucket if this fails; best effort clean up.
		h.storageService.DeleteFile(result.Key)
		writeServiceError(c, err, "car")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"upload":  result,
		"car":     payload,
	})
}
