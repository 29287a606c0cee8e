// internal/handlers/product.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/authentiq/authentiq-backend/internal/services"
	"github.com/authentiq/authentiq-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	catalogService *services.CatalogService
	storageService *services.StorageService
}

func NewProductHandler(productService *services.ProductService, catalogService *services.CatalogService, storageService *services.StorageService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		catalogService: catalogService,
		storageService: storageService,
	}
}

// POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	owner, ok := actorFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	result, err := h.productService.CreateProduct(c.Request.Context(), owner, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	view, err := h.productService.GetProduct(c.Request.Context(), productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, view)
}

// GET /products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	products, total, err := h.catalogService.ListProducts(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(products, total, params))
}

// GET /products/mine
func (h *ProductHandler) ListOwnProducts(c *gin.Context) {
	owner, ok := actorFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	summaries, err := h.productService.ListByOwner(c.Request.Context(), owner)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, summaries)
}

// DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	owner, ok := actorFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), productID, owner); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deleted": productID})
}

// POST /products/upload
func (h *ProductHandler) UploadImage(c *gin.Context) {
	if h.storageService == nil {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Image uploads are not available", nil)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "Image file is required", nil)
		return
	}
	defer file.Close()

	result, err := h.storageService.UploadImage(file, header, h.storageService.DefaultUploadOptions("products"))
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, result)
}
