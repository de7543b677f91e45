package handlers

import (
	"net/http"

	"franchise-api/dtos"
	"franchise-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FranchiseHandler struct {
	Service *services.FranchiseService
	Logger  *zap.Logger
}

func NewFranchiseHandler(service *services.FranchiseService, logger *zap.Logger) *FranchiseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FranchiseHandler{Service: service, Logger: logger}
}

// ========== Franchises ==========

func (h *FranchiseHandler) CreateFranchise(c *gin.Context) {
	var req dtos.FranchiseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	franchise, err := h.Service.CreateFranchise(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusCreated, franchise)
}

func (h *FranchiseHandler) ListFranchises(c *gin.Context) {
	franchises, err := h.Service.ListFranchises(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, franchises)
}

func (h *FranchiseHandler) GetFranchise(c *gin.Context) {
	franchise, err := h.Service.GetFranchise(c.Request.Context(), c.Param("franchiseId"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, franchise)
}

func (h *FranchiseHandler) UpdateFranchiseName(c *gin.Context) {
	var req dtos.UpdateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	franchise, err := h.Service.UpdateFranchiseName(c.Request.Context(), c.Param("franchiseId"), req.Name)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, franchise)
}

func (h *FranchiseHandler) GetTopProducts(c *gin.Context) {
	top, err := h.Service.GetTopProductsByBranch(c.Request.Context(), c.Param("franchiseId"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, topProductResponses(top))
}

// ========== Branches ==========

func (h *FranchiseHandler) AddBranch(c *gin.Context) {
	var req dtos.BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	franchise, err := h.Service.AddBranch(c.Request.Context(), c.Param("franchiseId"), req.Name)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusCreated, franchise)
}

func (h *FranchiseHandler) UpdateBranchName(c *gin.Context) {
	var req dtos.UpdateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	franchise, err := h.Service.UpdateBranchName(c.Request.Context(),
		c.Param("franchiseId"), c.Param("branchId"), req.Name)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, franchise)
}

// ========== Products ==========

func (h *FranchiseHandler) AddProduct(c *gin.Context) {
	var req dtos.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	franchise, err := h.Service.AddProduct(c.Request.Context(),
		c.Param("franchiseId"), c.Param("branchId"), req.Name, *req.Stock)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusCreated, franchise)
}

func (h *FranchiseHandler) DeleteProduct(c *gin.Context) {
	_, err := h.Service.DeleteProduct(c.Request.Context(),
		c.Param("franchiseId"), c.Param("branchId"), c.Param("productId"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *FranchiseHandler) UpdateProductStock(c *gin.Context) {
	var req dtos.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	franchise, err := h.Service.UpdateProductStock(c.Request.Context(),
		c.Param("franchiseId"), c.Param("branchId"), c.Param("productId"), *req.Stock)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, franchise)
}

func (h *FranchiseHandler) UpdateProductName(c *gin.Context) {
	var req dtos.UpdateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	franchise, err := h.Service.UpdateProductName(c.Request.Context(),
		c.Param("franchiseId"), c.Param("branchId"), c.Param("productId"), req.Name)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.JSON(http.StatusOK, franchise)
}

func topProductResponses(top []services.TopProduct) []dtos.TopProductResponse {
	out := make([]dtos.TopProductResponse, 0, len(top))
	for _, tp := range top {
		out = append(out, dtos.TopProductResponse{
			BranchID:    tp.BranchID,
			BranchName:  tp.BranchName,
			ProductID:   tp.Product.ID,
			ProductName: tp.Product.Name,
			Stock:       tp.Product.Stock,
		})
	}
	return out
}
