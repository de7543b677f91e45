package dtos

import "time"

type FranchiseRequest struct {
	Name string `json:"name" binding:"required,notblank"`
}

type BranchRequest struct {
	Name string `json:"name" binding:"required,notblank"`
}

// ProductRequest uses a pointer for stock so that an omitted value is
// rejected instead of defaulting to zero.
type ProductRequest struct {
	Name  string `json:"name" binding:"required,notblank"`
	Stock *int   `json:"stock" binding:"required,min=0"`
}

type UpdateStockRequest struct {
	Stock *int `json:"stock" binding:"required,min=0"`
}

type UpdateNameRequest struct {
	Name string `json:"name" binding:"required,notblank"`
}

type TopProductResponse struct {
	BranchID    string `json:"branchId"`
	BranchName  string `json:"branchName"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Stock       int    `json:"stock"`
}

type ErrorResponse struct {
	Status           int               `json:"status"`
	Error            string            `json:"error"`
	Message          string            `json:"message"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}
