package models

import "github.com/google/uuid"

type Product struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

func negativeStock() error {
	return &InvalidArgumentError{Field: "stock", Reason: "Stock cannot be negative"}
}

// NewProduct builds a product with a fresh id. Negative initial stock is rejected.
func NewProduct(name string, stock int) (Product, error) {
	if stock < 0 {
		return Product{}, negativeStock()
	}
	return Product{
		ID:    uuid.NewString(),
		Name:  name,
		Stock: stock,
	}, nil
}

// SetStock replaces the stock quantity. A negative value is rejected and the
// product keeps its previous stock.
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return negativeStock()
	}
	p.Stock = stock
	return nil
}
