package models

import "github.com/google/uuid"

type Branch struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Products []Product `json:"products"`
}

func NewBranch(name string) Branch {
	return Branch{
		ID:       uuid.NewString(),
		Name:     name,
		Products: []Product{},
	}
}

// FindProduct returns a pointer into the branch's product slice so callers can
// mutate the product in place. First match wins when ids are duplicated.
func (b *Branch) FindProduct(productID string) (*Product, bool) {
	for i := range b.Products {
		if b.Products[i].ID == productID {
			return &b.Products[i], true
		}
	}
	return nil, false
}

func (b *Branch) AddProduct(p Product) {
	b.Products = append(b.Products, p)
}

// RemoveProduct deletes the first product with the given id and reports
// whether anything was removed.
func (b *Branch) RemoveProduct(productID string) bool {
	for i := range b.Products {
		if b.Products[i].ID == productID {
			b.Products = append(b.Products[:i], b.Products[i+1:]...)
			return true
		}
	}
	return false
}

// ProductWithMaxStock returns the product with the highest stock. On ties the
// earliest product in sequence order wins. ok is false for an empty branch.
func (b *Branch) ProductWithMaxStock() (Product, bool) {
	if len(b.Products) == 0 {
		return Product{}, false
	}
	best := 0
	for i := 1; i < len(b.Products); i++ {
		if b.Products[i].Stock > b.Products[best].Stock {
			best = i
		}
	}
	return b.Products[best], true
}
