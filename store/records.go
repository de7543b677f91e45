package store

import (
	"time"

	"franchise-api/models"
)

// FranchiseRecord is the franchises table row. Branch and product rows carry a
// surrogate key because their public ids are only unique by convention.
type FranchiseRecord struct {
	ID        string         `gorm:"type:varchar(36);primaryKey"`
	Name      string         `gorm:"not null"`
	Branches  []BranchRecord `gorm:"foreignKey:FranchiseID;references:ID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (FranchiseRecord) TableName() string { return "franchises" }

type BranchRecord struct {
	RowID       uint            `gorm:"primaryKey;autoIncrement"`
	FranchiseID string          `gorm:"type:varchar(36);not null;index"`
	BranchID    string          `gorm:"type:varchar(36);not null"`
	Name        string          `gorm:"not null"`
	Seq         int             `gorm:"not null"`
	Products    []ProductRecord `gorm:"foreignKey:BranchRowID;references:RowID"`
}

func (BranchRecord) TableName() string { return "branches" }

type ProductRecord struct {
	RowID       uint   `gorm:"primaryKey;autoIncrement"`
	FranchiseID string `gorm:"type:varchar(36);not null;index"`
	BranchRowID uint   `gorm:"not null;index"`
	ProductID   string `gorm:"type:varchar(36);not null"`
	Name        string `gorm:"not null"`
	Stock       int    `gorm:"not null;default:0"`
	Seq         int    `gorm:"not null"`
}

func (ProductRecord) TableName() string { return "products" }

// Records lists the row types for migrations.
func Records() []interface{} {
	return []interface{}{&FranchiseRecord{}, &BranchRecord{}, &ProductRecord{}}
}

func toDomain(rec FranchiseRecord) models.Franchise {
	f := models.Franchise{
		ID:       rec.ID,
		Name:     rec.Name,
		Branches: make([]models.Branch, 0, len(rec.Branches)),
	}
	for _, br := range rec.Branches {
		b := models.Branch{
			ID:       br.BranchID,
			Name:     br.Name,
			Products: make([]models.Product, 0, len(br.Products)),
		}
		for _, pr := range br.Products {
			b.Products = append(b.Products, models.Product{
				ID:    pr.ProductID,
				Name:  pr.Name,
				Stock: pr.Stock,
			})
		}
		f.Branches = append(f.Branches, b)
	}
	return f
}
