package store

import (
	"context"
	"errors"
	"fmt"

	"franchise-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepository maps aggregates onto franchises, branches and products
// tables. Save rewrites the child rows of one franchise inside a transaction,
// so a single save is atomic but concurrent read-modify-write cycles on the
// same franchise are last-writer-wins.
type GormRepository struct {
	DB *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

func (r *GormRepository) Save(ctx context.Context, f models.Franchise) (models.Franchise, error) {
	saved := f.Clone()
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := FranchiseRecord{ID: saved.ID, Name: saved.Name}
		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
		}).Create(&rec).Error; err != nil {
			return fmt.Errorf("upsert franchise: %w", err)
		}

		if err := tx.Where("franchise_id = ?", saved.ID).Delete(&ProductRecord{}).Error; err != nil {
			return fmt.Errorf("clear products: %w", err)
		}
		if err := tx.Where("franchise_id = ?", saved.ID).Delete(&BranchRecord{}).Error; err != nil {
			return fmt.Errorf("clear branches: %w", err)
		}

		for i, b := range saved.Branches {
			br := BranchRecord{
				FranchiseID: saved.ID,
				BranchID:    b.ID,
				Name:        b.Name,
				Seq:         i,
			}
			if err := tx.Omit(clause.Associations).Create(&br).Error; err != nil {
				return fmt.Errorf("insert branch %s: %w", b.ID, err)
			}
			if len(b.Products) == 0 {
				continue
			}
			products := make([]ProductRecord, 0, len(b.Products))
			for j, p := range b.Products {
				products = append(products, ProductRecord{
					FranchiseID: saved.ID,
					BranchRowID: br.RowID,
					ProductID:   p.ID,
					Name:        p.Name,
					Stock:       p.Stock,
					Seq:         j,
				})
			}
			if err := tx.Create(&products).Error; err != nil {
				return fmt.Errorf("insert products for branch %s: %w", b.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return models.Franchise{}, err
	}
	return saved, nil
}

func (r *GormRepository) FindByID(ctx context.Context, id string) (models.Franchise, bool, error) {
	var rec FranchiseRecord
	err := r.preloaded(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Franchise{}, false, nil
	}
	if err != nil {
		return models.Franchise{}, false, fmt.Errorf("find franchise %s: %w", id, err)
	}
	return toDomain(rec), true, nil
}

func (r *GormRepository) FindAll(ctx context.Context) ([]models.Franchise, error) {
	var recs []FranchiseRecord
	if err := r.preloaded(ctx).Order("created_at ASC").Order("id ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list franchises: %w", err)
	}
	out := make([]models.Franchise, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDomain(rec))
	}
	return out, nil
}

func (r *GormRepository) DeleteByID(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("franchise_id = ?", id).Delete(&ProductRecord{}).Error; err != nil {
			return fmt.Errorf("delete products: %w", err)
		}
		if err := tx.Where("franchise_id = ?", id).Delete(&BranchRecord{}).Error; err != nil {
			return fmt.Errorf("delete branches: %w", err)
		}
		if err := tx.Where("id = ?", id).Delete(&FranchiseRecord{}).Error; err != nil {
			return fmt.Errorf("delete franchise: %w", err)
		}
		return nil
	})
}

func (r *GormRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Preload("Branches", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		}).
		Preload("Branches.Products", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		})
}
