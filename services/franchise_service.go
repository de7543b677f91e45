// Package services implements the franchise use cases. Every mutation loads
// the whole aggregate, applies exactly one change and saves the whole
// aggregate back. There is no concurrency token: two writers that load the
// same franchise concurrently resolve as last-writer-wins. The load before a
// write skips any read cache, so a write never starts from a copy older than
// the last finished write.
package services

import (
	"context"

	"franchise-api/models"
	"franchise-api/store"

	"go.uber.org/zap"
)

// TopProduct pairs a branch with its best-stocked product.
type TopProduct struct {
	BranchID   string
	BranchName string
	Product    models.Product
}

type FranchiseService struct {
	repo   store.Repository
	logger *zap.Logger
}

func NewFranchiseService(repo store.Repository, logger *zap.Logger) *FranchiseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FranchiseService{repo: repo, logger: logger}
}

func (s *FranchiseService) CreateFranchise(ctx context.Context, name string) (models.Franchise, error) {
	f, err := s.repo.Save(ctx, models.NewFranchise(name))
	if err != nil {
		return models.Franchise{}, err
	}
	s.logger.Debug("franchise created", zap.String("franchise_id", f.ID))
	return f, nil
}

func (s *FranchiseService) GetFranchise(ctx context.Context, franchiseID string) (models.Franchise, error) {
	return s.load(ctx, franchiseID)
}

// ListFranchises returns every stored franchise. The result is never nil.
func (s *FranchiseService) ListFranchises(ctx context.Context) ([]models.Franchise, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if all == nil {
		all = []models.Franchise{}
	}
	return all, nil
}

func (s *FranchiseService) UpdateFranchiseName(ctx context.Context, franchiseID, name string) (models.Franchise, error) {
	f, err := s.loadForUpdate(ctx, franchiseID)
	if err != nil {
		return models.Franchise{}, err
	}
	f.Name = name
	return s.save(ctx, f, "franchise renamed")
}

func (s *FranchiseService) AddBranch(ctx context.Context, franchiseID, name string) (models.Franchise, error) {
	f, err := s.loadForUpdate(ctx, franchiseID)
	if err != nil {
		return models.Franchise{}, err
	}
	f.AddBranch(models.NewBranch(name))
	return s.save(ctx, f, "branch added")
}

func (s *FranchiseService) UpdateBranchName(ctx context.Context, franchiseID, branchID, name string) (models.Franchise, error) {
	f, err := s.loadForUpdate(ctx, franchiseID)
	if err != nil {
		return models.Franchise{}, err
	}
	b, err := findBranch(&f, branchID)
	if err != nil {
		return models.Franchise{}, err
	}
	b.Name = name
	return s.save(ctx, f, "branch renamed")
}

func (s *FranchiseService) AddProduct(ctx context.Context, franchiseID, branchID, name string, stock int) (models.Franchise, error) {
	f, err := s.loadForUpdate(ctx, franchiseID)
	if err != nil {
		return models.Franchise{}, err
	}
	b, err := findBranch(&f, branchID)
	if err != nil {
		return models.Franchise{}, err
	}
	p, err := models.NewProduct(name, stock)
	if err != nil {
		return models.Franchise{}, err
	}
	b.AddProduct(p)
	return s.save(ctx, f, "product added")
}

// DeleteProduct fails with a product NotFoundError, without saving, when the
// branch holds no product with the given id.
func (s *FranchiseService) DeleteProduct(ctx context.Context, franchiseID, branchID, productID string) (models.Franchise, error) {
	f, err := s.loadForUpdate(ctx, franchiseID)
	if err != nil {
		return models.Franchise{}, err
	}
	b, err := findBranch(&f, branchID)
	if err != nil {
		return models.Franchise{}, err
	}
	if !b.RemoveProduct(productID) {
		return models.Franchise{}, models.NewNotFound(models.EntityProduct, productID)
	}
	return s.save(ctx, f, "product deleted")
}

func (s *FranchiseService) UpdateProductStock(ctx context.Context, franchiseID, branchID, productID string, stock int) (models.Franchise, error) {
	f, err := s.loadForUpdate(ctx, franchiseID)
	if err != nil {
		return models.Franchise{}, err
	}
	p, err := findProduct(&f, branchID, productID)
	if err != nil {
		return models.Franchise{}, err
	}
	if err := p.SetStock(stock); err != nil {
		return models.Franchise{}, err
	}
	return s.save(ctx, f, "product stock updated")
}

func (s *FranchiseService) UpdateProductName(ctx context.Context, franchiseID, branchID, productID, name string) (models.Franchise, error) {
	f, err := s.loadForUpdate(ctx, franchiseID)
	if err != nil {
		return models.Franchise{}, err
	}
	p, err := findProduct(&f, branchID, productID)
	if err != nil {
		return models.Franchise{}, err
	}
	p.Name = name
	return s.save(ctx, f, "product renamed")
}

// GetTopProductsByBranch returns, in branch order, the best-stocked product of
// every branch that has at least one product.
func (s *FranchiseService) GetTopProductsByBranch(ctx context.Context, franchiseID string) ([]TopProduct, error) {
	f, err := s.load(ctx, franchiseID)
	if err != nil {
		return nil, err
	}
	out := make([]TopProduct, 0, len(f.Branches))
	for i := range f.Branches {
		p, ok := f.Branches[i].ProductWithMaxStock()
		if !ok {
			continue
		}
		out = append(out, TopProduct{
			BranchID:   f.Branches[i].ID,
			BranchName: f.Branches[i].Name,
			Product:    p,
		})
	}
	return out, nil
}

func (s *FranchiseService) load(ctx context.Context, franchiseID string) (models.Franchise, error) {
	f, found, err := s.repo.FindByID(ctx, franchiseID)
	return requireFound(f, found, err, franchiseID)
}

func (s *FranchiseService) loadForUpdate(ctx context.Context, franchiseID string) (models.Franchise, error) {
	if uf, ok := s.repo.(store.UpdateFinder); ok {
		f, found, err := uf.FindByIDForUpdate(ctx, franchiseID)
		return requireFound(f, found, err, franchiseID)
	}
	return s.load(ctx, franchiseID)
}

func requireFound(f models.Franchise, found bool, err error, franchiseID string) (models.Franchise, error) {
	if err != nil {
		return models.Franchise{}, err
	}
	if !found {
		return models.Franchise{}, models.NewNotFound(models.EntityFranchise, franchiseID)
	}
	return f, nil
}

func (s *FranchiseService) save(ctx context.Context, f models.Franchise, event string) (models.Franchise, error) {
	saved, err := s.repo.Save(ctx, f)
	if err != nil {
		return models.Franchise{}, err
	}
	s.logger.Debug(event, zap.String("franchise_id", saved.ID))
	return saved, nil
}

func findBranch(f *models.Franchise, branchID string) (*models.Branch, error) {
	b, ok := f.FindBranch(branchID)
	if !ok {
		return nil, models.NewNotFound(models.EntityBranch, branchID)
	}
	return b, nil
}

func findProduct(f *models.Franchise, branchID, productID string) (*models.Product, error) {
	b, err := findBranch(f, branchID)
	if err != nil {
		return nil, err
	}
	p, ok := b.FindProduct(productID)
	if !ok {
		return nil, models.NewNotFound(models.EntityProduct, productID)
	}
	return p, nil
}
