package service

import (
	"context"

	"github.com/zainhoda/sij-manager-sub003/internal/contract"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
	"github.com/zainhoda/sij-manager-sub003/internal/repository"
)

type demandService struct {
	demand   repository.DemandRepo
	products repository.ProductRepo
}

func NewDemandService(demand repository.DemandRepo, products repository.ProductRepo) DemandService {
	return &demandService{demand: demand, products: products}
}

func (s *demandService) validate(ctx context.Context, d *domain.DemandEntry) error {
	if d.Quantity <= 0 {
		return contract.NewValidationError("quantity must be positive")
	}
	if d.DueDate.IsZero() {
		return contract.NewValidationError("due date is required")
	}
	if d.Priority != 0 && (d.Priority < 1 || d.Priority > 5) {
		return contract.NewValidationError("priority must be between 1 and 5")
	}
	if d.MinBatchSize < 0 || d.MaxBatchSize < 0 || d.MaxBatchSize != 0 && d.MinBatchSize > d.MaxBatchSize {
		return contract.NewValidationError("batch size bounds inverted")
	}
	if _, err := s.products.GetByID(ctx, d.ProductID); err != nil {
		return err
	}
	if d.BuildVersionID != nil {
		versions, err := s.products.ListBuildVersions(ctx, d.ProductID)
		if err != nil {
			return err
		}
		found := false
		for _, v := range versions {
			if v.ID == *d.BuildVersionID {
				found = true
				break
			}
		}
		if !found {
			return contract.NewValidationError("build version %d does not belong to product %d", *d.BuildVersionID, d.ProductID)
		}
	}
	return nil
}

func (s *demandService) Create(ctx context.Context, d *domain.DemandEntry) error {
	if err := s.validate(ctx, d); err != nil {
		return err
	}
	return s.demand.Create(ctx, d)
}

func (s *demandService) GetByID(ctx context.Context, id int64) (*domain.DemandEntry, error) {
	return s.demand.GetByID(ctx, id)
}

func (s *demandService) List(ctx context.Context, filter repository.DemandFilter) ([]domain.DemandEntry, error) {
	return s.demand.List(ctx, filter)
}

func (s *demandService) Update(ctx context.Context, d *domain.DemandEntry) error {
	if err := s.validate(ctx, d); err != nil {
		return err
	}
	return s.demand.Update(ctx, d)
}

func (s *demandService) Delete(ctx context.Context, id int64) error {
	return s.demand.Delete(ctx, id)
}
