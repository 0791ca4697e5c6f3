package service

import (
	"context"

	"github.com/zainhoda/sij-manager-sub003/internal/contract"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
	"github.com/zainhoda/sij-manager-sub003/internal/repository"
)

type productService struct {
	products repository.ProductRepo
}

func NewProductService(products repository.ProductRepo) ProductService {
	return &productService{products: products}
}

func (s *productService) Create(ctx context.Context, p *domain.Product) error {
	if p.Name == "" {
		return contract.NewValidationError("product name is required")
	}
	return s.products.Create(ctx, p)
}

func (s *productService) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *productService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.products.List(ctx)
}

func (s *productService) Update(ctx context.Context, p *domain.Product) error {
	if p.Name == "" {
		return contract.NewValidationError("product name is required")
	}
	return s.products.Update(ctx, p)
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	return s.products.Delete(ctx, id)
}

func (s *productService) AddStep(ctx context.Context, step *domain.ProductStep) error {
	if step.StepCode == "" {
		return contract.NewValidationError("step code is required")
	}
	if !domain.ValidStepCategories[string(step.Category)] {
		return contract.NewValidationError("unknown step category %q", step.Category)
	}
	if step.TimePerPieceSeconds <= 0 {
		return contract.NewValidationError("time per piece must be positive")
	}
	if step.Name == "" {
		step.Name = step.StepCode
	}
	if _, err := s.products.GetByID(ctx, step.ProductID); err != nil {
		return err
	}
	return s.products.CreateStep(ctx, step)
}

func (s *productService) ListSteps(ctx context.Context, productID int64) ([]domain.ProductStep, error) {
	return s.products.ListSteps(ctx, productID)
}

func (s *productService) UpdateStep(ctx context.Context, step *domain.ProductStep) error {
	if !domain.ValidStepCategories[string(step.Category)] {
		return contract.NewValidationError("unknown step category %q", step.Category)
	}
	if step.TimePerPieceSeconds <= 0 {
		return contract.NewValidationError("time per piece must be positive")
	}
	return s.products.UpdateStep(ctx, step)
}

func (s *productService) DeleteStep(ctx context.Context, id int64) error {
	return s.products.DeleteStep(ctx, id)
}

func (s *productService) AddDependency(ctx context.Context, d *domain.StepDependency) error {
	if d.StepID == d.DependsOnStepID {
		return contract.NewValidationError("a step cannot depend on itself")
	}
	if d.Kind == "" {
		d.Kind = domain.DependFinish
	}
	if d.Kind != domain.DependFinish && d.Kind != domain.DependStart {
		return contract.NewValidationError("unknown dependency kind %q", d.Kind)
	}
	step, err := s.products.GetStep(ctx, d.StepID)
	if err != nil {
		return err
	}
	dep, err := s.products.GetStep(ctx, d.DependsOnStepID)
	if err != nil {
		return err
	}
	if step.ProductID != dep.ProductID {
		return contract.NewValidationError("dependency crosses products %d and %d", step.ProductID, dep.ProductID)
	}
	return s.products.CreateDependency(ctx, d)
}

func (s *productService) RemoveDependency(ctx context.Context, stepID, dependsOnStepID int64) error {
	return s.products.DeleteDependency(ctx, stepID, dependsOnStepID)
}

func (s *productService) ListDependencies(ctx context.Context, productID int64) ([]domain.StepDependency, error) {
	return s.products.ListDependencies(ctx, productID)
}

func (s *productService) CreateBuildVersion(ctx context.Context, v *domain.BuildVersion) error {
	if v.Name == "" {
		return contract.NewValidationError("build version name is required")
	}
	if v.Status == "" {
		v.Status = domain.BuildDraft
	}
	if _, err := s.products.GetByID(ctx, v.ProductID); err != nil {
		return err
	}
	for _, stepID := range v.StepIDs {
		step, err := s.products.GetStep(ctx, stepID)
		if err != nil {
			return err
		}
		if step.ProductID != v.ProductID {
			return contract.NewValidationError("step %d belongs to another product", stepID)
		}
	}
	return s.products.CreateBuildVersion(ctx, v)
}

func (s *productService) ListBuildVersions(ctx context.Context, productID int64) ([]domain.BuildVersion, error) {
	return s.products.ListBuildVersions(ctx, productID)
}

func (s *productService) SetDefaultBuildVersion(ctx context.Context, productID, versionID int64) error {
	return s.products.SetDefaultBuildVersion(ctx, productID, versionID)
}
