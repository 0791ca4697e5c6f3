package service

import (
	"context"
	"fmt"
	"time"

	"github.com/zainhoda/sij-manager-sub003/internal/contract"
	"github.com/zainhoda/sij-manager-sub003/internal/db"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
	"github.com/zainhoda/sij-manager-sub003/internal/importer"
	"github.com/zainhoda/sij-manager-sub003/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportDataset(ctx context.Context, filePath string) (*ImportResult, error) {
	ds, err := importer.LoadDataset(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading dataset file: %w", err)
	}
	return s.ImportFromDataset(ctx, ds)
}

func (s *importService) ImportFromDataset(ctx context.Context, ds *importer.Dataset) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import-dataset",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if errs := importer.ValidateDataset(ds); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	converted, err := importer.Convert(ds)
	if err != nil {
		return nil, fmt.Errorf("converting dataset: %w", err)
	}

	result = &ImportResult{BatchTag: converted.BatchTag}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		products := repository.NewSQLiteProductRepo(tx)
		workers := repository.NewSQLiteWorkerRepo(tx)
		equipment := repository.NewSQLiteEquipmentRepo(tx)
		demand := repository.NewSQLiteDemandRepo(tx)
		profic := repository.NewSQLiteProficiencyRepo(tx)

		equipmentIDs := make(map[string]int64, len(converted.Equipment))
		for _, e := range converted.Equipment {
			row := e.Equipment
			if err := equipment.Create(ctx, &row); err != nil {
				return fmt.Errorf("creating equipment %q: %w", row.Name, err)
			}
			equipmentIDs[e.Ref] = row.ID
			result.Equipment++
		}

		productIDs := make(map[string]int64, len(converted.Products))
		stepIDs := make(map[string]int64)
		for _, p := range converted.Products {
			prod := p.Product
			if err := products.Create(ctx, &prod); err != nil {
				return fmt.Errorf("creating product %q: %w", prod.Name, err)
			}
			productIDs[p.Ref] = prod.ID
			result.Products++

			for _, cs := range p.Steps {
				step := cs.Step
				step.ProductID = prod.ID
				if cs.EquipmentRef != nil {
					id := equipmentIDs[*cs.EquipmentRef]
					step.EquipmentID = &id
				}
				if err := products.CreateStep(ctx, &step); err != nil {
					return fmt.Errorf("creating step %q: %w", step.StepCode, err)
				}
				stepIDs[cs.Ref] = step.ID
				result.Steps++
			}
			// Dependency edges need every step id of the product first.
			for _, cs := range p.Steps {
				for _, depRef := range cs.DependsOn {
					dep := &domain.StepDependency{
						StepID:          stepIDs[cs.Ref],
						DependsOnStepID: stepIDs[depRef],
					}
					if err := products.CreateDependency(ctx, dep); err != nil {
						return fmt.Errorf("creating dependency %s -> %s: %w", cs.Ref, depRef, err)
					}
				}
			}
		}

		for _, w := range converted.Workers {
			row := w.Worker
			if err := workers.Create(ctx, &row); err != nil {
				return fmt.Errorf("creating worker %q: %w", row.Name, err)
			}
			result.Workers++

			for _, c := range w.Certifications {
				cert := &domain.EquipmentCertification{
					WorkerID:    row.ID,
					EquipmentID: equipmentIDs[c.EquipmentRef],
					CertifiedAt: c.CertifiedAt,
					ExpiresAt:   c.ExpiresAt,
				}
				if err := workers.CreateCertification(ctx, cert); err != nil {
					return fmt.Errorf("certifying worker %q: %w", row.Name, err)
				}
				result.Certifications++
			}
			for _, p := range w.Proficiencies {
				if err := profic.Upsert(ctx, row.ID, stepIDs[p.StepRef], p.Level); err != nil {
					return fmt.Errorf("seeding proficiency for worker %q: %w", row.Name, err)
				}
			}
		}

		for _, d := range converted.Demand {
			row := d.Demand
			row.ProductID = productIDs[d.ProductRef]
			if err := demand.Create(ctx, &row); err != nil {
				return fmt.Errorf("creating demand for product %q: %w", d.ProductRef, err)
			}
			result.Demand++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["batch_tag"] = result.BatchTag
	fields["products"] = result.Products
	fields["workers"] = result.Workers
	return result, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("dataset validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return contract.NewValidationError("%s", msg)
}
