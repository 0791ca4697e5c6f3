package importer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

// Identifiers are assigned by the database, so conversion keeps the file's
// refs alongside each domain object; the loader resolves them to row ids
// in insertion order (equipment, products+steps, workers, demand).

// ConvertedStep pairs a step row with its ref and dependency refs.
type ConvertedStep struct {
	Ref       string
	DependsOn []string
	// EquipmentRef is resolved to Step.EquipmentID by the loader.
	EquipmentRef *string
	Step         domain.ProductStep
}

type ConvertedProduct struct {
	Ref     string
	Product domain.Product
	Steps   []ConvertedStep
}

type ConvertedWorker struct {
	Ref            string
	Worker         domain.Worker
	Certifications []ConvertedCertification
	Proficiencies  []ProficiencyImport
}

type ConvertedCertification struct {
	EquipmentRef string
	CertifiedAt  time.Time
	ExpiresAt    *time.Time
}

type ConvertedDemand struct {
	ProductRef string
	Demand     domain.DemandEntry
}

type ConvertedEquipment struct {
	Ref       string
	Equipment domain.Equipment
}

// Converted is the validated dataset expressed in domain types, ready for
// a single-transaction load.
type Converted struct {
	BatchTag  string
	Equipment []ConvertedEquipment
	Products  []ConvertedProduct
	Workers   []ConvertedWorker
	Demand    []ConvertedDemand
}

// Convert transforms a validated Dataset into domain objects. Call
// ValidateDataset first; Convert assumes the dataset is valid.
func Convert(ds *Dataset) (*Converted, error) {
	out := &Converted{BatchTag: ds.BatchTag}
	if out.BatchTag == "" {
		out.BatchTag = uuid.New().String()
	}

	for _, e := range ds.Equipment {
		status := domain.EquipmentStatus(e.Status)
		if e.Status == "" {
			status = domain.EquipmentAvailable
		}
		out.Equipment = append(out.Equipment, ConvertedEquipment{Ref: e.Ref, Equipment: domain.Equipment{
			Name:         e.Name,
			Status:       status,
			StationCount: e.StationCount,
			HourlyCost:   e.HourlyCost,
		}})
	}

	for _, p := range ds.Products {
		cp := ConvertedProduct{Ref: p.Ref, Product: domain.Product{Name: p.Name}}
		for _, s := range p.Steps {
			name := s.Name
			if name == "" {
				name = s.Code
			}
			cp.Steps = append(cp.Steps, ConvertedStep{
				Ref:          s.Ref,
				DependsOn:    s.DependsOn,
				EquipmentRef: s.EquipmentRef,
				Step: domain.ProductStep{
					Name:                name,
					StepCode:            s.Code,
					Category:            domain.StepCategory(s.Category),
					TimePerPieceSeconds: s.TimePerPieceSeconds,
					Sequence:            s.Sequence,
					WorkCategory:        s.WorkCategory,
				},
			})
		}
		out.Products = append(out.Products, cp)
	}

	for _, w := range ds.Workers {
		status := domain.WorkerStatus(w.Status)
		if w.Status == "" {
			status = domain.WorkerActive
		}
		cw := ConvertedWorker{
			Ref: w.Ref,
			Worker: domain.Worker{
				Name:         w.Name,
				EmployeeID:   w.EmployeeID,
				Status:       status,
				WorkCategory: w.WorkCategory,
				CostPerHour:  w.CostPerHour,
			},
			Proficiencies: w.Proficiencies,
		}
		for _, c := range w.Certifications {
			certifiedAt := time.Now().UTC()
			if c.CertifiedAt != nil {
				t, err := time.Parse("2006-01-02", *c.CertifiedAt)
				if err != nil {
					return nil, fmt.Errorf("parsing certified_at: %w", err)
				}
				certifiedAt = t
			}
			var expiresAt *time.Time
			if c.ExpiresAt != nil {
				t, err := time.Parse("2006-01-02", *c.ExpiresAt)
				if err != nil {
					return nil, fmt.Errorf("parsing expires_at: %w", err)
				}
				expiresAt = &t
			}
			cw.Certifications = append(cw.Certifications, ConvertedCertification{
				EquipmentRef: c.EquipmentRef,
				CertifiedAt:  certifiedAt,
				ExpiresAt:    expiresAt,
			})
		}
		out.Workers = append(out.Workers, cw)
	}

	for _, d := range ds.Demand {
		dueDate, err := time.Parse("2006-01-02", d.DueDate)
		if err != nil {
			return nil, fmt.Errorf("parsing due_date: %w", err)
		}
		source := domain.DemandSource(d.Source)
		if d.Source == "" {
			source = domain.SourceInternal
		}
		priority := d.Priority
		if priority == 0 {
			priority = 3
		}
		out.Demand = append(out.Demand, ConvertedDemand{
			ProductRef: d.ProductRef,
			Demand: domain.DemandEntry{
				Source:       source,
				Quantity:     d.Quantity,
				DueDate:      dueDate,
				CustomerName: d.CustomerName,
				Priority:     priority,
				Status:       domain.DemandPending,
				MinBatchSize: d.MinBatchSize,
				MaxBatchSize: d.MaxBatchSize,
			},
		})
	}

	return out, nil
}
