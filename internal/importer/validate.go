package importer

import (
	"fmt"
	"time"

	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

var (
	validEquipmentStatuses = map[string]bool{"available": true, "in_use": true, "maintenance": true, "retired": true}
	validWorkerStatuses    = map[string]bool{"active": true, "inactive": true, "on_leave": true}
	validDemandSources     = map[string]bool{"internal": true, "external_so": true, "external_wo": true}
)

// ValidateDataset checks the dataset for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateDataset(ds *Dataset) []error {
	var errs []error

	equipmentRefs := make(map[string]bool)
	errs = append(errs, validateEquipment(ds.Equipment, equipmentRefs)...)

	productRefs := make(map[string]bool)
	stepRefs := make(map[string]bool)
	errs = append(errs, validateProducts(ds.Products, equipmentRefs, productRefs, stepRefs)...)

	errs = append(errs, validateWorkers(ds.Workers, equipmentRefs, stepRefs)...)
	errs = append(errs, validateDemand(ds.Demand, productRefs)...)

	return errs
}

func validateEquipment(equipment []EquipmentImport, refs map[string]bool) []error {
	var errs []error
	for i, e := range equipment {
		prefix := fmt.Sprintf("equipment[%d]", i)
		if e.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if refs[e.Ref] {
			errs = append(errs, fmt.Errorf("%s: duplicate ref %q", prefix, e.Ref))
		} else {
			refs[e.Ref] = true
		}
		if e.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if e.Status != "" && !validEquipmentStatuses[e.Status] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, e.Status))
		}
		if e.StationCount != nil && *e.StationCount <= 0 {
			errs = append(errs, fmt.Errorf("%s.station_count must be positive", prefix))
		}
	}
	return errs
}

func validateProducts(products []ProductImport, equipmentRefs, productRefs, stepRefs map[string]bool) []error {
	var errs []error
	for i, p := range products {
		prefix := fmt.Sprintf("products[%d]", i)
		if p.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if productRefs[p.Ref] {
			errs = append(errs, fmt.Errorf("%s: duplicate ref %q", prefix, p.Ref))
		} else {
			productRefs[p.Ref] = true
		}
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if len(p.Steps) == 0 {
			errs = append(errs, fmt.Errorf("%s: at least one step is required", prefix))
		}

		localRefs := make(map[string]bool, len(p.Steps))
		for j, s := range p.Steps {
			sp := fmt.Sprintf("%s.steps[%d]", prefix, j)
			if s.Ref == "" {
				errs = append(errs, fmt.Errorf("%s.ref is required", sp))
			} else if stepRefs[s.Ref] {
				errs = append(errs, fmt.Errorf("%s: duplicate ref %q", sp, s.Ref))
			} else {
				stepRefs[s.Ref] = true
				localRefs[s.Ref] = true
			}
			if s.Code == "" {
				errs = append(errs, fmt.Errorf("%s.code is required", sp))
			}
			if !domain.ValidStepCategories[s.Category] {
				errs = append(errs, fmt.Errorf("%s.category: invalid value %q", sp, s.Category))
			}
			if s.TimePerPieceSeconds <= 0 {
				errs = append(errs, fmt.Errorf("%s.time_per_piece_seconds must be positive", sp))
			}
			if s.EquipmentRef != nil && !equipmentRefs[*s.EquipmentRef] {
				errs = append(errs, fmt.Errorf("%s.equipment_ref: unknown equipment %q", sp, *s.EquipmentRef))
			}
		}
		// Dependency refs must stay inside the product.
		for j, s := range p.Steps {
			sp := fmt.Sprintf("%s.steps[%d]", prefix, j)
			for _, dep := range s.DependsOn {
				if dep == s.Ref {
					errs = append(errs, fmt.Errorf("%s: step %q depends on itself", sp, s.Ref))
				} else if !localRefs[dep] {
					errs = append(errs, fmt.Errorf("%s.depends_on: unknown step %q", sp, dep))
				}
			}
		}
	}
	return errs
}

func validateWorkers(workers []WorkerImport, equipmentRefs, stepRefs map[string]bool) []error {
	var errs []error
	workerRefs := make(map[string]bool, len(workers))
	for i, w := range workers {
		prefix := fmt.Sprintf("workers[%d]", i)
		if w.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if workerRefs[w.Ref] {
			errs = append(errs, fmt.Errorf("%s: duplicate ref %q", prefix, w.Ref))
		} else {
			workerRefs[w.Ref] = true
		}
		if w.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if w.Status != "" && !validWorkerStatuses[w.Status] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, w.Status))
		}
		for j, c := range w.Certifications {
			cp := fmt.Sprintf("%s.certifications[%d]", prefix, j)
			if !equipmentRefs[c.EquipmentRef] {
				errs = append(errs, fmt.Errorf("%s.equipment_ref: unknown equipment %q", cp, c.EquipmentRef))
			}
			errs = append(errs, validateOptionalDate(cp+".certified_at", c.CertifiedAt)...)
			errs = append(errs, validateOptionalDate(cp+".expires_at", c.ExpiresAt)...)
		}
		for j, p := range w.Proficiencies {
			pp := fmt.Sprintf("%s.proficiencies[%d]", prefix, j)
			if !stepRefs[p.StepRef] {
				errs = append(errs, fmt.Errorf("%s.step_ref: unknown step %q", pp, p.StepRef))
			}
			if p.Level < domain.MinProficiencyLevel || p.Level > domain.MaxProficiencyLevel {
				errs = append(errs, fmt.Errorf("%s.level must be between 1 and 5", pp))
			}
		}
	}
	return errs
}

func validateDemand(demand []DemandImport, productRefs map[string]bool) []error {
	var errs []error
	for i, d := range demand {
		prefix := fmt.Sprintf("demand[%d]", i)
		if !productRefs[d.ProductRef] {
			errs = append(errs, fmt.Errorf("%s.product_ref: unknown product %q", prefix, d.ProductRef))
		}
		if d.Quantity <= 0 {
			errs = append(errs, fmt.Errorf("%s.quantity must be positive", prefix))
		}
		if d.DueDate == "" {
			errs = append(errs, fmt.Errorf("%s.due_date is required", prefix))
		} else if _, err := time.Parse("2006-01-02", d.DueDate); err != nil {
			errs = append(errs, fmt.Errorf("%s.due_date: invalid date format %q (expected YYYY-MM-DD)", prefix, d.DueDate))
		}
		if d.Source != "" && !validDemandSources[d.Source] {
			errs = append(errs, fmt.Errorf("%s.source: invalid value %q", prefix, d.Source))
		}
		if d.Priority < 0 || d.Priority > 5 {
			errs = append(errs, fmt.Errorf("%s.priority must be between 1 and 5", prefix))
		}
		if d.MinBatchSize < 0 || d.MaxBatchSize < 0 {
			errs = append(errs, fmt.Errorf("%s: batch sizes must not be negative", prefix))
		}
		if d.MaxBatchSize != 0 && d.MinBatchSize > d.MaxBatchSize {
			errs = append(errs, fmt.Errorf("%s: min_batch_size (%d) must be <= max_batch_size (%d)", prefix, d.MinBatchSize, d.MaxBatchSize))
		}
	}
	return errs
}

func validateOptionalDate(field string, v *string) []error {
	if v == nil {
		return nil
	}
	if _, err := time.Parse("2006-01-02", *v); err != nil {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, *v)}
	}
	return nil
}
