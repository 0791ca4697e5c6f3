package testutil

import (
	"time"

	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

// Worker options
type WorkerOption func(*domain.Worker)

func WithWorkerStatus(s domain.WorkerStatus) WorkerOption {
	return func(w *domain.Worker) {
		w.Status = s
	}
}

func WithEmployeeID(id string) WorkerOption {
	return func(w *domain.Worker) {
		w.EmployeeID = &id
	}
}

func WithCostPerHour(c float64) WorkerOption {
	return func(w *domain.Worker) {
		w.CostPerHour = &c
	}
}

func WithWorkerCategory(cat string) WorkerOption {
	return func(w *domain.Worker) {
		w.WorkCategory = &cat
	}
}

func NewTestWorker(name string, opts ...WorkerOption) *domain.Worker {
	w := &domain.Worker{
		Name:   name,
		Status: domain.WorkerActive,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ProductStep options
type StepOption func(*domain.ProductStep)

func WithCategory(c domain.StepCategory) StepOption {
	return func(s *domain.ProductStep) {
		s.Category = c
	}
}

func WithSequence(n int) StepOption {
	return func(s *domain.ProductStep) {
		s.Sequence = n
	}
}

func WithEquipment(id int64) StepOption {
	return func(s *domain.ProductStep) {
		s.EquipmentID = &id
	}
}

func WithTimePerPiece(seconds int) StepOption {
	return func(s *domain.ProductStep) {
		s.TimePerPieceSeconds = seconds
	}
}

func NewTestStep(productID int64, code string, opts ...StepOption) *domain.ProductStep {
	s := &domain.ProductStep{
		ProductID:           productID,
		Name:                code,
		StepCode:            code,
		Category:            domain.CategorySewing,
		TimePerPieceSeconds: 60,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DemandEntry options
type DemandOption func(*domain.DemandEntry)

func WithPriority(p int) DemandOption {
	return func(d *domain.DemandEntry) {
		d.Priority = p
	}
}

func WithDemandStatus(s domain.DemandStatus) DemandOption {
	return func(d *domain.DemandEntry) {
		d.Status = s
	}
}

func WithBatchSizes(min, max int) DemandOption {
	return func(d *domain.DemandEntry) {
		d.MinBatchSize = min
		d.MaxBatchSize = max
	}
}

func WithBuildVersion(id int64) DemandOption {
	return func(d *domain.DemandEntry) {
		d.BuildVersionID = &id
	}
}

func WithSource(s domain.DemandSource) DemandOption {
	return func(d *domain.DemandEntry) {
		d.Source = s
	}
}

func NewTestDemand(productID int64, quantity int, dueDate time.Time, opts ...DemandOption) *domain.DemandEntry {
	d := &domain.DemandEntry{
		Source:    domain.SourceInternal,
		ProductID: productID,
		Quantity:  quantity,
		DueDate:   dueDate,
		Priority:  3,
		Status:    domain.DemandPending,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Equipment options
type EquipmentOption func(*domain.Equipment)

func WithEquipmentStatus(s domain.EquipmentStatus) EquipmentOption {
	return func(e *domain.Equipment) {
		e.Status = s
	}
}

func WithStationCount(n int) EquipmentOption {
	return func(e *domain.Equipment) {
		e.StationCount = &n
	}
}

func WithEquipmentHourlyCost(c float64) EquipmentOption {
	return func(e *domain.Equipment) {
		e.HourlyCost = &c
	}
}

func NewTestEquipment(name string, opts ...EquipmentOption) *domain.Equipment {
	e := &domain.Equipment{
		Name:   name,
		Status: domain.EquipmentAvailable,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func NewTestProduct(name string) *domain.Product {
	return &domain.Product{Name: name}
}

// NewTestCertification returns a certification valid from a year ago with no
// expiry unless one is given.
func NewTestCertification(workerID, equipmentID int64, expiresAt *time.Time) *domain.EquipmentCertification {
	return &domain.EquipmentCertification{
		WorkerID:    workerID,
		EquipmentID: equipmentID,
		CertifiedAt: time.Now().UTC().AddDate(-1, 0, 0),
		ExpiresAt:   expiresAt,
	}
}
