package service

import (
	"context"

	"github.com/zainhoda/sij-manager-sub003/internal/contract"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
	"github.com/zainhoda/sij-manager-sub003/internal/repository"
)

type workerService struct {
	workers   repository.WorkerRepo
	equipment repository.EquipmentRepo
}

func NewWorkerService(workers repository.WorkerRepo, equipment repository.EquipmentRepo) WorkerService {
	return &workerService{workers: workers, equipment: equipment}
}

func validWorkerStatus(s domain.WorkerStatus) bool {
	switch s {
	case domain.WorkerActive, domain.WorkerInactive, domain.WorkerOnLeave:
		return true
	}
	return false
}

func (s *workerService) Create(ctx context.Context, w *domain.Worker) error {
	if w.Name == "" {
		return contract.NewValidationError("worker name is required")
	}
	if w.Status == "" {
		w.Status = domain.WorkerActive
	}
	if !validWorkerStatus(w.Status) {
		return contract.NewValidationError("unknown worker status %q", w.Status)
	}
	return s.workers.Create(ctx, w)
}

func (s *workerService) GetByID(ctx context.Context, id int64) (*domain.Worker, error) {
	return s.workers.GetByID(ctx, id)
}

func (s *workerService) List(ctx context.Context, includeInactive bool) ([]*domain.Worker, error) {
	return s.workers.List(ctx, includeInactive)
}

func (s *workerService) Update(ctx context.Context, w *domain.Worker) error {
	if w.Name == "" {
		return contract.NewValidationError("worker name is required")
	}
	if !validWorkerStatus(w.Status) {
		return contract.NewValidationError("unknown worker status %q", w.Status)
	}
	return s.workers.Update(ctx, w)
}

func (s *workerService) Delete(ctx context.Context, id int64) error {
	return s.workers.Delete(ctx, id)
}

func (s *workerService) Certify(ctx context.Context, c *domain.EquipmentCertification) error {
	if _, err := s.workers.GetByID(ctx, c.WorkerID); err != nil {
		return err
	}
	if _, err := s.equipment.GetByID(ctx, c.EquipmentID); err != nil {
		return err
	}
	if c.ExpiresAt != nil && !c.ExpiresAt.After(c.CertifiedAt) {
		return contract.NewValidationError("certification expires before it is granted")
	}
	return s.workers.CreateCertification(ctx, c)
}

func (s *workerService) Decertify(ctx context.Context, workerID, equipmentID int64) error {
	return s.workers.DeleteCertification(ctx, workerID, equipmentID)
}

func (s *workerService) ListCertifications(ctx context.Context) ([]domain.EquipmentCertification, error) {
	return s.workers.ListCertifications(ctx)
}
