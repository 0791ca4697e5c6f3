package service

import (
	"context"

	"github.com/zainhoda/sij-manager-sub003/internal/contract"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
	"github.com/zainhoda/sij-manager-sub003/internal/repository"
)

type equipmentService struct {
	equipment repository.EquipmentRepo
}

func NewEquipmentService(equipment repository.EquipmentRepo) EquipmentService {
	return &equipmentService{equipment: equipment}
}

func validEquipmentStatus(s domain.EquipmentStatus) bool {
	switch s {
	case domain.EquipmentAvailable, domain.EquipmentInUse, domain.EquipmentMaintenance, domain.EquipmentRetired:
		return true
	}
	return false
}

func (s *equipmentService) Create(ctx context.Context, e *domain.Equipment) error {
	if e.Name == "" {
		return contract.NewValidationError("equipment name is required")
	}
	if e.Status == "" {
		e.Status = domain.EquipmentAvailable
	}
	if !validEquipmentStatus(e.Status) {
		return contract.NewValidationError("unknown equipment status %q", e.Status)
	}
	return s.equipment.Create(ctx, e)
}

func (s *equipmentService) GetByID(ctx context.Context, id int64) (*domain.Equipment, error) {
	return s.equipment.GetByID(ctx, id)
}

func (s *equipmentService) List(ctx context.Context) ([]domain.Equipment, error) {
	return s.equipment.List(ctx)
}

func (s *equipmentService) Update(ctx context.Context, e *domain.Equipment) error {
	if e.Name == "" {
		return contract.NewValidationError("equipment name is required")
	}
	if !validEquipmentStatus(e.Status) {
		return contract.NewValidationError("unknown equipment status %q", e.Status)
	}
	return s.equipment.Update(ctx, e)
}

func (s *equipmentService) Delete(ctx context.Context, id int64) error {
	return s.equipment.Delete(ctx, id)
}
