package scheduler

import (
	"sort"
	"time"

	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

// CertKey identifies a (worker, equipment) certification pair.
type CertKey struct {
	WorkerID    int64
	EquipmentID int64
}

// CertIndex maps certification pairs for O(1) lookups during scheduling.
type CertIndex map[CertKey]domain.EquipmentCertification

// BuildCertIndex indexes certifications by (worker, equipment).
func BuildCertIndex(certs []domain.EquipmentCertification) CertIndex {
	idx := make(CertIndex, len(certs))
	for _, c := range certs {
		idx[CertKey{WorkerID: c.WorkerID, EquipmentID: c.EquipmentID}] = c
	}
	return idx
}

// Holds reports whether the worker has a certification for the equipment
// that is valid at asOf.
func (idx CertIndex) Holds(workerID, equipmentID int64, asOf time.Time) bool {
	c, ok := idx[CertKey{WorkerID: workerID, EquipmentID: equipmentID}]
	return ok && c.ValidAt(asOf)
}

// QualifiedWorkers filters workers able to perform the step: active status
// and, when the step requires equipment, a certification valid at asOf.
// Work category is descriptive only and never filters; callers wanting a
// category restriction pre-filter the worker list. The result is sorted by
// worker id for deterministic downstream iteration.
func QualifiedWorkers(step domain.ProductStep, workers []domain.Worker, certs CertIndex, asOf time.Time) []domain.Worker {
	var out []domain.Worker
	for _, w := range workers {
		if w.Status != domain.WorkerActive {
			continue
		}
		if step.EquipmentID != nil && !certs.Holds(w.ID, *step.EquipmentID, asOf) {
			continue
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
