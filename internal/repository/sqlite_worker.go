package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zainhoda/sij-manager-sub003/internal/contract"
	"github.com/zainhoda/sij-manager-sub003/internal/db"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

// SQLiteWorkerRepo implements WorkerRepo, including the certification book.
type SQLiteWorkerRepo struct {
	db db.DBTX
}

func NewSQLiteWorkerRepo(dbtx db.DBTX) *SQLiteWorkerRepo {
	return &SQLiteWorkerRepo{db: dbtx}
}

const workerColumns = `id, name, employee_id, status, work_category, cost_per_hour, created_at, updated_at`

func (r *SQLiteWorkerRepo) Create(ctx context.Context, w *domain.Worker) error {
	now := time.Now().UTC()
	w.CreatedAt, w.UpdatedAt = now, now
	if w.Status == "" {
		w.Status = domain.WorkerActive
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO workers (name, employee_id, status, work_category, cost_per_hour, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		w.Name, nullableString(w.EmployeeID), string(w.Status), nullableString(w.WorkCategory),
		nullableFloat(w.CostPerHour), now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return contract.NewConflictError("employee id %q already in use", deref(w.EmployeeID))
		}
		return fmt.Errorf("inserting worker: %w", err)
	}
	w.ID, err = res.LastInsertId()
	return err
}

func (r *SQLiteWorkerRepo) GetByID(ctx context.Context, id int64) (*domain.Worker, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+workerColumns+` FROM workers WHERE id = ?`, id)
	w, err := scanWorker(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &contract.NotFoundError{Entity: "worker", ID: id}
	}
	return w, err
}

func (r *SQLiteWorkerRepo) List(ctx context.Context, includeInactive bool) ([]*domain.Worker, error) {
	query := `SELECT ` + workerColumns + ` FROM workers ORDER BY id`
	if !includeInactive {
		query = `SELECT ` + workerColumns + ` FROM workers WHERE status = 'active' ORDER BY id`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing workers: %w", err)
	}
	defer rows.Close()

	var out []*domain.Worker
	for rows.Next() {
		w, err := scanWorker(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *SQLiteWorkerRepo) ListActive(ctx context.Context) ([]domain.Worker, error) {
	ptrs, err := r.List(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Worker, len(ptrs))
	for i, w := range ptrs {
		out[i] = *w
	}
	return out, nil
}

func (r *SQLiteWorkerRepo) Update(ctx context.Context, w *domain.Worker) error {
	w.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE workers SET name = ?, employee_id = ?, status = ?, work_category = ?, cost_per_hour = ?, updated_at = ?
		WHERE id = ?`,
		w.Name, nullableString(w.EmployeeID), string(w.Status), nullableString(w.WorkCategory),
		nullableFloat(w.CostPerHour), w.UpdatedAt.Format(time.RFC3339), w.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return contract.NewConflictError("employee id %q already in use", deref(w.EmployeeID))
		}
		return fmt.Errorf("updating worker: %w", err)
	}
	return requireRow(res, "worker", w.ID)
}

func (r *SQLiteWorkerRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM workers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting worker: %w", err)
	}
	return requireRow(res, "worker", id)
}

func (r *SQLiteWorkerRepo) CreateCertification(ctx context.Context, c *domain.EquipmentCertification) error {
	if c.CertifiedAt.IsZero() {
		c.CertifiedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO equipment_certifications (worker_id, equipment_id, certified_at, expires_at)
		VALUES (?, ?, ?, ?)`,
		c.WorkerID, c.EquipmentID, c.CertifiedAt.Format(time.RFC3339),
		nullableTimeToString(c.ExpiresAt, time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return contract.NewConflictError(
				"worker %d already holds a certification for equipment %d", c.WorkerID, c.EquipmentID)
		}
		return fmt.Errorf("inserting certification: %w", err)
	}
	c.ID, err = res.LastInsertId()
	return err
}

func (r *SQLiteWorkerRepo) ListCertifications(ctx context.Context) ([]domain.EquipmentCertification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, worker_id, equipment_id, certified_at, expires_at
		FROM equipment_certifications ORDER BY worker_id, equipment_id`)
	if err != nil {
		return nil, fmt.Errorf("listing certifications: %w", err)
	}
	defer rows.Close()

	var out []domain.EquipmentCertification
	for rows.Next() {
		var c domain.EquipmentCertification
		var certified string
		var expires sql.NullString
		if err := rows.Scan(&c.ID, &c.WorkerID, &c.EquipmentID, &certified, &expires); err != nil {
			return nil, fmt.Errorf("scanning certification: %w", err)
		}
		c.CertifiedAt, _ = time.Parse(time.RFC3339, certified)
		c.ExpiresAt = parseNullableTime(expires, time.RFC3339)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteWorkerRepo) DeleteCertification(ctx context.Context, workerID, equipmentID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM equipment_certifications WHERE worker_id = ? AND equipment_id = ?`,
		workerID, equipmentID)
	if err != nil {
		return fmt.Errorf("deleting certification: %w", err)
	}
	return requireRow(res, "certification for worker", workerID)
}

func scanWorker(scan func(dest ...any) error) (*domain.Worker, error) {
	var w domain.Worker
	var status, created, updated string
	var employeeID, workCategory sql.NullString
	var cost sql.NullFloat64
	if err := scan(&w.ID, &w.Name, &employeeID, &status, &workCategory, &cost, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning worker: %w", err)
	}
	w.EmployeeID = stringPtr(employeeID)
	w.Status = domain.WorkerStatus(status)
	w.WorkCategory = stringPtr(workCategory)
	w.CostPerHour = floatPtr(cost)
	w.CreatedAt, _ = time.Parse(time.RFC3339, created)
	w.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &w, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
