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

type SQLiteEquipmentRepo struct {
	db db.DBTX
}

func NewSQLiteEquipmentRepo(dbtx db.DBTX) *SQLiteEquipmentRepo {
	return &SQLiteEquipmentRepo{db: dbtx}
}

const equipmentColumns = `id, name, status, station_count, hourly_cost, created_at, updated_at`

func (r *SQLiteEquipmentRepo) Create(ctx context.Context, e *domain.Equipment) error {
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	if e.Status == "" {
		e.Status = domain.EquipmentAvailable
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO equipment (name, status, station_count, hourly_cost, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.Name, string(e.Status), nullableInt(e.StationCount), nullableFloat(e.HourlyCost),
		now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting equipment: %w", err)
	}
	e.ID, err = res.LastInsertId()
	return err
}

func (r *SQLiteEquipmentRepo) GetByID(ctx context.Context, id int64) (*domain.Equipment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+equipmentColumns+` FROM equipment WHERE id = ?`, id)
	e, err := scanEquipment(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &contract.NotFoundError{Entity: "equipment", ID: id}
	}
	return e, err
}

func (r *SQLiteEquipmentRepo) List(ctx context.Context) ([]domain.Equipment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+equipmentColumns+` FROM equipment ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing equipment: %w", err)
	}
	defer rows.Close()

	var out []domain.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *SQLiteEquipmentRepo) Update(ctx context.Context, e *domain.Equipment) error {
	e.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE equipment SET name = ?, status = ?, station_count = ?, hourly_cost = ?, updated_at = ?
		WHERE id = ?`,
		e.Name, string(e.Status), nullableInt(e.StationCount), nullableFloat(e.HourlyCost),
		e.UpdatedAt.Format(time.RFC3339), e.ID)
	if err != nil {
		return fmt.Errorf("updating equipment: %w", err)
	}
	return requireRow(res, "equipment", e.ID)
}

func (r *SQLiteEquipmentRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM equipment WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting equipment: %w", err)
	}
	return requireRow(res, "equipment", id)
}

func scanEquipment(scan func(dest ...any) error) (*domain.Equipment, error) {
	var e domain.Equipment
	var status, created, updated string
	var stations sql.NullInt64
	var cost sql.NullFloat64
	if err := scan(&e.ID, &e.Name, &status, &stations, &cost, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning equipment: %w", err)
	}
	e.Status = domain.EquipmentStatus(status)
	e.StationCount = intPtr(stations)
	e.HourlyCost = floatPtr(cost)
	e.CreatedAt, _ = time.Parse(time.RFC3339, created)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &e, nil
}
