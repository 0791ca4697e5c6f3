package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zainhoda/sij-manager-sub003/internal/contract"
	"github.com/zainhoda/sij-manager-sub003/internal/db"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

type SQLiteDemandRepo struct {
	db db.DBTX
}

func NewSQLiteDemandRepo(dbtx db.DBTX) *SQLiteDemandRepo {
	return &SQLiteDemandRepo{db: dbtx}
}

const demandColumns = `id, source, product_id, build_version_id, quantity, due_date, customer_name, priority, status, min_batch_size, max_batch_size, created_at, updated_at`

func (r *SQLiteDemandRepo) Create(ctx context.Context, d *domain.DemandEntry) error {
	now := time.Now().UTC()
	d.CreatedAt, d.UpdatedAt = now, now
	if d.Source == "" {
		d.Source = domain.SourceInternal
	}
	if d.Status == "" {
		d.Status = domain.DemandPending
	}
	if d.Priority == 0 {
		d.Priority = 3
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO demand_entries (source, product_id, build_version_id, quantity, due_date, customer_name, priority, status, min_batch_size, max_batch_size, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(d.Source), d.ProductID, nullableInt64(d.BuildVersionID), d.Quantity,
		d.DueDate.Format(dateLayout), nullableString(d.CustomerName), d.Priority, string(d.Status),
		d.MinBatchSize, d.MaxBatchSize, now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting demand entry: %w", err)
	}
	d.ID, err = res.LastInsertId()
	return err
}

func (r *SQLiteDemandRepo) GetByID(ctx context.Context, id int64) (*domain.DemandEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+demandColumns+` FROM demand_entries WHERE id = ?`, id)
	d, err := scanDemand(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &contract.NotFoundError{Entity: "demand entry", ID: id}
	}
	return d, err
}

func (r *SQLiteDemandRepo) List(ctx context.Context, filter DemandFilter) ([]domain.DemandEntry, error) {
	query := `SELECT ` + demandColumns + ` FROM demand_entries`
	var conds []string
	var args []any
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.ProductID != 0 {
		conds = append(conds, "product_id = ?")
		args = append(args, filter.ProductID)
	}
	if filter.DueBefore != nil {
		conds = append(conds, "due_date <= ?")
		args = append(args, filter.DueBefore.Format(dateLayout))
	}
	if len(filter.IDs) > 0 {
		conds = append(conds, "id IN ("+placeholders(len(filter.IDs))+")")
		args = append(args, int64Args(filter.IDs)...)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing demand entries: %w", err)
	}
	defer rows.Close()

	var out []domain.DemandEntry
	for rows.Next() {
		d, err := scanDemand(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *SQLiteDemandRepo) Update(ctx context.Context, d *domain.DemandEntry) error {
	d.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE demand_entries SET source = ?, product_id = ?, build_version_id = ?, quantity = ?, due_date = ?, customer_name = ?, priority = ?, status = ?, min_batch_size = ?, max_batch_size = ?, updated_at = ?
		WHERE id = ?`,
		string(d.Source), d.ProductID, nullableInt64(d.BuildVersionID), d.Quantity,
		d.DueDate.Format(dateLayout), nullableString(d.CustomerName), d.Priority, string(d.Status),
		d.MinBatchSize, d.MaxBatchSize, d.UpdatedAt.Format(time.RFC3339), d.ID)
	if err != nil {
		return fmt.Errorf("updating demand entry: %w", err)
	}
	return requireRow(res, "demand entry", d.ID)
}

func (r *SQLiteDemandRepo) UpdateStatus(ctx context.Context, id int64, status domain.DemandStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE demand_entries SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating demand status: %w", err)
	}
	return requireRow(res, "demand entry", id)
}

func (r *SQLiteDemandRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM demand_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting demand entry: %w", err)
	}
	return requireRow(res, "demand entry", id)
}

func scanDemand(scan func(dest ...any) error) (*domain.DemandEntry, error) {
	var d domain.DemandEntry
	var source, status, due, created, updated string
	var buildVersionID sql.NullInt64
	var customer sql.NullString
	if err := scan(&d.ID, &source, &d.ProductID, &buildVersionID, &d.Quantity, &due, &customer,
		&d.Priority, &status, &d.MinBatchSize, &d.MaxBatchSize, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning demand entry: %w", err)
	}
	d.Source = domain.DemandSource(source)
	d.Status = domain.DemandStatus(status)
	d.BuildVersionID = int64Ptr(buildVersionID)
	d.CustomerName = stringPtr(customer)
	d.DueDate, _ = time.Parse(dateLayout, due)
	d.CreatedAt, _ = time.Parse(time.RFC3339, created)
	d.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &d, nil
}
