package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/zainhoda/sij-manager-sub003/internal/contract"
	"github.com/zainhoda/sij-manager-sub003/internal/db"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

// SQLiteProductRepo implements ProductRepo over a DBTX, so the same code
// serves both plain connections and transactions.
type SQLiteProductRepo struct {
	db db.DBTX
}

func NewSQLiteProductRepo(dbtx db.DBTX) *SQLiteProductRepo {
	return &SQLiteProductRepo{db: dbtx}
}

const stepColumns = `id, product_id, name, step_code, category, time_per_piece_seconds, sequence, equipment_id, work_category, created_at, updated_at`

func (r *SQLiteProductRepo) Create(ctx context.Context, p *domain.Product) error {
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO products (name, created_at, updated_at) VALUES (?, ?, ?)`,
		p.Name, now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}
	p.ID, err = res.LastInsertId()
	return err
}

func (r *SQLiteProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM products WHERE id = ?`, id)

	var p domain.Product
	var created, updated string
	if err := row.Scan(&p.ID, &p.Name, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &contract.NotFoundError{Entity: "product", ID: id}
		}
		return nil, fmt.Errorf("scanning product: %w", err)
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, created)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &p, nil
}

func (r *SQLiteProductRepo) List(ctx context.Context) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var out []*domain.Product
	for rows.Next() {
		var p domain.Product
		var created, updated string
		if err := rows.Scan(&p.ID, &p.Name, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		p.CreatedAt, _ = time.Parse(time.RFC3339, created)
		p.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *SQLiteProductRepo) Update(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET name = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.UpdatedAt.Format(time.RFC3339), p.ID)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}
	return requireRow(res, "product", p.ID)
}

func (r *SQLiteProductRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	return requireRow(res, "product", id)
}

func (r *SQLiteProductRepo) CreateStep(ctx context.Context, s *domain.ProductStep) error {
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO product_steps (product_id, name, step_code, category, time_per_piece_seconds, sequence, equipment_id, work_category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ProductID, s.Name, s.StepCode, string(s.Category), s.TimePerPieceSeconds, s.Sequence,
		nullableInt64(s.EquipmentID), nullableString(s.WorkCategory),
		now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting product step: %w", err)
	}
	s.ID, err = res.LastInsertId()
	return err
}

func (r *SQLiteProductRepo) GetStep(ctx context.Context, id int64) (*domain.ProductStep, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+stepColumns+` FROM product_steps WHERE id = ?`, id)
	s, err := scanStep(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &contract.NotFoundError{Entity: "step", ID: id}
	}
	return s, err
}

func (r *SQLiteProductRepo) ListSteps(ctx context.Context, productID int64) ([]domain.ProductStep, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+stepColumns+` FROM product_steps WHERE product_id = ? ORDER BY sequence, id`, productID)
	if err != nil {
		return nil, fmt.Errorf("listing steps: %w", err)
	}
	defer rows.Close()

	var out []domain.ProductStep
	for rows.Next() {
		s, err := scanStep(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *SQLiteProductRepo) UpdateStep(ctx context.Context, s *domain.ProductStep) error {
	s.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE product_steps SET name = ?, step_code = ?, category = ?, time_per_piece_seconds = ?, sequence = ?, equipment_id = ?, work_category = ?, updated_at = ?
		WHERE id = ?`,
		s.Name, s.StepCode, string(s.Category), s.TimePerPieceSeconds, s.Sequence,
		nullableInt64(s.EquipmentID), nullableString(s.WorkCategory),
		s.UpdatedAt.Format(time.RFC3339), s.ID)
	if err != nil {
		return fmt.Errorf("updating step: %w", err)
	}
	return requireRow(res, "step", s.ID)
}

func (r *SQLiteProductRepo) DeleteStep(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM product_steps WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting step: %w", err)
	}
	return requireRow(res, "step", id)
}

func (r *SQLiteProductRepo) CreateDependency(ctx context.Context, d *domain.StepDependency) error {
	if d.Kind == "" {
		d.Kind = domain.DependFinish
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO step_dependencies (step_id, depends_on_step_id, kind) VALUES (?, ?, ?)`,
		d.StepID, d.DependsOnStepID, string(d.Kind))
	if err != nil {
		if isUniqueViolation(err) {
			return contract.NewConflictError("dependency %d -> %d already exists", d.StepID, d.DependsOnStepID)
		}
		return fmt.Errorf("inserting dependency: %w", err)
	}
	d.ID, err = res.LastInsertId()
	return err
}

func (r *SQLiteProductRepo) DeleteDependency(ctx context.Context, stepID, dependsOnStepID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM step_dependencies WHERE step_id = ? AND depends_on_step_id = ?`,
		stepID, dependsOnStepID)
	if err != nil {
		return fmt.Errorf("deleting dependency: %w", err)
	}
	return nil
}

func (r *SQLiteProductRepo) ListDependencies(ctx context.Context, productID int64) ([]domain.StepDependency, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT d.id, d.step_id, d.depends_on_step_id, d.kind
		FROM step_dependencies d
		JOIN product_steps s ON s.id = d.step_id
		WHERE s.product_id = ?
		ORDER BY d.step_id, d.depends_on_step_id`, productID)
	if err != nil {
		return nil, fmt.Errorf("listing dependencies: %w", err)
	}
	defer rows.Close()

	var out []domain.StepDependency
	for rows.Next() {
		var d domain.StepDependency
		var kind string
		if err := rows.Scan(&d.ID, &d.StepID, &d.DependsOnStepID, &kind); err != nil {
			return nil, fmt.Errorf("scanning dependency: %w", err)
		}
		d.Kind = domain.DependencyKind(kind)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *SQLiteProductRepo) GetBOM(ctx context.Context, productID int64, buildVersionID *int64) (*BOM, error) {
	steps, err := r.ListSteps(ctx, productID)
	if err != nil {
		return nil, err
	}

	if buildVersionID != nil {
		ids, err := r.buildVersionStepIDs(ctx, *buildVersionID)
		if err != nil {
			return nil, err
		}
		selected := make(map[int64]bool, len(ids))
		for _, id := range ids {
			selected[id] = true
		}
		var filtered []domain.ProductStep
		for _, s := range steps {
			if selected[s.ID] {
				filtered = append(filtered, s)
			}
		}
		steps = filtered
	}

	deps, err := r.ListDependencies(ctx, productID)
	if err != nil {
		return nil, err
	}
	// Keep only edges between steps in the selection.
	inBOM := make(map[int64]bool, len(steps))
	for _, s := range steps {
		inBOM[s.ID] = true
	}
	var edges []domain.StepDependency
	for _, d := range deps {
		if inBOM[d.StepID] && inBOM[d.DependsOnStepID] {
			edges = append(edges, d)
		}
	}
	return &BOM{Steps: steps, Dependencies: edges}, nil
}

func (r *SQLiteProductRepo) buildVersionStepIDs(ctx context.Context, versionID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT step_id FROM build_version_steps WHERE build_version_id = ? ORDER BY position, step_id`, versionID)
	if err != nil {
		return nil, fmt.Errorf("listing build version steps: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *SQLiteProductRepo) CreateBuildVersion(ctx context.Context, v *domain.BuildVersion) error {
	now := time.Now().UTC()
	v.CreatedAt, v.UpdatedAt = now, now
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO build_versions (product_id, name, status, is_default, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		v.ProductID, v.Name, string(v.Status), boolToInt(v.IsDefault),
		now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting build version: %w", err)
	}
	if v.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	for pos, stepID := range v.StepIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO build_version_steps (build_version_id, step_id, position) VALUES (?, ?, ?)`,
			v.ID, stepID, pos); err != nil {
			return fmt.Errorf("linking build version step %d: %w", stepID, err)
		}
	}
	return nil
}

func (r *SQLiteProductRepo) ListBuildVersions(ctx context.Context, productID int64) ([]domain.BuildVersion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, product_id, name, status, is_default, created_at, updated_at
		FROM build_versions WHERE product_id = ? ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("listing build versions: %w", err)
	}
	defer rows.Close()

	var out []domain.BuildVersion
	for rows.Next() {
		var v domain.BuildVersion
		var status, created, updated string
		var isDefault int
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name, &status, &isDefault, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning build version: %w", err)
		}
		v.Status = domain.BuildVersionStatus(status)
		v.IsDefault = intToBool(isDefault)
		v.CreatedAt, _ = time.Parse(time.RFC3339, created)
		v.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		ids, err := r.buildVersionStepIDs(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].StepIDs = ids
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *SQLiteProductRepo) SetDefaultBuildVersion(ctx context.Context, productID, versionID int64) error {
	now := nowUTC()
	if _, err := r.db.ExecContext(ctx,
		`UPDATE build_versions SET is_default = 0, updated_at = ? WHERE product_id = ?`, now, productID); err != nil {
		return fmt.Errorf("clearing default build version: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE build_versions SET is_default = 1, status = 'active', updated_at = ? WHERE id = ? AND product_id = ?`,
		now, versionID, productID)
	if err != nil {
		return fmt.Errorf("setting default build version: %w", err)
	}
	return requireRow(res, "build version", versionID)
}

func scanStep(scan func(dest ...any) error) (*domain.ProductStep, error) {
	var s domain.ProductStep
	var category, created, updated string
	var equipmentID sql.NullInt64
	var workCategory sql.NullString
	if err := scan(&s.ID, &s.ProductID, &s.Name, &s.StepCode, &category, &s.TimePerPieceSeconds,
		&s.Sequence, &equipmentID, &workCategory, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning step: %w", err)
	}
	s.Category = domain.StepCategory(category)
	s.EquipmentID = int64Ptr(equipmentID)
	s.WorkCategory = stringPtr(workCategory)
	s.CreatedAt, _ = time.Parse(time.RFC3339, created)
	s.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &s, nil
}

// requireRow converts a zero-row write into a NotFoundError.
func requireRow(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &contract.NotFoundError{Entity: entity, ID: id}
	}
	return nil
}
