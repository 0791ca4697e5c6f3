package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zainhoda/sij-manager-sub003/internal/db"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

type SQLiteProficiencyRepo struct {
	db db.DBTX
}

func NewSQLiteProficiencyRepo(dbtx db.DBTX) *SQLiteProficiencyRepo {
	return &SQLiteProficiencyRepo{db: dbtx}
}

// GetLevels returns the stored proficiency rows for the given workers and
// steps. Pairs without a row are simply absent; callers fall back to
// DefaultProficiencyLevel.
func (r *SQLiteProficiencyRepo) GetLevels(ctx context.Context, workerIDs, stepIDs []int64) ([]domain.WorkerProficiency, error) {
	query := `SELECT id, worker_id, step_id, level, updated_at FROM worker_proficiency`
	var clauses []string
	var args []any
	if len(workerIDs) > 0 {
		clauses = append(clauses, `worker_id IN (`+placeholders(len(workerIDs))+`)`)
		args = append(args, int64Args(workerIDs)...)
	}
	if len(stepIDs) > 0 {
		clauses = append(clauses, `step_id IN (`+placeholders(len(stepIDs))+`)`)
		args = append(args, int64Args(stepIDs)...)
	}
	for i, clause := range clauses {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
	}
	query += ` ORDER BY worker_id, step_id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing proficiency levels: %w", err)
	}
	defer rows.Close()

	var out []domain.WorkerProficiency
	for rows.Next() {
		var p domain.WorkerProficiency
		var updated string
		if err := rows.Scan(&p.ID, &p.WorkerID, &p.StepID, &p.Level, &updated); err != nil {
			return nil, fmt.Errorf("scanning proficiency: %w", err)
		}
		p.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLiteProficiencyRepo) Upsert(ctx context.Context, workerID, stepID int64, level int) error {
	if level < domain.MinProficiencyLevel || level > domain.MaxProficiencyLevel {
		return errors.New("proficiency level must be between 1 and 5")
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO worker_proficiency (worker_id, step_id, level, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(worker_id, step_id) DO UPDATE SET level = excluded.level, updated_at = excluded.updated_at`,
		workerID, stepID, level, nowUTC())
	if err != nil {
		return fmt.Errorf("upserting proficiency: %w", err)
	}
	return nil
}

func (r *SQLiteProficiencyRepo) AppendHistory(ctx context.Context, h *domain.ProficiencyHistory) error {
	if h.RecordedAt.IsZero() {
		h.RecordedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO proficiency_history (worker_id, step_id, from_level, to_level, reason, avg_efficiency, sample_size, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		h.WorkerID, h.StepID, h.FromLevel, h.ToLevel, string(h.Reason),
		h.AvgEfficiency, h.SampleSize, h.RecordedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("appending proficiency history: %w", err)
	}
	h.ID, err = res.LastInsertId()
	return err
}

func (r *SQLiteProficiencyRepo) ListHistory(ctx context.Context, workerID int64) ([]domain.ProficiencyHistory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, worker_id, step_id, from_level, to_level, reason, avg_efficiency, sample_size, recorded_at
		FROM proficiency_history WHERE worker_id = ? ORDER BY recorded_at DESC, id DESC`, workerID)
	if err != nil {
		return nil, fmt.Errorf("listing proficiency history: %w", err)
	}
	defer rows.Close()

	var out []domain.ProficiencyHistory
	for rows.Next() {
		var h domain.ProficiencyHistory
		var reason, recorded string
		if err := rows.Scan(&h.ID, &h.WorkerID, &h.StepID, &h.FromLevel, &h.ToLevel, &reason,
			&h.AvgEfficiency, &h.SampleSize, &recorded); err != nil {
			return nil, fmt.Errorf("scanning proficiency history: %w", err)
		}
		h.Reason = domain.AdjustmentReason(reason)
		h.RecordedAt, _ = time.Parse(time.RFC3339, recorded)
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *SQLiteProficiencyRepo) AppendOutput(ctx context.Context, assignmentID int64, output int, recordedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO output_history (assignment_id, output, recorded_at) VALUES (?, ?, ?)`,
		assignmentID, output, recordedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("appending output sample: %w", err)
	}
	return nil
}

func (r *SQLiteProficiencyRepo) ListOutputs(ctx context.Context, assignmentID int64) ([]domain.OutputSample, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, assignment_id, output, recorded_at FROM output_history
		WHERE assignment_id = ? ORDER BY recorded_at, id`, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("listing output samples: %w", err)
	}
	defer rows.Close()

	var out []domain.OutputSample
	for rows.Next() {
		var s domain.OutputSample
		var recorded string
		if err := rows.Scan(&s.ID, &s.AssignmentID, &s.Output, &recorded); err != nil {
			return nil, fmt.Errorf("scanning output sample: %w", err)
		}
		s.RecordedAt, _ = time.Parse(time.RFC3339, recorded)
		out = append(out, s)
	}
	return out, rows.Err()
}
