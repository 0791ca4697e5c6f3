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

type SQLitePlanTaskRepo struct {
	db db.DBTX
}

func NewSQLitePlanTaskRepo(dbtx db.DBTX) *SQLitePlanTaskRepo {
	return &SQLitePlanTaskRepo{db: dbtx}
}

const taskColumns = `id, run_id, demand_id, step_id, batch_number, batch_quantity, date,
	start_min, end_min, planned_output, status, actual_output, is_overtime, completed_at,
	created_at, updated_at`

func (r *SQLitePlanTaskRepo) Create(ctx context.Context, t *domain.PlanTask) error {
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	if t.Status == "" {
		t.Status = domain.TaskScheduled
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO plan_tasks (run_id, demand_id, step_id, batch_number, batch_quantity, date,
			start_min, end_min, planned_output, status, actual_output, is_overtime, completed_at,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.RunID, t.DemandID, t.StepID, t.BatchNumber, t.BatchQuantity, t.Date.Format(dateLayout),
		t.StartMin, t.EndMin, t.PlannedOutput, string(t.Status), t.ActualOutput,
		boolToInt(t.IsOvertime), nullableTimeToString(t.CompletedAt, time.RFC3339),
		now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting plan task: %w", err)
	}
	if t.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	for _, workerID := range t.WorkerIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO plan_task_workers (task_id, worker_id) VALUES (?, ?)`,
			t.ID, workerID); err != nil {
			return fmt.Errorf("assigning worker %d to task %d: %w", workerID, t.ID, err)
		}
	}
	return nil
}

func (r *SQLitePlanTaskRepo) GetByID(ctx context.Context, id int64) (*domain.PlanTask, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM plan_tasks WHERE id = ?`, id)
	t, err := scanTask(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &contract.NotFoundError{Entity: "plan task", ID: id}
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadWorkers(ctx, []*domain.PlanTask{t}); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *SQLitePlanTaskRepo) ListByDemand(ctx context.Context, demandID int64) ([]domain.PlanTask, error) {
	return r.list(ctx,
		`SELECT `+taskColumns+` FROM plan_tasks WHERE demand_id = ? ORDER BY date, start_min, id`, demandID)
}

func (r *SQLitePlanTaskRepo) ListByRun(ctx context.Context, runID int64) ([]domain.PlanTask, error) {
	return r.list(ctx,
		`SELECT `+taskColumns+` FROM plan_tasks WHERE run_id = ? ORDER BY date, start_min, id`, runID)
}

func (r *SQLitePlanTaskRepo) ListCompletedSince(ctx context.Context, since time.Time) ([]domain.PlanTask, error) {
	return r.list(ctx,
		`SELECT `+taskColumns+` FROM plan_tasks
		WHERE status = 'completed' AND completed_at >= ? ORDER BY completed_at, id`,
		since.UTC().Format(time.RFC3339))
}

func (r *SQLitePlanTaskRepo) list(ctx context.Context, query string, args ...any) ([]domain.PlanTask, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing plan tasks: %w", err)
	}
	defer rows.Close()

	var ptrs []*domain.PlanTask
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		ptrs = append(ptrs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadWorkers(ctx, ptrs); err != nil {
		return nil, err
	}
	out := make([]domain.PlanTask, len(ptrs))
	for i, t := range ptrs {
		out[i] = *t
	}
	return out, nil
}

func (r *SQLitePlanTaskRepo) RecordProgress(ctx context.Context, id int64, status domain.PlanTaskStatus, actualOutput int, completedAt *time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE plan_tasks SET status = ?, actual_output = ?, completed_at = ?, updated_at = ? WHERE id = ?`,
		string(status), actualOutput, nullableTimeToString(completedAt, time.RFC3339), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("recording task progress: %w", err)
	}
	return requireRow(res, "plan task", id)
}

func (r *SQLitePlanTaskRepo) DeleteNonCompleted(ctx context.Context, demandID int64) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM plan_tasks WHERE demand_id = ? AND status != 'completed'`, demandID)
	if err != nil {
		return 0, fmt.Errorf("deleting open tasks for demand %d: %w", demandID, err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *SQLitePlanTaskRepo) AnyAcceptedForDemand(ctx context.Context, demandIDs []int64, excludeRunID int64) (bool, error) {
	if len(demandIDs) == 0 {
		return false, nil
	}
	query := `SELECT COUNT(*) FROM plan_tasks WHERE demand_id IN (` + placeholders(len(demandIDs)) + `) AND run_id != ?`
	args := append(int64Args(demandIDs), excludeRunID)
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("checking demand for accepted tasks: %w", err)
	}
	return count > 0, nil
}

// loadWorkers fills WorkerIDs for each task with one query over the join
// table.
func (r *SQLitePlanTaskRepo) loadWorkers(ctx context.Context, tasks []*domain.PlanTask) error {
	if len(tasks) == 0 {
		return nil
	}
	byID := make(map[int64]*domain.PlanTask, len(tasks))
	ids := make([]int64, len(tasks))
	for i, t := range tasks {
		byID[t.ID] = t
		ids[i] = t.ID
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT task_id, worker_id FROM plan_task_workers WHERE task_id IN (`+placeholders(len(ids))+`) ORDER BY task_id, worker_id`,
		int64Args(ids)...)
	if err != nil {
		return fmt.Errorf("loading task workers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var taskID, workerID int64
		if err := rows.Scan(&taskID, &workerID); err != nil {
			return err
		}
		if t, ok := byID[taskID]; ok {
			t.WorkerIDs = append(t.WorkerIDs, workerID)
		}
	}
	return rows.Err()
}

func scanTask(scan func(dest ...any) error) (*domain.PlanTask, error) {
	var t domain.PlanTask
	var date, status, created, updated string
	var overtime int
	var completed sql.NullString
	if err := scan(&t.ID, &t.RunID, &t.DemandID, &t.StepID, &t.BatchNumber, &t.BatchQuantity, &date,
		&t.StartMin, &t.EndMin, &t.PlannedOutput, &status, &t.ActualOutput, &overtime, &completed,
		&created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning plan task: %w", err)
	}
	t.Date, _ = time.Parse(dateLayout, date)
	t.Status = domain.PlanTaskStatus(status)
	t.IsOvertime = intToBool(overtime)
	t.CompletedAt = parseNullableTime(completed, time.RFC3339)
	t.CreatedAt, _ = time.Parse(time.RFC3339, created)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &t, nil
}
