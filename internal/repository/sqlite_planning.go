package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zainhoda/sij-manager-sub003/internal/contract"
	"github.com/zainhoda/sij-manager-sub003/internal/db"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

// SQLitePlanningRepo implements PlanningRepo. Scenario schedules are
// stored as JSON columns and parsed back into typed structs at this
// boundary; nothing above it ever sees the serialized form.
type SQLitePlanningRepo struct {
	db db.DBTX
}

func NewSQLitePlanningRepo(dbtx db.DBTX) *SQLitePlanningRepo {
	return &SQLitePlanningRepo{db: dbtx}
}

const runColumns = `id, name, start_date, end_date, status, accepted_scenario_id, created_by, created_at, updated_at`

func (r *SQLitePlanningRepo) CreateRun(ctx context.Context, run *domain.PlanningRun) error {
	now := time.Now().UTC()
	run.CreatedAt, run.UpdatedAt = now, now
	if run.Status == "" {
		run.Status = domain.RunDraft
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO planning_runs (name, start_date, end_date, status, accepted_scenario_id, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Name, run.StartDate.Format(dateLayout), run.EndDate.Format(dateLayout),
		string(run.Status), nullableInt64(run.AcceptedScenarioID), run.CreatedBy,
		now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting planning run: %w", err)
	}
	run.ID, err = res.LastInsertId()
	return err
}

func (r *SQLitePlanningRepo) GetRun(ctx context.Context, id int64) (*domain.PlanningRun, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM planning_runs WHERE id = ?`, id)
	run, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &contract.NotFoundError{Entity: "planning run", ID: id}
	}
	return run, err
}

func (r *SQLitePlanningRepo) ListRuns(ctx context.Context, filter RunFilter) ([]domain.PlanningRun, error) {
	query := `SELECT ` + runColumns + ` FROM planning_runs`
	var args []any
	if filter.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing planning runs: %w", err)
	}
	defer rows.Close()

	var out []domain.PlanningRun
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *run)
	}
	return out, rows.Err()
}

func (r *SQLitePlanningRepo) GetActiveRun(ctx context.Context) (*domain.PlanningRun, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM planning_runs WHERE status = 'accepted' ORDER BY updated_at DESC, id DESC LIMIT 1`)
	run, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

func (r *SQLitePlanningRepo) SetRunStatus(ctx context.Context, id int64, status domain.RunStatus, acceptedScenarioID *int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE planning_runs SET status = ?, accepted_scenario_id = ?, updated_at = ? WHERE id = ?`,
		string(status), nullableInt64(acceptedScenarioID), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating run status: %w", err)
	}
	return requireRow(res, "planning run", id)
}

// jsonBlock is the persisted shape of one schedule block.
type jsonBlock struct {
	DemandID         int64   `json:"demand_id"`
	StepID           int64   `json:"step_id"`
	BatchNumber      int     `json:"batch"`
	BatchQuantity    int     `json:"batch_qty"`
	Date             string  `json:"date"`
	StartMin         int     `json:"start_min"`
	EndMin           int     `json:"end_min"`
	PlannedOutput    int     `json:"planned_output"`
	WorkerIDs        []int64  `json:"worker_ids"`
	AssignmentReason string   `json:"assignment_reason,omitempty"`
	ConstraintNotes  []string `json:"constraint_notes,omitempty"`
	IsOvertime       bool     `json:"is_overtime,omitempty"`
	IsAutoSuggested  bool     `json:"is_auto_suggested,omitempty"`
}

type jsonProjection struct {
	DemandID            int64   `json:"demand_id"`
	ProjectedCompletion *string `json:"projected_completion,omitempty"`
	CanMeetTarget       bool    `json:"can_meet_target"`
}

func (r *SQLitePlanningRepo) CreateScenario(ctx context.Context, s *domain.PlanningScenario) error {
	now := time.Now().UTC()
	s.CreatedAt = now

	blocksJSON, err := marshalBlocks(s.Blocks)
	if err != nil {
		return err
	}
	projJSON, err := marshalProjections(s.Projections)
	if err != nil {
		return err
	}
	warnings := s.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	warnJSON, err := json.Marshal(warnings)
	if err != nil {
		return fmt.Errorf("encoding warnings: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO planning_scenarios (run_id, name, strategy, allow_overtime, overtime_limit_hours_day,
			labor_hours, overtime_hours, labor_cost, equipment_cost, deadlines_met, deadlines_missed,
			latest_completion, blocks_json, projections_json, warnings_json, parent_scenario_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.RunID, s.Name, string(s.Strategy), boolToInt(s.AllowOvertime), s.OvertimeLimitHoursDay,
		s.Metrics.LaborHours, s.Metrics.OvertimeHours, s.Metrics.LaborCost, s.Metrics.EquipmentCost,
		s.Metrics.DeadlinesMet, s.Metrics.DeadlinesMissed,
		nullableTimeToString(s.Metrics.LatestCompletion, dateLayout),
		string(blocksJSON), string(projJSON), string(warnJSON),
		nullableInt64(s.ParentScenarioID), now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting scenario: %w", err)
	}
	s.ID, err = res.LastInsertId()
	return err
}

const scenarioColumns = `id, run_id, name, strategy, allow_overtime, overtime_limit_hours_day,
	labor_hours, overtime_hours, labor_cost, equipment_cost, deadlines_met, deadlines_missed,
	latest_completion, blocks_json, projections_json, warnings_json, parent_scenario_id, created_at`

func (r *SQLitePlanningRepo) GetScenario(ctx context.Context, id int64) (*domain.PlanningScenario, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+scenarioColumns+` FROM planning_scenarios WHERE id = ?`, id)
	s, err := scanScenario(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &contract.NotFoundError{Entity: "scenario", ID: id}
	}
	return s, err
}

func (r *SQLitePlanningRepo) ListScenarios(ctx context.Context, runID int64) ([]domain.PlanningScenario, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+scenarioColumns+` FROM planning_scenarios WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing scenarios: %w", err)
	}
	defer rows.Close()

	var out []domain.PlanningScenario
	for rows.Next() {
		s, err := scanScenario(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *SQLitePlanningRepo) LinkScenarioDemand(ctx context.Context, scenarioID int64, demandIDs []int64) error {
	for _, demandID := range demandIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO scenario_demand (scenario_id, demand_id) VALUES (?, ?)`,
			scenarioID, demandID); err != nil {
			return fmt.Errorf("linking scenario %d to demand %d: %w", scenarioID, demandID, err)
		}
	}
	return nil
}

func (r *SQLitePlanningRepo) ListScenarioDemand(ctx context.Context, scenarioID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT demand_id FROM scenario_demand WHERE scenario_id = ? ORDER BY demand_id`, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("listing scenario demand: %w", err)
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

func scanRun(scan func(dest ...any) error) (*domain.PlanningRun, error) {
	var run domain.PlanningRun
	var start, end, status, created, updated string
	var accepted sql.NullInt64
	if err := scan(&run.ID, &run.Name, &start, &end, &status, &accepted, &run.CreatedBy, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning planning run: %w", err)
	}
	run.StartDate, _ = time.Parse(dateLayout, start)
	run.EndDate, _ = time.Parse(dateLayout, end)
	run.Status = domain.RunStatus(status)
	run.AcceptedScenarioID = int64Ptr(accepted)
	run.CreatedAt, _ = time.Parse(time.RFC3339, created)
	run.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &run, nil
}

func scanScenario(scan func(dest ...any) error) (*domain.PlanningScenario, error) {
	var s domain.PlanningScenario
	var strategy, blocksJSON, projJSON, warnJSON, created string
	var allowOT int
	var latest sql.NullString
	var parent sql.NullInt64
	if err := scan(&s.ID, &s.RunID, &s.Name, &strategy, &allowOT, &s.OvertimeLimitHoursDay,
		&s.Metrics.LaborHours, &s.Metrics.OvertimeHours, &s.Metrics.LaborCost, &s.Metrics.EquipmentCost,
		&s.Metrics.DeadlinesMet, &s.Metrics.DeadlinesMissed,
		&latest, &blocksJSON, &projJSON, &warnJSON, &parent, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning scenario: %w", err)
	}
	s.Strategy = domain.Strategy(strategy)
	s.AllowOvertime = intToBool(allowOT)
	s.Metrics.LatestCompletion = parseNullableTime(latest, dateLayout)
	s.ParentScenarioID = int64Ptr(parent)
	s.CreatedAt, _ = time.Parse(time.RFC3339, created)

	var err error
	if s.Blocks, err = unmarshalBlocks([]byte(blocksJSON)); err != nil {
		return nil, err
	}
	if s.Projections, err = unmarshalProjections([]byte(projJSON)); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(warnJSON), &s.Warnings); err != nil {
		return nil, fmt.Errorf("decoding warnings: %w", err)
	}
	return &s, nil
}

func marshalBlocks(blocks []domain.ScheduleBlock) ([]byte, error) {
	rows := make([]jsonBlock, len(blocks))
	for i, b := range blocks {
		rows[i] = jsonBlock{
			DemandID:         b.DemandID,
			StepID:           b.StepID,
			BatchNumber:      b.BatchNumber,
			BatchQuantity:    b.BatchQuantity,
			Date:             b.Date.Format(dateLayout),
			StartMin:         b.StartMin,
			EndMin:           b.EndMin,
			PlannedOutput:    b.PlannedOutput,
			WorkerIDs:        b.WorkerIDs,
			AssignmentReason: b.AssignmentReason,
			ConstraintNotes:  b.ConstraintNotes,
			IsOvertime:       b.IsOvertime,
			IsAutoSuggested:  b.IsAutoSuggested,
		}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encoding schedule blocks: %w", err)
	}
	return data, nil
}

func unmarshalBlocks(data []byte) ([]domain.ScheduleBlock, error) {
	var rows []jsonBlock
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decoding schedule blocks: %w", err)
	}
	out := make([]domain.ScheduleBlock, len(rows))
	for i, row := range rows {
		date, err := time.Parse(dateLayout, row.Date)
		if err != nil {
			return nil, fmt.Errorf("decoding block date %q: %w", row.Date, err)
		}
		out[i] = domain.ScheduleBlock{
			DemandID:         row.DemandID,
			StepID:           row.StepID,
			BatchNumber:      row.BatchNumber,
			BatchQuantity:    row.BatchQuantity,
			Date:             date,
			StartMin:         row.StartMin,
			EndMin:           row.EndMin,
			PlannedOutput:    row.PlannedOutput,
			WorkerIDs:        row.WorkerIDs,
			AssignmentReason: row.AssignmentReason,
			ConstraintNotes:  row.ConstraintNotes,
			IsOvertime:       row.IsOvertime,
			IsAutoSuggested:  row.IsAutoSuggested,
		}
	}
	return out, nil
}

func marshalProjections(projections []domain.DemandProjection) ([]byte, error) {
	rows := make([]jsonProjection, len(projections))
	for i, p := range projections {
		rows[i] = jsonProjection{DemandID: p.DemandID, CanMeetTarget: p.CanMeetTarget}
		if p.ProjectedCompletion != nil {
			d := p.ProjectedCompletion.Format(dateLayout)
			rows[i].ProjectedCompletion = &d
		}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encoding projections: %w", err)
	}
	return data, nil
}

func unmarshalProjections(data []byte) ([]domain.DemandProjection, error) {
	var rows []jsonProjection
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decoding projections: %w", err)
	}
	out := make([]domain.DemandProjection, len(rows))
	for i, row := range rows {
		out[i] = domain.DemandProjection{DemandID: row.DemandID, CanMeetTarget: row.CanMeetTarget}
		if row.ProjectedCompletion != nil {
			d, err := time.Parse(dateLayout, *row.ProjectedCompletion)
			if err != nil {
				return nil, fmt.Errorf("decoding projection date %q: %w", *row.ProjectedCompletion, err)
			}
			out[i].ProjectedCompletion = &d
		}
	}
	return out, nil
}
