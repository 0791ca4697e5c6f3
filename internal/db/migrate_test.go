package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// Run migrations a second time — should succeed without error.
	err := Migrate(db)
	require.NoError(t, err)

	err = Migrate(db)
	require.NoError(t, err)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"products", "product_steps", "step_dependencies",
		"build_versions", "build_version_steps",
		"workers", "equipment", "equipment_certifications",
		"demand_entries",
		"planning_runs", "planning_scenarios", "scenario_demand",
		"plan_tasks", "plan_task_workers",
		"worker_proficiency", "proficiency_history", "output_history",
		"settings",
	}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_product_steps_product",
		"idx_demand_status",
		"idx_scenarios_run",
		"idx_plan_tasks_demand",
		"idx_plan_tasks_run",
		"idx_output_history_assignment",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_UniqueCertificationPerPair(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO workers (name, status, created_at, updated_at) VALUES ('Ana', 'active', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO equipment (name, status, created_at, updated_at) VALUES ('Press', 'available', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO equipment_certifications (worker_id, equipment_id, certified_at) VALUES (1, 1, '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO equipment_certifications (worker_id, equipment_id, certified_at) VALUES (1, 1, '2026-02-01T00:00:00Z')`)
	assert.Error(t, err, "duplicate (worker, equipment) certification must be rejected")
}

func TestMigrate_DemandDeleteCascadesToTasks(t *testing.T) {
	db := openTestDB(t)

	seed := []string{
		`INSERT INTO products (name, created_at, updated_at) VALUES ('Bag', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`,
		`INSERT INTO product_steps (product_id, step_code, category, time_per_piece_seconds, created_at, updated_at)
			VALUES (1, 'SEW-1', 'SEWING', 60, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`,
		`INSERT INTO demand_entries (product_id, quantity, due_date, created_at, updated_at)
			VALUES (1, 10, '2026-03-02', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`,
		`INSERT INTO planning_runs (name, start_date, end_date, created_at, updated_at)
			VALUES ('run', '2026-03-02', '2026-03-13', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`,
		`INSERT INTO plan_tasks (run_id, demand_id, step_id, date, start_min, end_min, created_at, updated_at)
			VALUES (1, 1, 1, '2026-03-02', 420, 480, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`,
	}
	for _, stmt := range seed {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	_, err := db.Exec(`DELETE FROM demand_entries WHERE id = 1`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM plan_tasks`).Scan(&n))
	assert.Zero(t, n, "plan tasks must cascade with their demand entry")
}

func TestMigrate_SettingsSingleRow(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO settings (id, morning_start, lunch_start, lunch_end, afternoon_end, overtime_end, level5_cut, level4_cut, level3_cut, level2_cut)
		VALUES (1, 420, 660, 690, 930, 1170, 130, 115, 85, 70)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO settings (id, morning_start, lunch_start, lunch_end, afternoon_end, overtime_end, level5_cut, level4_cut, level3_cut, level2_cut)
		VALUES (2, 420, 660, 690, 930, 1170, 130, 115, 85, 70)`)
	assert.Error(t, err, "settings is a single-row table")
}
