package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS equipment (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		name          TEXT NOT NULL,
		status        TEXT NOT NULL DEFAULT 'available'
		              CHECK(status IN ('available','in_use','maintenance','retired')),
		station_count INTEGER,
		hourly_cost   REAL,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS product_steps (
		id                     INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id             INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		name                   TEXT NOT NULL DEFAULT '',
		step_code              TEXT NOT NULL,
		category               TEXT NOT NULL
		                       CHECK(category IN ('CUTTING','SILKSCREEN','PREP','SEWING','INSPECTION')),
		time_per_piece_seconds INTEGER NOT NULL CHECK(time_per_piece_seconds > 0),
		sequence               INTEGER NOT NULL DEFAULT 0,
		equipment_id           INTEGER REFERENCES equipment(id),
		work_category          TEXT,
		created_at             TEXT NOT NULL,
		updated_at             TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_product_steps_product ON product_steps(product_id)`,

	`CREATE TABLE IF NOT EXISTS step_dependencies (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		step_id            INTEGER NOT NULL REFERENCES product_steps(id) ON DELETE CASCADE,
		depends_on_step_id INTEGER NOT NULL REFERENCES product_steps(id) ON DELETE CASCADE,
		kind               TEXT NOT NULL DEFAULT 'finish'
		                   CHECK(kind IN ('finish','start')),
		UNIQUE(step_id, depends_on_step_id)
	)`,

	`CREATE TABLE IF NOT EXISTS build_versions (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'draft'
		           CHECK(status IN ('draft','active','deprecated')),
		is_default INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS build_version_steps (
		build_version_id INTEGER NOT NULL REFERENCES build_versions(id) ON DELETE CASCADE,
		step_id          INTEGER NOT NULL REFERENCES product_steps(id) ON DELETE CASCADE,
		position         INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY(build_version_id, step_id)
	)`,

	`CREATE TABLE IF NOT EXISTS workers (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		name          TEXT NOT NULL,
		employee_id   TEXT UNIQUE,
		status        TEXT NOT NULL DEFAULT 'active'
		              CHECK(status IN ('active','inactive','on_leave')),
		work_category TEXT,
		cost_per_hour REAL,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS equipment_certifications (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		worker_id    INTEGER NOT NULL REFERENCES workers(id) ON DELETE CASCADE,
		equipment_id INTEGER NOT NULL REFERENCES equipment(id) ON DELETE CASCADE,
		certified_at TEXT NOT NULL,
		expires_at   TEXT,
		UNIQUE(worker_id, equipment_id)
	)`,

	`CREATE TABLE IF NOT EXISTS demand_entries (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		source           TEXT NOT NULL DEFAULT 'internal'
		                 CHECK(source IN ('internal','external_so','external_wo')),
		product_id       INTEGER NOT NULL REFERENCES products(id),
		build_version_id INTEGER REFERENCES build_versions(id),
		quantity         INTEGER NOT NULL CHECK(quantity > 0),
		due_date         TEXT NOT NULL,
		customer_name    TEXT,
		priority         INTEGER NOT NULL DEFAULT 3 CHECK(priority BETWEEN 1 AND 5),
		status           TEXT NOT NULL DEFAULT 'pending'
		                 CHECK(status IN ('pending','planned','in_progress','completed')),
		min_batch_size   INTEGER NOT NULL DEFAULT 0,
		max_batch_size   INTEGER NOT NULL DEFAULT 0,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_demand_status ON demand_entries(status)`,

	`CREATE TABLE IF NOT EXISTS planning_runs (
		id                   INTEGER PRIMARY KEY AUTOINCREMENT,
		name                 TEXT NOT NULL,
		start_date           TEXT NOT NULL,
		end_date             TEXT NOT NULL,
		status               TEXT NOT NULL DEFAULT 'draft'
		                     CHECK(status IN ('draft','pending','accepted','archived')),
		accepted_scenario_id INTEGER,
		created_by           TEXT NOT NULL DEFAULT '',
		created_at           TEXT NOT NULL,
		updated_at           TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS planning_scenarios (
		id                       INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id                   INTEGER NOT NULL REFERENCES planning_runs(id) ON DELETE CASCADE,
		name                     TEXT NOT NULL,
		strategy                 TEXT NOT NULL
		                         CHECK(strategy IN ('meet_deadlines','minimize_cost','balanced','custom')),
		allow_overtime           INTEGER NOT NULL DEFAULT 0,
		overtime_limit_hours_day INTEGER NOT NULL DEFAULT 0,
		labor_hours              REAL NOT NULL DEFAULT 0,
		overtime_hours           REAL NOT NULL DEFAULT 0,
		labor_cost               REAL NOT NULL DEFAULT 0,
		equipment_cost           REAL NOT NULL DEFAULT 0,
		deadlines_met            INTEGER NOT NULL DEFAULT 0,
		deadlines_missed         INTEGER NOT NULL DEFAULT 0,
		latest_completion        TEXT,
		blocks_json              TEXT NOT NULL DEFAULT '[]',
		projections_json         TEXT NOT NULL DEFAULT '[]',
		warnings_json            TEXT NOT NULL DEFAULT '[]',
		parent_scenario_id       INTEGER REFERENCES planning_scenarios(id),
		created_at               TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_scenarios_run ON planning_scenarios(run_id)`,

	`CREATE TABLE IF NOT EXISTS scenario_demand (
		scenario_id INTEGER NOT NULL REFERENCES planning_scenarios(id) ON DELETE CASCADE,
		demand_id   INTEGER NOT NULL REFERENCES demand_entries(id) ON DELETE CASCADE,
		PRIMARY KEY(scenario_id, demand_id)
	)`,

	`CREATE TABLE IF NOT EXISTS plan_tasks (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id         INTEGER NOT NULL REFERENCES planning_runs(id),
		demand_id      INTEGER NOT NULL REFERENCES demand_entries(id) ON DELETE CASCADE,
		step_id        INTEGER NOT NULL REFERENCES product_steps(id),
		batch_number   INTEGER NOT NULL DEFAULT 1,
		batch_quantity INTEGER NOT NULL DEFAULT 0,
		date           TEXT NOT NULL,
		start_min      INTEGER NOT NULL,
		end_min        INTEGER NOT NULL,
		planned_output INTEGER NOT NULL DEFAULT 0,
		status         TEXT NOT NULL DEFAULT 'scheduled'
		               CHECK(status IN ('scheduled','in_progress','completed')),
		actual_output  INTEGER NOT NULL DEFAULT 0,
		is_overtime    INTEGER NOT NULL DEFAULT 0,
		completed_at   TEXT,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_plan_tasks_demand ON plan_tasks(demand_id)`,
	`CREATE INDEX IF NOT EXISTS idx_plan_tasks_run ON plan_tasks(run_id)`,

	`CREATE TABLE IF NOT EXISTS plan_task_workers (
		task_id   INTEGER NOT NULL REFERENCES plan_tasks(id) ON DELETE CASCADE,
		worker_id INTEGER NOT NULL REFERENCES workers(id),
		PRIMARY KEY(task_id, worker_id)
	)`,

	`CREATE TABLE IF NOT EXISTS worker_proficiency (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		worker_id  INTEGER NOT NULL REFERENCES workers(id) ON DELETE CASCADE,
		step_id    INTEGER NOT NULL REFERENCES product_steps(id) ON DELETE CASCADE,
		level      INTEGER NOT NULL DEFAULT 3 CHECK(level BETWEEN 1 AND 5),
		updated_at TEXT NOT NULL,
		UNIQUE(worker_id, step_id)
	)`,

	// History survives worker_proficiency row deletion; only the worker
	// itself anchors the foreign key.
	`CREATE TABLE IF NOT EXISTS proficiency_history (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		worker_id      INTEGER NOT NULL REFERENCES workers(id) ON DELETE CASCADE,
		step_id        INTEGER NOT NULL,
		from_level     INTEGER NOT NULL,
		to_level       INTEGER NOT NULL,
		reason         TEXT NOT NULL
		               CHECK(reason IN ('manual','auto_increase','auto_decrease')),
		avg_efficiency REAL NOT NULL DEFAULT 0,
		sample_size    INTEGER NOT NULL DEFAULT 0,
		recorded_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS output_history (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		assignment_id INTEGER NOT NULL,
		output        INTEGER NOT NULL,
		recorded_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_output_history_assignment ON output_history(assignment_id)`,

	`CREATE TABLE IF NOT EXISTS settings (
		id            INTEGER PRIMARY KEY CHECK(id = 1),
		morning_start INTEGER NOT NULL,
		lunch_start   INTEGER NOT NULL,
		lunch_end     INTEGER NOT NULL,
		afternoon_end INTEGER NOT NULL,
		overtime_end  INTEGER NOT NULL,
		level5_cut    REAL NOT NULL,
		level4_cut    REAL NOT NULL,
		level3_cut    REAL NOT NULL,
		level2_cut    REAL NOT NULL,
		holidays_json TEXT NOT NULL DEFAULT '[]'
	)`,
}
