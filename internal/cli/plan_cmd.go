package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/zainhoda/sij-manager-sub003/internal/calendar"
	"github.com/zainhoda/sij-manager-sub003/internal/cli/formatter"
	"github.com/zainhoda/sij-manager-sub003/internal/contract"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

func parseIDArg(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Create, inspect and accept planning runs",
	}
	cmd.AddCommand(
		newPlanCreateCmd(app),
		newPlanListCmd(app),
		newPlanShowCmd(app),
		newPlanAcceptCmd(app),
		newPlanArchiveCmd(app),
		newPlanCompareCmd(app),
		newPlanScenarioCmd(app),
		newPlanValidateCmd(app),
	)
	return cmd
}

func newPlanCreateCmd(app *App) *cobra.Command {
	var (
		name      string
		from, to  string
		demandIDs []int64
		createdBy string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Generate the three strategy scenarios for a planning window",
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := app.Planning.CreateRun(context.Background(), contract.CreateRunRequest{
				Name:        name,
				WindowStart: from,
				WindowEnd:   to,
				DemandIDs:   demandIDs,
				CreatedBy:   createdBy,
			})
			if err != nil {
				return err
			}
			fmt.Println(formatter.Header(fmt.Sprintf("Run #%d — %s", detail.Run.ID, detail.Run.Name)))
			fmt.Printf("  Window:  %s .. %s\n", calendar.FormatDate(detail.Run.StartDate), calendar.FormatDate(detail.Run.EndDate))
			fmt.Printf("  Demand:  %d entries\n\n", len(detail.Demand))
			fmt.Print(scenarioTable(detail.Scenarios))
			fmt.Println()
			fmt.Println(formatter.Dim(fmt.Sprintf("  accept with: sij plan accept %d <scenario-id>", detail.Run.ID)))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Run name")
	cmd.Flags().StringVar(&from, "from", "", "Window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Window end (YYYY-MM-DD)")
	cmd.Flags().Int64SliceVar(&demandIDs, "demand", nil, "Demand ids to plan (default: all open in window)")
	cmd.Flags().StringVar(&createdBy, "by", "", "Planner name")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func scenarioTable(scenarios []domain.PlanningScenario) string {
	headers := []string{"ID", "Scenario", "Strategy", "Labor", "Overtime", "Cost", "Deadlines", "Warnings"}
	rows := make([][]string, 0, len(scenarios))
	for _, s := range scenarios {
		m := s.Metrics
		deadlines := fmt.Sprintf("%d met", m.DeadlinesMet)
		if m.DeadlinesMissed > 0 {
			deadlines = formatter.StyleRed.Render(fmt.Sprintf("%d met / %d missed", m.DeadlinesMet, m.DeadlinesMissed))
		}
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			s.Name,
			string(s.Strategy),
			formatter.Hours(m.LaborHours),
			formatter.Hours(m.OvertimeHours),
			formatter.Money(m.LaborCost + m.EquipmentCost),
			deadlines,
			strconv.Itoa(len(s.Warnings)),
		})
	}
	return formatter.RenderTable(headers, rows)
}

func newPlanListCmd(app *App) *cobra.Command {
	var status string
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List planning runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := app.Planning.ListRuns(context.Background(), contract.RunFilter{
				Status: domain.RunStatus(status),
				Limit:  limit,
			})
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println(formatter.Dim("No planning runs."))
				return nil
			}
			headers := []string{"ID", "Name", "Window", "Status", "Created"}
			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				rows = append(rows, []string{
					strconv.FormatInt(r.ID, 10),
					r.Name,
					calendar.FormatDate(r.StartDate) + " .. " + calendar.FormatDate(r.EndDate),
					formatter.StatusBadge(string(r.Status)),
					r.CreatedAt.Format("2006-01-02 15:04"),
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (draft|accepted|archived)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows")
	return cmd
}

func newPlanShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run with its scenarios",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			detail, err := app.Planning.GetRun(context.Background(), id)
			if err != nil {
				return err
			}
			fmt.Println(formatter.Header(fmt.Sprintf("Run #%d — %s", detail.Run.ID, detail.Run.Name)))
			fmt.Printf("  Status:  %s\n", formatter.StatusBadge(string(detail.Run.Status)))
			fmt.Printf("  Window:  %s .. %s\n", calendar.FormatDate(detail.Run.StartDate), calendar.FormatDate(detail.Run.EndDate))
			if detail.Run.AcceptedScenarioID != nil {
				fmt.Printf("  Accepted scenario: %d\n", *detail.Run.AcceptedScenarioID)
			}
			fmt.Println()
			fmt.Print(scenarioTable(detail.Scenarios))
			return nil
		},
	}
}

func newPlanAcceptCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "accept <run-id> [scenario-id]",
		Short: "Accept a scenario, materializing its plan tasks",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			runID, err := parseIDArg(args[0])
			if err != nil {
				return err
			}

			var scenarioID int64
			if len(args) == 2 {
				scenarioID, err = parseIDArg(args[1])
				if err != nil {
					return err
				}
			} else {
				scenarioID, err = pickScenario(ctx, app, runID)
				if err != nil {
					return err
				}
			}

			result, err := app.Planning.Accept(ctx, runID, scenarioID)
			if err != nil {
				return err
			}
			fmt.Printf("%s scenario %d accepted, %d tasks created\n",
				formatter.StyleGreen.Render("✓"), scenarioID, result.TasksCreated)
			return nil
		},
	}
}

// pickScenario asks the operator which scenario to accept. Outside a
// terminal there is nothing to ask with, so the scenario id is required.
func pickScenario(ctx context.Context, app *App, runID int64) (int64, error) {
	if !app.interactive() {
		return 0, fmt.Errorf("scenario id required when not running interactively")
	}
	detail, err := app.Planning.GetRun(ctx, runID)
	if err != nil {
		return 0, err
	}
	options := make([]huh.Option[int64], 0, len(detail.Scenarios))
	for _, s := range detail.Scenarios {
		label := fmt.Sprintf("%s — %s labor, %d missed deadlines",
			s.Name, formatter.Hours(s.Metrics.LaborHours), s.Metrics.DeadlinesMissed)
		options = append(options, huh.NewOption(label, s.ID))
	}

	var picked int64
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int64]().
				Title("Which scenario?").
				Options(options...).
				Value(&picked),
		),
	).WithTheme(sijHuhTheme()).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return 0, err
	}
	return picked, nil
}

func newPlanArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <run-id>",
		Short: "Archive a run, releasing the active slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			if err := app.Planning.Archive(context.Background(), id); err != nil {
				return err
			}
			fmt.Printf("%s run %d archived\n", formatter.StyleGreen.Render("✓"), id)
			return nil
		},
	}
}

func newPlanCompareCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <run-id>",
		Short: "Compare a run's scenarios side by side",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			comparison, err := app.Planning.Compare(context.Background(), id)
			if err != nil {
				return err
			}
			fmt.Println(formatter.Header("Scenario Comparison"))
			fmt.Print(scenarioTable(comparison.Scenarios))
			return nil
		},
	}
}

func newPlanScenarioCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "scenario <scenario-id>",
		Short: "Show a scenario's full schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			detail, err := app.Planning.GetScenario(context.Background(), id)
			if err != nil {
				return err
			}
			fmt.Println(formatter.Header(detail.Scenario.Name))
			fmt.Print(blockTable(detail.Blocks))
			for _, w := range detail.Warnings {
				fmt.Printf("  %s %s\n", formatter.StyleYellow.Render("!"), w)
			}
			return nil
		},
	}
}

func blockTable(blocks []domain.ScheduleBlock) string {
	headers := []string{"Date", "Time", "Demand", "Step", "Batch", "Output", "Workers", "OT"}
	rows := make([][]string, 0, len(blocks))
	for _, b := range blocks {
		ot := ""
		if b.IsOvertime {
			ot = formatter.StyleYellow.Render("OT")
		}
		rows = append(rows, []string{
			calendar.FormatDate(b.Date),
			calendar.FormatClock(b.StartMin) + "-" + calendar.FormatClock(b.EndMin),
			strconv.FormatInt(b.DemandID, 10),
			strconv.FormatInt(b.StepID, 10),
			strconv.Itoa(b.BatchNumber),
			strconv.Itoa(b.PlannedOutput),
			fmt.Sprint(b.WorkerIDs),
			ot,
		})
	}
	return formatter.RenderTable(headers, rows)
}

func newPlanValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario-id>",
		Short: "Re-check a scenario's schedule against the current catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			result, err := app.Planning.ValidateScenario(context.Background(), id)
			if err != nil {
				return err
			}
			if result.Valid() && len(result.Warnings) == 0 {
				fmt.Printf("%s schedule is clean\n", formatter.StyleGreen.Render("✓"))
				return nil
			}
			for _, e := range result.Errors {
				fmt.Printf("  %s %s\n", formatter.StyleRed.Render("✗"), e)
			}
			for _, w := range result.Warnings {
				fmt.Printf("  %s %s\n", formatter.StyleYellow.Render("!"), w)
			}
			return nil
		},
	}
}
