package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/zainhoda/sij-manager-sub003/internal/cli/formatter"
	"github.com/zainhoda/sij-manager-sub003/internal/contract"
)

func newCapacityCmd(app *App) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "capacity",
		Short: "Analyze workforce capacity against open demand",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := app.Capacity.Analyze(context.Background(), contract.CapacityRequest{
				From: from,
				To:   to,
			})
			if err != nil {
				return err
			}

			fmt.Println(formatter.Header("Capacity"))
			fmt.Printf("  Available: %s   Required: %s\n\n",
				formatter.Hours(view.AvailableHours), formatter.Hours(view.RequiredHours))

			if len(view.Risks) > 0 {
				headers := []string{"Demand", "Required", "Available", "Shortfall", "Risk"}
				rows := make([][]string, 0, len(view.Risks))
				for _, r := range view.Risks {
					rows = append(rows, []string{
						strconv.FormatInt(r.DemandID, 10),
						formatter.Hours(r.RequiredHours),
						formatter.Hours(r.AvailableHoursDue),
						formatter.Hours(r.ShortfallHours),
						formatter.RiskIndicator(r.Risk),
					})
				}
				fmt.Print(formatter.RenderTable(headers, rows))
			}

			if len(view.Weekly) > 0 {
				fmt.Println()
				headers := []string{"Week", "Available", "Required"}
				rows := make([][]string, 0, len(view.Weekly))
				for _, w := range view.Weekly {
					required := formatter.Hours(w.RequiredHours)
					if w.RequiredHours > w.AvailableHours {
						required = formatter.StyleRed.Render(required)
					}
					rows = append(rows, []string{w.WeekStart, formatter.Hours(w.AvailableHours), required})
				}
				fmt.Print(formatter.RenderTable(headers, rows))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Range end (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newProficiencyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proficiency",
		Short: "Inspect and adjust worker proficiency levels",
	}

	recalc := &cobra.Command{
		Use:   "recalc",
		Short: "Apply automatic level adjustments from recent completed work",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Profic.Recalculate(context.Background())
			if err != nil {
				return err
			}
			if result.Applied == 0 {
				fmt.Println(formatter.Dim("No adjustments; not enough recent samples."))
				return nil
			}
			headers := []string{"Worker", "Step", "Level", "Avg Eff", "Samples", "Reason"}
			rows := make([][]string, 0, len(result.Adjustments))
			for _, a := range result.Adjustments {
				rows = append(rows, []string{
					strconv.FormatInt(a.WorkerID, 10),
					strconv.FormatInt(a.StepID, 10),
					fmt.Sprintf("%d → %d", a.FromLevel, a.ToLevel),
					fmt.Sprintf("%.1f%%", a.AvgEfficiency),
					strconv.Itoa(a.SampleSize),
					string(a.Reason),
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			fmt.Printf("\n%s %d levels adjusted\n", formatter.StyleGreen.Render("✓"), result.Applied)
			return nil
		},
	}

	var level int
	set := &cobra.Command{
		Use:   "set <worker-id> <step-id>",
		Short: "Manually override a proficiency level",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			workerID, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			stepID, err := parseIDArg(args[1])
			if err != nil {
				return err
			}
			if err := app.Profic.SetLevel(context.Background(), workerID, stepID, level); err != nil {
				return err
			}
			fmt.Printf("%s worker %d on step %d set to level %d\n",
				formatter.StyleGreen.Render("✓"), workerID, stepID, level)
			return nil
		},
	}
	set.Flags().IntVar(&level, "level", 0, "Proficiency level 1..5")
	_ = set.MarkFlagRequired("level")

	trend := &cobra.Command{
		Use:   "trend <assignment-id>",
		Short: "Show the output trend over one assignment's samples",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			result, err := app.Profic.OutputTrend(context.Background(), id)
			if err != nil {
				return err
			}
			fmt.Println(formatter.Header("Output Trend"))
			fmt.Printf("  Samples:  %d\n", result.Samples)
			fmt.Printf("  Pace:     %.1fs → %.1fs → %.1fs per unit\n",
				result.BeginSecPerUnit, result.MiddleSecPerUnit, result.EndSecPerUnit)
			speedup := fmt.Sprintf("%.1f%%", result.SpeedupPct)
			if result.SpeedupPct > 0 {
				speedup = formatter.StyleGreen.Render(speedup)
			}
			fmt.Printf("  Speedup:  %s\n", speedup)
			return nil
		},
	}

	cmd.AddCommand(recalc, set, trend)
	return cmd
}
