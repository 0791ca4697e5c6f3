package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zainhoda/sij-manager-sub003/internal/calendar"
	"github.com/zainhoda/sij-manager-sub003/internal/cli/formatter"
	"github.com/zainhoda/sij-manager-sub003/internal/contract"
)

func newReplanCmd(app *App) *cobra.Command {
	var commit bool
	cmd := &cobra.Command{
		Use:   "replan <demand-id>",
		Short: "Rebuild the remaining schedule of one demand entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			demandID, err := parseIDArg(args[0])
			if err != nil {
				return err
			}

			result, err := app.Replan.BuildReplan(ctx, contract.ReplanRequest{DemandID: demandID})
			if err != nil {
				return err
			}

			fmt.Println(formatter.Header(fmt.Sprintf("Replan — demand %d", demandID)))
			fmt.Printf("  Regular hours needed:  %s\n", formatter.Hours(result.RegularHoursNeeded))
			fmt.Printf("  Overtime hours needed: %s\n", formatter.Hours(result.OvertimeHoursNeeded))
			fmt.Printf("  Can meet deadline:     %s\n\n", formatter.YesNo(result.CanMeetDeadline))
			fmt.Print(blockTable(result.DraftEntries))

			if len(result.OvertimeSuggestions) > 0 {
				fmt.Println()
				fmt.Println(formatter.Header("Overtime Suggestions"))
				headers := []string{"Date", "Time", "Worker", "Step", "Minutes"}
				rows := make([][]string, 0, len(result.OvertimeSuggestions))
				for _, s := range result.OvertimeSuggestions {
					rows = append(rows, []string{
						s.Date,
						s.StartTime + "-" + s.EndTime,
						fmt.Sprintf("%d", s.WorkerID),
						fmt.Sprintf("%d", s.StepID),
						fmt.Sprintf("%d", s.Minutes),
					})
				}
				fmt.Print(formatter.RenderTable(headers, rows))
			}
			for _, w := range result.Warnings {
				fmt.Printf("  %s %s\n", formatter.StyleYellow.Render("!"), w)
			}

			if !commit {
				fmt.Println()
				fmt.Println(formatter.Dim("  draft only; re-run with --commit to replace the open tasks"))
				return nil
			}

			entries := make([]contract.CommitEntry, 0, len(result.DraftEntries))
			for _, b := range result.DraftEntries {
				entries = append(entries, contract.CommitEntry{
					StepID:        b.StepID,
					BatchNumber:   b.BatchNumber,
					BatchQuantity: b.BatchQuantity,
					Date:          calendar.FormatDate(b.Date),
					StartTime:     calendar.FormatClock(b.StartMin),
					EndTime:       calendar.FormatClock(b.EndMin),
					PlannedOutput: b.PlannedOutput,
					WorkerIDs:     b.WorkerIDs,
					IsOvertime:    b.IsOvertime,
				})
			}
			committed, err := app.Replan.CommitReplan(ctx, contract.CommitReplanRequest{
				DemandID: demandID,
				Entries:  entries,
			})
			if err != nil {
				return err
			}
			fmt.Printf("\n%s %d tasks replaced with %d new tasks\n",
				formatter.StyleGreen.Render("✓"), committed.TasksDeleted, committed.TasksCreated)
			return nil
		},
	}
	cmd.Flags().BoolVar(&commit, "commit", false, "Commit the draft, replacing non-completed tasks")
	return cmd
}
