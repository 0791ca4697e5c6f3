package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zainhoda/sij-manager-sub003/internal/calendar"
	"github.com/zainhoda/sij-manager-sub003/internal/cli/formatter"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the work calendar configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Settings.Get(context.Background())
			if err != nil {
				return err
			}
			fmt.Println(formatter.Header("Work Calendar"))
			fmt.Printf("  Morning:   %s – %s\n", calendar.FormatClock(s.MorningStart), calendar.FormatClock(s.LunchStart))
			fmt.Printf("  Lunch:     %s – %s\n", calendar.FormatClock(s.LunchStart), calendar.FormatClock(s.LunchEnd))
			fmt.Printf("  Afternoon: %s – %s\n", calendar.FormatClock(s.LunchEnd), calendar.FormatClock(s.AfternoonEnd))
			fmt.Printf("  Overtime:  until %s\n", calendar.FormatClock(s.OvertimeEnd))
			fmt.Println()
			fmt.Println(formatter.Header("Level Cut Points"))
			fmt.Printf("  L5 ≥ %.0f%%   L4 ≥ %.0f%%   L3 ≥ %.0f%%   L2 ≥ %.0f%%\n",
				s.LevelCutPoints.Level5, s.LevelCutPoints.Level4,
				s.LevelCutPoints.Level3, s.LevelCutPoints.Level2)
			if len(s.HolidayDates) > 0 {
				fmt.Println()
				fmt.Printf("  Holidays: %s\n", strings.Join(s.HolidayDates, ", "))
			}
			return nil
		},
	}

	var holidays []string
	var overtimeEnd string
	set := &cobra.Command{
		Use:   "set",
		Short: "Update selected settings fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, err := app.Settings.Get(ctx)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("holidays") {
				s.HolidayDates = holidays
			}
			if cmd.Flags().Changed("overtime-end") {
				min, err := calendar.ParseClock(overtimeEnd)
				if err != nil {
					return fmt.Errorf("parsing overtime end: %w", err)
				}
				s.OvertimeEnd = min
			}
			if err := app.Settings.Update(ctx, s); err != nil {
				return err
			}
			fmt.Printf("%s settings updated\n", formatter.StyleGreen.Render("✓"))
			return nil
		},
	}
	set.Flags().StringSliceVar(&holidays, "holidays", nil, "Holiday dates (YYYY-MM-DD, comma separated)")
	set.Flags().StringVar(&overtimeEnd, "overtime-end", "", "Overtime window end (HH:MM)")

	cmd.AddCommand(show, set)
	return cmd
}
