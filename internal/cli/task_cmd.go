package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zainhoda/sij-manager-sub003/internal/cli/formatter"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Record progress on plan tasks",
	}

	var output int
	start := &cobra.Command{
		Use:   "start <task-id>",
		Short: "Mark a task in progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return recordProgress(app, args[0], domain.TaskInProgress, 0)
		},
	}

	done := &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task completed with its actual output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return recordProgress(app, args[0], domain.TaskCompleted, output)
		},
	}
	done.Flags().IntVar(&output, "output", 0, "Actual units produced")
	_ = done.MarkFlagRequired("output")

	cmd.AddCommand(start, done)
	return cmd
}

func recordProgress(app *App, rawID string, status domain.PlanTaskStatus, output int) error {
	id, err := parseIDArg(rawID)
	if err != nil {
		return err
	}
	if err := app.Planning.RecordTaskProgress(context.Background(), id, status, output); err != nil {
		return err
	}
	fmt.Printf("%s task %d %s\n", formatter.StyleGreen.Render("✓"), id, status)
	return nil
}
