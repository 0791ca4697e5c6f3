package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/zainhoda/sij-manager-sub003/internal/calendar"
	"github.com/zainhoda/sij-manager-sub003/internal/cli/formatter"
	"github.com/zainhoda/sij-manager-sub003/internal/domain"
	"github.com/zainhoda/sij-manager-sub003/internal/repository"
)

func newDemandCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demand",
		Short: "Manage demand entries",
	}

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List demand entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Demand.List(context.Background(), repository.DemandFilter{
				Status: domain.DemandStatus(status),
			})
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println(formatter.Dim("No demand."))
				return nil
			}
			headers := []string{"ID", "Product", "Qty", "Due", "Prio", "Source", "Status"}
			rows := make([][]string, 0, len(entries))
			for _, d := range entries {
				rows = append(rows, []string{
					strconv.FormatInt(d.ID, 10),
					strconv.FormatInt(d.ProductID, 10),
					strconv.Itoa(d.Quantity),
					calendar.FormatDate(d.DueDate),
					strconv.Itoa(d.Priority),
					string(d.Source),
					formatter.StatusBadge(string(d.Status)),
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}
	list.Flags().StringVar(&status, "status", "", "Filter by status")

	var (
		productID int64
		quantity  int
		due       string
		priority  int
		source    string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a demand entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			dueDate, err := calendar.ParseDate(due)
			if err != nil {
				return fmt.Errorf("parsing due date: %w", err)
			}
			d := &domain.DemandEntry{
				Source:    domain.DemandSource(source),
				ProductID: productID,
				Quantity:  quantity,
				DueDate:   dueDate,
				Priority:  priority,
				Status:    domain.DemandPending,
			}
			if err := app.Demand.Create(context.Background(), d); err != nil {
				return err
			}
			fmt.Printf("%s demand %d created\n", formatter.StyleGreen.Render("✓"), d.ID)
			return nil
		},
	}
	add.Flags().Int64Var(&productID, "product", 0, "Product id")
	add.Flags().IntVar(&quantity, "quantity", 0, "Units required")
	add.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	add.Flags().IntVar(&priority, "priority", 3, "Priority 1 (highest) .. 5")
	add.Flags().StringVar(&source, "source", string(domain.SourceInternal), "Source (internal|external_so|external_wo)")
	_ = add.MarkFlagRequired("product")
	_ = add.MarkFlagRequired("quantity")
	_ = add.MarkFlagRequired("due")

	cmd.AddCommand(list, add)
	return cmd
}

func newWorkerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Manage workers",
	}

	var includeInactive bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			workers, err := app.Workers.List(context.Background(), includeInactive)
			if err != nil {
				return err
			}
			headers := []string{"ID", "Name", "Status", "Category", "Cost/h"}
			rows := make([][]string, 0, len(workers))
			for _, w := range workers {
				category := ""
				if w.WorkCategory != nil {
					category = *w.WorkCategory
				}
				rows = append(rows, []string{
					strconv.FormatInt(w.ID, 10),
					w.Name,
					formatter.StatusBadge(string(w.Status)),
					category,
					formatter.Money(w.HourlyCost()),
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}
	list.Flags().BoolVar(&includeInactive, "all", false, "Include inactive workers")

	var (
		name string
		cost float64
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := &domain.Worker{Name: name, Status: domain.WorkerActive}
			if cmd.Flags().Changed("cost") {
				w.CostPerHour = &cost
			}
			if err := app.Workers.Create(context.Background(), w); err != nil {
				return err
			}
			fmt.Printf("%s worker %d created\n", formatter.StyleGreen.Render("✓"), w.ID)
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "Worker name")
	add.Flags().Float64Var(&cost, "cost", 0, "Cost per hour")
	_ = add.MarkFlagRequired("name")

	productivity := &cobra.Command{
		Use:   "productivity <worker-id>",
		Short: "Show a worker's efficiency rollup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			summary, err := app.Profic.Productivity(context.Background(), id)
			if err != nil {
				return err
			}
			fmt.Println(formatter.Header(summary.WorkerName))
			fmt.Printf("  Avg efficiency: %.1f%%  (%d blocks)\n\n", summary.AvgEfficiency, summary.TotalBlocks)
			headers := []string{"Step", "Level", "Suggested", "Avg Eff", "Samples"}
			rows := make([][]string, 0, len(summary.Steps))
			for _, st := range summary.Steps {
				rows = append(rows, []string{
					st.StepCode,
					strconv.Itoa(st.Level),
					strconv.Itoa(st.SuggestedLevel),
					fmt.Sprintf("%.1f%%", st.AvgEfficiency),
					strconv.Itoa(st.SampleSize),
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}

	cmd.AddCommand(list, add, productivity)
	return cmd
}

func newEquipmentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "equipment",
		Short: "Manage equipment",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List equipment",
		RunE: func(cmd *cobra.Command, args []string) error {
			equipment, err := app.Equipment.List(context.Background())
			if err != nil {
				return err
			}
			headers := []string{"ID", "Name", "Status", "Stations"}
			rows := make([][]string, 0, len(equipment))
			for _, e := range equipment {
				stations := "1"
				if e.StationCount != nil {
					stations = strconv.Itoa(*e.StationCount)
				}
				rows = append(rows, []string{
					strconv.FormatInt(e.ID, 10),
					e.Name,
					string(e.Status),
					stations,
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}

	cmd.AddCommand(list)
	return cmd
}

func newProductCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage products and their steps",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := app.Products.List(context.Background())
			if err != nil {
				return err
			}
			headers := []string{"ID", "Name"}
			rows := make([][]string, 0, len(products))
			for _, p := range products {
				rows = append(rows, []string{strconv.FormatInt(p.ID, 10), p.Name})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}

	steps := &cobra.Command{
		Use:   "steps <product-id>",
		Short: "Show a product's steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			steps, err := app.Products.ListSteps(context.Background(), id)
			if err != nil {
				return err
			}
			headers := []string{"ID", "Seq", "Code", "Name", "Category", "Sec/pc", "Equipment"}
			rows := make([][]string, 0, len(steps))
			for _, st := range steps {
				equipment := ""
				if st.EquipmentID != nil {
					equipment = strconv.FormatInt(*st.EquipmentID, 10)
				}
				rows = append(rows, []string{
					strconv.FormatInt(st.ID, 10),
					strconv.Itoa(st.Sequence),
					st.StepCode,
					st.Name,
					string(st.Category),
					strconv.Itoa(st.TimePerPieceSeconds),
					equipment,
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}

	cmd.AddCommand(list, steps)
	return cmd
}
