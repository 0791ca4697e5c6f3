package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zainhoda/sij-manager-sub003/internal/cli/formatter"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dataset.json>",
		Short: "Load a full shop dataset in one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Import.ImportDataset(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(formatter.Header("Import — " + result.BatchTag))
			fmt.Printf("  Products:       %d\n", result.Products)
			fmt.Printf("  Steps:          %d\n", result.Steps)
			fmt.Printf("  Equipment:      %d\n", result.Equipment)
			fmt.Printf("  Workers:        %d\n", result.Workers)
			fmt.Printf("  Certifications: %d\n", result.Certifications)
			fmt.Printf("  Demand:         %d\n", result.Demand)
			return nil
		},
	}
}

func newServeCmd(app *App) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP/JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.ServeHTTP == nil {
				return fmt.Errorf("http server not wired")
			}
			return app.ServeHTTP(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	return cmd
}
