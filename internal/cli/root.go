// Package cli is the cobra command tree over the service layer. Commands
// parse flags, call one service operation and render the result through
// the formatter package.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/zainhoda/sij-manager-sub003/internal/service"
)

// App holds the service interfaces the commands run against, plus the
// interactivity probe used to decide when huh forms may take over the
// terminal.
type App struct {
	Products  service.ProductService
	Workers   service.WorkerService
	Equipment service.EquipmentService
	Demand    service.DemandService
	Planning  service.PlanningService
	Replan    service.ReplanService
	Profic    service.ProficiencyService
	Capacity  service.CapacityService
	Settings  service.SettingsService
	Import    service.ImportService

	// ServeHTTP starts the HTTP server; wired in cmd/sij so the CLI
	// package stays free of transport concerns.
	ServeHTTP func(addr string) error

	IsInteractive func() bool
}

// NewRootCmd creates the top-level "sij" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "sij",
		Short: "Production planning for the sewing shop floor",
	}

	root.AddCommand(
		newPlanCmd(app),
		newReplanCmd(app),
		newTaskCmd(app),
		newDemandCmd(app),
		newWorkerCmd(app),
		newEquipmentCmd(app),
		newProductCmd(app),
		newCapacityCmd(app),
		newProficiencyCmd(app),
		newSettingsCmd(app),
		newImportCmd(app),
		newServeCmd(app),
	)

	return root
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}
