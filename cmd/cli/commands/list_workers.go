package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
	"github.com/jakechorley/staffing-scheduler/pkg/core/services"
	"github.com/jakechorley/staffing-scheduler/pkg/db"
)

// ListWorkersCmd creates the listWorkers command
func ListWorkersCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listWorkers",
		Short: "List workers, optionally filtered by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")

			workers, err := services.ListWorkers(app.Ctx, app.Database, db.WorkerFilter{Status: model.WorkerStatus(status)}, app.Logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nFound %d workers:\n\n", len(workers))
			for _, w := range workers {
				reason := ""
				if w.StatusReason != "" {
					reason = fmt.Sprintf(" (%s)", w.StatusReason)
				}
				fmt.Fprintf(out, "- %s (%s) - %s%s - %s/h - %s\n",
					w.DisplayName(),
					w.ID,
					w.Status,
					reason,
					w.HourlyRate.StringFixed(2),
					strings.Join(w.Skills, ", "),
				)
			}

			return nil
		},
	}

	cmd.Flags().String("status", "", "Only list workers with this status")

	return cmd
}
