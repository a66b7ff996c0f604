package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/staffing-scheduler/pkg/core/model"
	"github.com/jakechorley/staffing-scheduler/pkg/core/services"
)

// GenerateCmd creates the generate command
func GenerateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Allocate workers to clients and generate shift schedules",
		Long: `Run the allocation and schedule generation pipeline. Every previously generated
contract and shift record is replaced; standing contracts are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			skipStatus, _ := cmd.Flags().GetBool("skip-status-update")
			start, _ := cmd.Flags().GetString("start")

			opts := services.RunOptions{DryRun: dryRun, SkipStatusUpdate: skipStatus}
			if cmd.Flags().Changed("seed") {
				seed, _ := cmd.Flags().GetInt64("seed")
				opts.Seed = &seed
			}
			if start != "" {
				runDate, err := model.ParseDate(start)
				if err != nil {
					return fmt.Errorf("--start: %w", err)
				}
				opts.RunDate = runDate
			}

			app.Logger.Debug("generate command",
				zap.Bool("dry_run", dryRun),
				zap.Bool("skip_status_update", skipStatus),
				zap.String("start", start))

			result, err := services.GenerateSchedules(app.Ctx, app.Database, app.Cfg, app.Logger, opts)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}

			printRunResult(cmd.OutOrStdout(), result, dryRun)
			return nil
		},
	}

	cmd.Flags().Int64("seed", 0, "Seed for random decisions (defaults to the configured seed)")
	cmd.Flags().Bool("dry-run", false, "Run without saving to database")
	cmd.Flags().String("start", "", "Run date as YYYY-MM-DD (defaults to today)")
	cmd.Flags().Bool("skip-status-update", false, "Leave worker statuses unchanged after saving")

	return cmd
}

func printRunResult(w io.Writer, result *services.RunResult, dryRun bool) {
	fmt.Fprintf(w, "\nSchedule Generation Results\n\n")
	fmt.Fprintf(w, "Run date:  %s\n", model.DateKey(result.RunDate))
	fmt.Fprintf(w, "Horizon:   %s\n", result.Horizon)
	fmt.Fprintf(w, "Seed:      %d\n", result.Seed)
	switch {
	case dryRun && result.Success:
		fmt.Fprintf(w, "Mode:      DRY RUN (not saved)\n")
	case result.Saved:
		fmt.Fprintf(w, "Status:    SUCCESS (saved to database)\n")
	default:
		fmt.Fprintf(w, "Status:    FAILED (not saved)\n")
	}
	fmt.Fprintln(w)

	if n := len(result.ContractValidationErrs) + len(result.ShiftValidationErrs); n > 0 {
		fmt.Fprintf(w, "Validation Errors (%d):\n", n)
		for _, verr := range result.ContractValidationErrs {
			fmt.Fprintf(w, "  • %s [%s]: %s\n", verr.Rule, verr.ContractID, verr.Description)
		}
		for _, verr := range result.ShiftValidationErrs {
			fmt.Fprintf(w, "  • %s [%s]: %s\n", verr.Rule, verr.RecordID, verr.Description)
		}
		fmt.Fprintln(w)
	}

	if len(result.Contracts) > 0 {
		fmt.Fprintf(w, "%-10s  %-10s  %-10s  %-20s  %-23s  %-8s  %s\n",
			"Number", "Worker", "Client", "Position", "Interval", "Shift", "Status")
		fmt.Fprintln(w, strings.Repeat("-", 100))
		for _, c := range result.Contracts {
			fmt.Fprintf(w, "%-10s  %-10s  %-10s  %-20s  %-23s  %-8s  %s\n",
				c.Number, c.WorkerID, c.ClientID, c.Position, c.Interval, c.ShiftType, c.Status)
		}
		fmt.Fprintln(w)
	}

	if len(result.SkippedClients) > 0 {
		fmt.Fprintf(w, "Skipped Clients (%d):\n", len(result.SkippedClients))
		for _, s := range result.SkippedClients {
			fmt.Fprintf(w, "  • %s (%s): %s\n", s.ClientID, s.Industry, s.Reason)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Summary:")
	result.Summary.Write(w)
	fmt.Fprintln(w)
}
