package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dafibh/fortuna/fortuna-coach/internal/domain"
	"github.com/spf13/cobra"
)

func newPlanCommand(opts *rootOptions) *cobra.Command {
	var (
		file   string
		save   bool
		export string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build a coaching plan from a household file",
		Example: `  coach plan -f household.yaml
  coach plan -f household.yaml --save
  coach plan -f household.yaml --export plan.png`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			household, err := LoadHousehold(file)
			if err != nil {
				return err
			}
			input, err := household.PlanInput()
			if err != nil {
				return err
			}

			var format domain.ReportFormat
			if export != "" {
				format = domain.ReportFormat(strings.TrimPrefix(strings.ToLower(filepath.Ext(export)), "."))
				if !format.Valid() {
					return fmt.Errorf("%w: export file must end in .csv or .png", domain.ErrUnknownFormat)
				}
			}

			s, err := openSession(opts, true)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := commandContext(cmd)
			defer cancel()

			householdID := household.HouseholdID()
			var plan *domain.Plan
			if save {
				plan, err = s.coach.Plan(ctx, householdID, input)
			} else {
				plan, err = s.coach.Preview(ctx, householdID, input)
			}
			if err != nil {
				return err
			}

			printf(cmd, "%s", RenderPlan(plan))

			if save {
				if plan.SnapshotID == nil {
					return fmt.Errorf("plan built but the snapshot for %s was not saved", plan.Month)
				}
				printf(cmd, "\n  Saved snapshot %s for %s\n", plan.SnapshotID, plan.Month)
			}

			if export != "" {
				report, err := s.reports.Export(plan, format)
				if err != nil {
					return err
				}
				if err := os.WriteFile(export, report.Data, 0o644); err != nil {
					return fmt.Errorf("writing report: %w", err)
				}
				printf(cmd, "  Wrote %s report to %s\n", format, export)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Household YAML file")
	cmd.Flags().BoolVar(&save, "save", false, "Record a monthly snapshot in history")
	cmd.Flags().StringVar(&export, "export", "", "Write the plan as .csv or .png")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
