package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

func newSimulateCommand(opts *rootOptions) *cobra.Command {
	var (
		file     string
		budget   string
		strategy string
		schedule bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate debt payoff for the loans in a household file",
		Long: "Simulate debt payoff for the loans in a household file. The debt budget comes from --budget,\n" +
			"then the file's debtBudget, then the reconciled allocation.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			household, err := LoadHousehold(file)
			if err != nil {
				return err
			}

			s, err := openSession(opts, false)
			if err != nil {
				return err
			}
			defer s.Close()

			input, err := household.SimulateInput(budget, strategy, schedule)
			if errors.Is(err, ErrNoDebtBudget) {
				req, reqErr := household.AllocationRequest()
				if reqErr != nil {
					return reqErr
				}
				alloc, reqErr := s.coach.Reconcile(req)
				if reqErr != nil {
					return reqErr
				}
				input, err = household.SimulateInput(alloc.AdjustedDebtBudget.String(), strategy, schedule)
			}
			if err != nil {
				return err
			}

			out, err := s.coach.Simulate(input)
			if err != nil {
				return err
			}

			printf(cmd, "  Debt budget: %s\n\n", money(input.DebtBudget))
			if out.Comparison != nil {
				printf(cmd, "%s", RenderComparison(*out.Comparison))
			}
			if out.Result != nil {
				printf(cmd, "%s", RenderResult(*out.Result))
			}
			if len(out.Schedule) > 0 {
				printf(cmd, "\n%s", RenderSchedule(out.Schedule))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Household YAML file")
	cmd.Flags().StringVar(&budget, "budget", "", "Monthly debt budget")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "compare", "snowball, avalanche or compare")
	cmd.Flags().BoolVar(&schedule, "schedule", false, "Print the month-by-month schedule")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
