package cli

import (
	"github.com/spf13/cobra"
)

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	var (
		file      string
		household string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved monthly snapshots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			name := household
			if file != "" {
				f, err := LoadHousehold(file)
				if err != nil {
					return err
				}
				name = f.Household
			}

			s, err := openSession(opts, true)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := commandContext(cmd)
			defer cancel()

			snapshots, err := s.coach.History(ctx, HouseholdID(name))
			if err != nil {
				return err
			}
			printf(cmd, "%s", RenderHistory(snapshots))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Household YAML file to take the household name from")
	cmd.Flags().StringVar(&household, "household", DefaultHouseholdName, "Household name")

	return cmd
}
