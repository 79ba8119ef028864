package cli

import (
	"fmt"

	"churchevents/internal/domain"

	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a day program file",
		Long: `Rebuild the day program from scratch in file order and print it sorted by
start time. The first activity that cannot be admitted is reported and the
command exits with status 1.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf, err := LoadProgramFile(args[0])
			if err != nil {
				return err
			}

			s := domain.Schedule{}
			for i, a := range pf.Activities {
				next, err := domain.TryAdmit(s, a, domain.NoReplace)
				if err != nil {
					return reportRejection(cmd.OutOrStdout(), fmt.Sprintf("activity %d %q", i, a.Label), err)
				}
				s = next
			}

			printProgram(cmd.OutOrStdout(), pf.Day, s)
			fmt.Fprintln(cmd.OutOrStdout(), okColor.Sprint("ok"))
			return nil
		},
	}
}
