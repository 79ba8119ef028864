package cli

import (
	"fmt"

	"churchevents/internal/domain"

	"github.com/spf13/cobra"
)

type addOptions struct {
	day       string
	start     string
	end       string
	label     string
	presenter string
	replace   int
}

func newAddCmd() *cobra.Command {
	opts := &addOptions{}
	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Admit an activity into a day program file",
		Long: `Validate one activity against the program in <file> and write the updated,
sorted program back. With --replace N the activity takes the place of the
Nth activity as listed in the file (counting from 0) and is not checked against
that activity's old times. A file that does not exist yet is created for --day.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.day, "day", "", "Program day (YYYY-MM-DD) when creating a new file")
	cmd.Flags().StringVar(&opts.start, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&opts.end, "end", "", "End time (HH:MM)")
	cmd.Flags().StringVar(&opts.label, "label", "", "Activity label")
	cmd.Flags().StringVar(&opts.presenter, "presenter", "", "Presenter name")
	cmd.Flags().IntVar(&opts.replace, "replace", domain.NoReplace, "Index of the activity to replace, in file order")
	return cmd
}

func runAdd(cmd *cobra.Command, path string, opts *addOptions) error {
	pf, err := LoadProgramFile(path)
	switch {
	case isNotExist(err):
		if _, derr := domain.ParseDay(opts.day); derr != nil {
			return fmt.Errorf("%s does not exist: --day is required to create it: %w", path, derr)
		}
		pf = &ProgramFile{Day: opts.day}
	case err != nil:
		return err
	}

	if _, err := domain.BuildSchedule(pf.Activities); err != nil {
		return reportRejection(cmd.OutOrStdout(), "existing program", err)
	}

	// --replace counts slots in file order, which need not be sorted.
	others := domain.Schedule(pf.Activities)
	if opts.replace != domain.NoReplace {
		if others, err = others.Remove(opts.replace); err != nil {
			return err
		}
	}
	base, err := domain.BuildSchedule(others)
	if err != nil {
		return reportRejection(cmd.OutOrStdout(), "existing program", err)
	}

	candidate := domain.Activity{
		Start:     opts.start,
		End:       opts.end,
		Label:     opts.label,
		Presenter: opts.presenter,
	}
	next, err := domain.TryAdmit(base, candidate, domain.NoReplace)
	if err != nil {
		return reportRejection(cmd.OutOrStdout(), fmt.Sprintf("%q", candidate.Label), err)
	}

	pf.Activities = next
	if err := SaveProgramFile(path, pf); err != nil {
		return err
	}
	printProgram(cmd.OutOrStdout(), pf.Day, next)
	return nil
}
