package cli

import (
	"errors"
	"fmt"
	"io"

	"churchevents/internal/domain"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	okColor       = color.New(color.FgGreen, color.Bold)
	rejectedColor = color.New(color.FgRed, color.Bold)
)

// ErrRejected is returned by commands when an activity was not admitted.
// The rejection itself has already been printed.
var ErrRejected = errors.New("program rejected")

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "programctl",
		Version: "dev",
		Short:   "Validate and edit day programs offline",
		Long: `programctl checks and edits YAML day-program files with the same rules
the event console applies: every activity needs a label, a start and an end,
starts before it ends, and never overlaps another activity of the day.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newAddCmd())
	return cmd
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func printProgram(w io.Writer, day string, s domain.Schedule) {
	fmt.Fprintf(w, "%s  (%d activities)\n", day, len(s))
	for i, a := range s {
		line := fmt.Sprintf("  %2d  %s-%s  %s", i, a.Start, a.End, a.Label)
		if a.Presenter != "" {
			line += " (" + a.Presenter + ")"
		}
		fmt.Fprintln(w, line)
	}
}

// reportRejection prints err and returns ErrRejected when err is a *domain.Rejection.
// Any other error is returned unchanged.
func reportRejection(w io.Writer, subject string, err error) error {
	var rej *domain.Rejection
	if !errors.As(err, &rej) {
		return err
	}
	fmt.Fprintf(w, "%s %s: [%s] %s\n", rejectedColor.Sprint("rejected"), subject, rej.Reason, rej.Error())
	return ErrRejected
}
