package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "attendbot",
		Short:         "Fill in the monthly Digisheet attendance form",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newRunCmd(defaultRunDeps()))
	cmd.AddCommand(newPlanCmd(defaultPlanDeps()))
	cmd.AddCommand(newHistoryCmd(defaultHistoryDeps()))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the CLI. Interrupting the process cancels the run in progress.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil {
		root.PrintErrln(Error("error: " + err.Error()))
	}
	return err
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
