package cmd

import (
	"github.com/spf13/cobra"
)

// planCmd represents the plan command.
var planCmd = newPlanCmd()

func newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "plan [root]",
		Short:        "Preview the rewrite as unified diffs",
		Long:         planLongDescription,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := buildWorkflow(cmd)
			if err != nil {
				return err
			}

			_, err = wf.Plan(cmd.Context(), scanArgs(args))

			return err
		},
	}
}

func init() {
	rootCmd.AddCommand(planCmd)
}
