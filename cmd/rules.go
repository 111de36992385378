package cmd

import (
	"github.com/spf13/cobra"
)

// rulesCmd represents the rules command.
var rulesCmd = newRulesCmd()

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the active relocation rules",
		Long:  "List the rules from --rules-file, or from the rules key of reimport.yaml, or the built-in table.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			wf, err := buildWorkflow(cmd)
			if err != nil {
				return err
			}

			return wf.Rules(cmd.Context())
		},
	}
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
