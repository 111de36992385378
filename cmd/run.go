package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"reimport.dev/pkg/reimport/internal/controller"
	"reimport.dev/pkg/reimport/internal/domain"
	m "reimport.dev/pkg/reimport/internal/model"
)

var runParallelFlag int
var runDryRunFlag bool
var runReportFlag string
var runLimitFlag int

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "run [root]",
		Short:        "Rewrite relocated imports, keeping .bak copies",
		Long:         runLongDescription,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, err := buildWorkflow(cmd)
			if err != nil {
				return err
			}

			_, err = wf.Run(cmd.Context(), domain.RunArgs{
				ScanArgs: scanArgs(args),
				DryRun:   runDryRunFlag,
				Threads:  viper.GetInt(runParallelConfigKey),
				Report:   m.Path(viper.GetString(reportOutputConfigKey)),
				Limit:    viper.GetInt(reportLimitConfigKey),
			})

			return err
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&runParallelFlag, runParallelFlagName, "p", defaultRunParallel, "number of files processed concurrently")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)

	cmd.Flags().StringVarP(&runReportFlag, reportFlagName, "r", "", "write a YAML report of the run to this path")
	bindFlagToConfig(cmd.Flags().Lookup(reportFlagName), reportOutputConfigKey)

	cmd.Flags().IntVar(&runLimitFlag, limitFlagName, controller.DefaultSummaryLimit, "number of changed paths listed in the summary")
	bindFlagToConfig(cmd.Flags().Lookup(limitFlagName), reportLimitConfigKey)

	cmd.Flags().BoolVar(&runDryRunFlag, dryRunFlagName, false, "report what would change without writing files")
}
