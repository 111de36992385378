// Package cmd provides the root command and CLI setup for reimport.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"reimport.dev/pkg/reimport/internal/adapter"
	"reimport.dev/pkg/reimport/internal/controller"
	"reimport.dev/pkg/reimport/internal/domain"
	m "reimport.dev/pkg/reimport/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore
var rulesLoader adapter.RulesLoader

// extensionsFlag and excludePatterns are root-level flags that select candidate files.
var extensionsFlag []string
var excludePatterns []string

var sourceDirFlag string
var backupSuffixFlag string
var rulesFileFlag string

// verboseFlag switches the log file to debug level.
var verboseFlag bool
var logFileFlag string

func init() {
	// Initialize shared dependencies.
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	reportStore = adapter.NewReportStore()
	rulesLoader = adapter.NewRulesLoader()
}

const rootLongDescription = `reimport rewrites import statements after a directory reorganization.

Every candidate file under the source root is matched against a table that maps
old module names to their new import paths. Files that change are renamed to
<file>.bak first and the rewritten content is written to the original path.
Restoring is manual: move the .bak file back.`

const runLongDescription = `Rewrite imports of relocated modules under root (default: paths.root, "src").

Recognized forms, for a rule X -> P:
  from '/src/components/X'        -> from 'P'
  from '../../components/X'       -> from 'P'
  .../components/X anywhere else  -> .../P

Changed files keep their original content at <file>.bak. A file whose backup
path already exists is skipped and reported as an error.`

const planLongDescription = `Show the unified diff of every file "run" would change, without writing anything.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reimport",
		Short: "Rewrite imports of relocated modules",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logFileFlag, verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringArrayVarP(&extensionsFlag, extFlagName, "e", []string{defaultExtension}, "file extension to scan (can be repeated)")
	bindFlagToConfig(flags.Lookup(extFlagName), extensionsConfigKey)

	flags.StringArrayVarP(&excludePatterns, excludeFlagName, "x", nil, "exclude files matching regex (can be repeated)")
	bindFlagToConfig(flags.Lookup(excludeFlagName), excludeConfigKey)

	flags.StringVar(&sourceDirFlag, sourceDirFlagName, domain.DefaultSourceDir, "top-level directory used by absolute imports (/<dir>/components/...)")
	bindFlagToConfig(flags.Lookup(sourceDirFlagName), sourceDirConfigKey)

	flags.StringVar(&backupSuffixFlag, backupSuffixFlagName, domain.DefaultBackupSuffix, "suffix appended to a file's path for its backup")
	bindFlagToConfig(flags.Lookup(backupSuffixFlagName), backupSuffixConfigKey)

	flags.StringVar(&rulesFileFlag, rulesFileFlagName, "", "YAML file mapping old module names to new import paths")
	bindFlagToConfig(flags.Lookup(rulesFileFlagName), rulesFileConfigKey)

	flags.BoolVarP(&verboseFlag, verboseFlagName, "v", defaultLogVerbose, "debug logging")
	bindFlagToConfig(flags.Lookup(verboseFlagName), logVerboseKey)

	flags.StringVar(&logFileFlag, logFileFlagName, "", "log file (default from log.filename)")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

// buildWorkflow is swapped out by tests.
var buildWorkflow = newWorkflow

// newWorkflow assembles the workflow from the current configuration. The UI
// writes to cmd's output streams.
func newWorkflow(cmd *cobra.Command) (domain.Workflow, error) {
	table, err := loadRuleTable(rulesLoader)
	if err != nil {
		return nil, err
	}

	ui := controller.NewUI(cmd, controller.IsTTY(cmd.OutOrStdout()))
	rewriter := domain.NewRewriter(table, viper.GetString(sourceDirConfigKey))
	writer := domain.NewSafeWriter(fsAdapter, viper.GetString(backupSuffixConfigKey))

	return domain.NewWorkflow(fsAdapter, reportStore, ui, table, rewriter, writer), nil
}

func scanArgs(args []string) domain.ScanArgs {
	root := viper.GetString(rootConfigKey)
	if len(args) > 0 {
		root = args[0]
	}

	return domain.ScanArgs{
		Root:       m.Path(root),
		Extensions: viper.GetStringSlice(extensionsConfigKey),
		Exclude:    viper.GetStringSlice(excludeConfigKey),
	}
}
