package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"reimport.dev/pkg/reimport/internal/domain"
)

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the active settings and rule table to reimport.yaml",
		Long: `Create reimport.yaml in the current directory with the settings reimport
would use right now: scan paths, backup suffix and the rule table, either the
built-in one or the one loaded from --rules-file. An existing file is never
overwritten.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := loadRuleTable(rulesLoader)
			if err != nil {
				return err
			}

			targetPath := filepath.Join(configFolderPath, configFileName)

			if err := snapshotConfig(table).SafeWriteConfigAs(targetPath); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			cmd.Printf("Wrote %s with %d rule(s)\n", targetPath, table.Len())

			return nil
		},
	}
}

// snapshotConfig copies the effective settings into a fresh viper with the
// rules inlined, so the written file does not depend on --rules-file.
func snapshotConfig(table *domain.RuleTable) *viper.Viper {
	out := viper.New()

	for _, key := range viper.AllKeys() {
		out.Set(key, viper.Get(key))
	}

	out.Set(rulesConfigKey, rulesConfig(table.Rules()))
	out.Set(rulesFileConfigKey, "")

	return out
}

func init() {
	rootCmd.AddCommand(initCmd)
}
