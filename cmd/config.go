package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"reimport.dev/pkg/reimport/internal/adapter"
	"reimport.dev/pkg/reimport/internal/controller"
	"reimport.dev/pkg/reimport/internal/domain"
	m "reimport.dev/pkg/reimport/internal/model"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "reimport"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	extFlagName          = "ext"
	excludeFlagName      = "exclude"
	sourceDirFlagName    = "src-dir"
	backupSuffixFlagName = "backup-suffix"
	rulesFileFlagName    = "rules-file"
	runParallelFlagName  = "parallel"
	dryRunFlagName       = "dry-run"
	reportFlagName       = "report"
	limitFlagName        = "limit"
	verboseFlagName      = "verbose"
	logFileFlagName      = "log-file"

	rootConfigKey         = "paths.root"
	extensionsConfigKey   = "paths.extensions"
	excludeConfigKey      = "paths.exclude"
	sourceDirConfigKey    = "rewrite.source_dir"
	backupSuffixConfigKey = "rewrite.backup_suffix"
	rulesConfigKey        = "rules"
	rulesFileConfigKey    = "rules_file"
	runParallelConfigKey  = "run.parallel"
	reportLimitConfigKey  = "report.limit"
	reportOutputConfigKey = "report.output"

	defaultRoot        = "src"
	defaultExtension   = ".tsx"
	defaultRunParallel = 1

	envPrefix = "REIMPORT"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".reimport.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(rootConfigKey, defaultRoot)
	viper.SetDefault(extensionsConfigKey, []string{defaultExtension})
	viper.SetDefault(excludeConfigKey, []string{})
	viper.SetDefault(sourceDirConfigKey, domain.DefaultSourceDir)
	viper.SetDefault(backupSuffixConfigKey, domain.DefaultBackupSuffix)
	viper.SetDefault(rulesConfigKey, defaultRulesConfig())
	viper.SetDefault(rulesFileConfigKey, "")
	viper.SetDefault(runParallelConfigKey, defaultRunParallel)
	viper.SetDefault(reportLimitConfigKey, controller.DefaultSummaryLimit)
	viper.SetDefault(reportOutputConfigKey, "")

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	// A missing or unreadable reimport.yaml leaves the defaults in place.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Debug("Config not loaded", "file", configFileName, "error", err)
		}
	}
}

// defaultRulesConfig renders the built-in rules in the shape of the `rules`
// config key. Rules are a list rather than a map because viper lower-cases
// map keys and identifiers are case-sensitive.
func defaultRulesConfig() []map[string]string {
	return rulesConfig(domain.DefaultRules())
}

func rulesConfig(rules []m.Rule) []map[string]string {
	out := make([]map[string]string, 0, len(rules))

	for _, rule := range rules {
		out = append(out, map[string]string{"from": rule.Identifier, "to": rule.Target})
	}

	return out
}

// loadRuleTable builds the rule table from --rules-file when set, otherwise
// from the `rules` config key.
func loadRuleTable(loader adapter.RulesLoader) (*domain.RuleTable, error) {
	return loadRuleTableFrom(viper.GetViper(), loader)
}

func loadRuleTableFrom(v *viper.Viper, loader adapter.RulesLoader) (*domain.RuleTable, error) {
	var rules []m.Rule

	if path := strings.TrimSpace(v.GetString(rulesFileConfigKey)); path != "" {
		loaded, err := loader.LoadRules(m.Path(path))
		if err != nil {
			return nil, err
		}

		rules = loaded
	} else if err := v.UnmarshalKey(rulesConfigKey, &rules); err != nil {
		return nil, fmt.Errorf("decode %q config: %w", rulesConfigKey, err)
	}

	table, err := domain.NewRuleTable(rules)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}

	slog.Debug("Loaded rule table", "rules", table.Len())

	return table, nil
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose || viper.GetBool(logVerboseKey) {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
