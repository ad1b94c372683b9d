package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bl4ck0w1/subforce/cmd/subforce/commands"
	"github.com/bl4ck0w1/subforce/pkg/utils"
)

var (
	version   = "1.0.0"
	commit    = "unknown"
	buildDate = "unknown"
)

var appLogger *utils.Logger

var rootCmd = &cobra.Command{
	Use:           "subforce",
	Short:         "SubForce - concurrent DNS subdomain brute-forcer",
	Long:          "SubForce resolves <word>.<domain> for every word of a wordlist with a bounded pool of workers and reports the names that exist.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := initLogging(); err != nil {
			return err
		}
		if !viper.GetBool("quiet") && cmd.Name() == "scan" {
			printBanner()
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appLogger != nil {
			_ = appLogger.Close()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.subforce/config.yaml)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "quiet mode (no banner output)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().String("log-file", "", "log file path")
	rootCmd.PersistentFlags().String("log-output", "", "log destination (console, file, both); defaults to both when --log-file is set")
	rootCmd.PersistentFlags().Int("log-max-size", 100, "maximum log file size in MB before rotation")
	rootCmd.PersistentFlags().Int("log-max-backups", 3, "number of rotated log files to keep")
	rootCmd.PersistentFlags().Int("log-max-age", 28, "days to keep rotated log files")
	rootCmd.PersistentFlags().Bool("log-compress", false, "gzip rotated log files")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))
	_ = viper.BindPFlag("log_output", rootCmd.PersistentFlags().Lookup("log-output"))
	_ = viper.BindPFlag("log_max_size", rootCmd.PersistentFlags().Lookup("log-max-size"))
	_ = viper.BindPFlag("log_max_backups", rootCmd.PersistentFlags().Lookup("log-max-backups"))
	_ = viper.BindPFlag("log_max_age", rootCmd.PersistentFlags().Lookup("log-max-age"))
	_ = viper.BindPFlag("log_compress", rootCmd.PersistentFlags().Lookup("log-compress"))

	rootCmd.AddCommand(commands.NewScanCommand())
	rootCmd.AddCommand(commands.NewConfigureCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, buildDate))
	rootCmd.AddCommand(commands.NewCompletionCommand())

	rootCmd.SetVersionTemplate(fmt.Sprintf("SubForce %s (commit %s, built %s)\n", version, commit, buildDate))
}

func initConfig() error {
	setDefaults()
	viper.SetEnvPrefix("SUBFORCE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("get home dir: %w", err)
		}
		viper.AddConfigPath(filepath.Join(home, ".subforce"))
		viper.AddConfigPath("/etc/subforce/")
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			logrus.Warnf("Failed reading config file: %v", err)
		}
	} else {
		logrus.Debugf("Using config file: %s", viper.ConfigFileUsed())
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("log_format", "text")
	viper.SetDefault("quiet", false)
	viper.SetDefault("log_max_size", 100)
	viper.SetDefault("log_max_backups", 3)
	viper.SetDefault("log_max_age", 28)
}

func initLogging() error {
	logConfig := utils.LogConfig{
		Level:         viper.GetString("log_level"),
		Format:        viper.GetString("log_format"),
		Output:        viper.GetString("log_output"),
		FileLocation:  viper.GetString("log_file"),
		MaxSize:       viper.GetInt("log_max_size"),
		MaxBackups:    viper.GetInt("log_max_backups"),
		MaxAge:        viper.GetInt("log_max_age"),
		Compress:      viper.GetBool("log_compress"),
		EnableConsole: true,
	}

	logger, err := utils.NewLogger(logConfig, "subforce", version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize structured logger, falling back: %v\n", err)
		logrus.SetOutput(os.Stderr)
		logrus.SetLevel(logrus.WarnLevel)
		return nil
	}
	appLogger = logger

	logrus.SetOutput(logger.Out)
	logrus.SetLevel(logger.Level)
	logrus.SetFormatter(logger.Formatter)
	logrus.StandardLogger().ReplaceHooks(logger.Hooks)
	return nil
}

func printBanner() {
	const banner = `
   ____        __    ______                   
  / __/__ __  / /   / __/ /_ ___ ____ ___ ___ 
 _\ \/ // / / _ \  / _// _ \/ _ \/ __/ __/ -_)
/___/\_,_/ /_.__/ /_/  \___/_/ /_/\__/\__/\__/ 
                                                
        Concurrent subdomain brute-forcer %s
`
	fmt.Printf(banner, version)
	fmt.Printf("Build: %s (%s) | %s/%s\n\n", commit, buildDate, runtime.GOOS, runtime.GOARCH)
}

func main() {
	startTime := time.Now()
	Execute()
	logrus.Debugf("Execution completed in %v", time.Since(startTime))
}
