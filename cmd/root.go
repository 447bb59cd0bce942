package cmd

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/niktheblak/ruuvitag-decoder/internal/logging"
)

var (
	cfgFile   string
	logger    *slog.Logger
	logCloser io.Closer = io.NopCloser(nil)
)

var rootCmd = &cobra.Command{
	Use:          "ruuvitag-decoder",
	Short:        "Decoder for RuuviTag BLE advertisements",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, closer, err := logging.New(logging.Config{
			Format:     viper.GetString("log.format"),
			Level:      viper.GetString("log.level"),
			AddSource:  viper.GetBool("log.source"),
			File:       viper.GetString("log.file"),
			MaxSize:    viper.GetInt("log.max_size"),
			MaxBackups: viper.GetInt("log.max_backups"),
			MaxAge:     viper.GetInt("log.max_age"),
			Compress:   viper.GetBool("log.compress"),
		})
		if err != nil {
			return err
		}
		logger, logCloser = l, closer
		if f := viper.ConfigFileUsed(); f != "" {
			logger.LogAttrs(cmd.Context(), slog.LevelInfo, "Using config file", slog.String("config", f))
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return logCloser.Close()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	logger = slog.Default()
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ruuvitag-decoder/config.toml)")
	rootCmd.PersistentFlags().StringToString("names", nil, "sensor names by MAC address")
	rootCmd.PersistentFlags().StringToString("columns", nil, "output column names by field")
	rootCmd.PersistentFlags().String("log.format", "text", "log format: text, json or tint")
	rootCmd.PersistentFlags().String("log.level", "info", "log level")
	rootCmd.PersistentFlags().Bool("log.source", false, "include source location in log records")
	rootCmd.PersistentFlags().String("log.file", "", "write logs to a rotated file instead of stderr")
	rootCmd.PersistentFlags().Int("log.max_size", 100, "log file size in megabytes before rotation")
	rootCmd.PersistentFlags().Int("log.max_backups", 3, "rotated log files to keep")
	rootCmd.PersistentFlags().Int("log.max_age", 28, "days to keep rotated log files")
	rootCmd.PersistentFlags().Bool("log.compress", false, "gzip rotated log files")

	cobra.CheckErr(viper.BindPFlags(rootCmd.PersistentFlags()))
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("/etc/ruuvitag-decoder")
		viper.AddConfigPath("$HOME/.ruuvitag-decoder")
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			cobra.CheckErr(err)
		}
	}
}
