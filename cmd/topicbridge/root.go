package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix = "TOPICBRIDGE"
)

func Execute() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topicbridge",
		Short: "Relay between support users and a per-user-topic operator group",
		RunE:  runBridge,
	}

	cobra.OnInitialize(initViperDefaults, initConfig)

	cmd.PersistentFlags().String("config", "", "Config file path (optional).")
	_ = viper.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))

	cmd.PersistentFlags().String("log-level", "", "Logging level: debug|info|warn|error.")
	cmd.PersistentFlags().String("log-format", "text", "Logging format: text|json.")
	cmd.PersistentFlags().Bool("log-add-source", false, "Include source file:line in logs.")
	_ = viper.BindPFlag("logging.level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", cmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("logging.add_source", cmd.PersistentFlags().Lookup("log-add-source"))

	cmd.Flags().String("telegram-bot-token", "", "Telegram bot token.")
	cmd.Flags().String("telegram-base-url", "https://api.telegram.org", "Telegram API base URL.")
	cmd.Flags().String("support-group-id", "", "Chat id of the operator group with forum topics enabled.")
	cmd.Flags().String("state-file", "", "Path of the persisted user-topic mapping file.")
	cmd.Flags().Duration("telegram-poll-timeout", 0, "Long polling timeout for getUpdates.")
	cmd.Flags().Int("telegram-max-concurrency", 0, "Max number of chats relayed concurrently.")

	cmd.AddCommand(newVersionCmd())

	return cmd
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	cfgFile := strings.TrimSpace(viper.GetString("config"))
	if cfgFile == "" {
		return
	}

	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
	}
}
