package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aita/godbf/dbf"
)

var (
	cfgFile string
	logger  = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "godbf",
	Short: "Inspect and edit dBASE/FoxPro DBF tables",
	Long: `godbf reads, appends to, truncates and compares DBF tables.

Settings may come from flags, a config file ($HOME/.godbf.yaml by default)
or GODBF_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(cmd.OutOrStderr(), viper.GetString("log-level"))
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode maps table errors to distinct exit statuses.
func exitCode(err error) int {
	switch dbf.KindOf(err) {
	case dbf.KindParameter:
		return 2
	case dbf.KindFile:
		return 3
	case dbf.KindGeneric, dbf.KindCache:
		return 4
	}
	return 1
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.godbf.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".godbf")
	}

	viper.SetEnvPrefix("godbf")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
