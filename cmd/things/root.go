package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	things "github.com/thingsapi/things-go"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "things",
	Short: "Read-only access to the Things app's task database",
	Long: `things reads the SQLite database of the Things task manager and prints
tasks, projects, areas, tags and checklists without ever writing to it.

The database location is resolved from, in order: the --db flag, the
THINGSDB environment variable, and the app's default group container.

Quick start:
  things inbox                 List incomplete to-dos in the Inbox
  things today                 List tasks scheduled for Today
  things tasks --tag Errand    List tasks carrying a tag
  things show <uuid>           Show one task or area
  things watch                 Follow database changes as the app writes`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.things/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "path to the Things database file")
	rootCmd.PersistentFlags().StringP("format", "f", "table", "output format: table, json, or yaml")
	rootCmd.PersistentFlags().Bool("debug", false, "log every executed SQL query to the debug log file")

	_ = viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindEnv("db", things.EnvVar)
}

// initConfig reads in the config file and environment variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("$HOME/.things")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("THINGS")
	viper.AutomaticEnv()

	// Missing config files are fine; a broken one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}
}

// databasePath resolves the database location from flag, environment, and
// default, in that order.
func databasePath() string {
	return things.ResolvePath(viper.GetString("db"))
}

// openDB opens the resolved database, attaching a rotating SQL debug log
// when --debug is set.
func openDB() (*things.DB, error) {
	var opts []things.Option
	if viper.GetBool("debug") {
		opts = append(opts, things.WithLogger(debugLogger()))
	}
	return things.Open(databasePath(), opts...)
}

// debugLogger writes SQL debug output to a rotating file next to the config,
// keeping terminal output clean for piping.
func debugLogger() *log.Logger {
	home, err := os.UserHomeDir()
	if err != nil {
		return log.New(os.Stderr, "[sql] ", log.LstdFlags)
	}
	return log.New(&lumberjack.Logger{
		Filename:   filepath.Join(home, ".things", "debug.log"),
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
	}, "[sql] ", log.LstdFlags)
}
