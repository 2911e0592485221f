package main

import (
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "0.1.0"

var v = viper.New()

var rootCmd = &cobra.Command{
	Use:     "traitforge",
	Short:   "Generate weighted, constraint-satisfying trait-layered collections",
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug-level console logging")
	_ = v.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	v.SetEnvPrefix("TRAITFORGE")
	v.AutomaticEnv()

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(visualizeCmd())
}

func consoleLogger() *charmlog.Logger {
	opts := charmlog.Options{ReportTimestamp: true}
	if v.GetBool("verbose") {
		opts.Level = charmlog.DebugLevel
	}
	return charmlog.NewWithOptions(os.Stderr, opts)
}
