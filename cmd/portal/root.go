// cmd/portal/root.go
package main

import (
	"github.com/spf13/cobra"
)

const app = "ijp-portal"

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "ijp-portal runs the job placement portal core services",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is configs/config.yaml)")
}
