package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "backoffice",
	Short: "FuelWale back office service",
	Long:  `Back office service for fuel delivery operations: order intake, trip lifecycle, deliveries and invoicing`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
