package main

import (
	"nutriscan-backend/internal/utils"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "nutriscan",
	Short: "NutriScan nutrition tracking API",
	Long:  "nutriscan serves the NutriScan REST API and ships maintenance commands for its database and goal engine.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.LoadConfigFrom(configPath)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to the YAML config file")
	rootCmd.AddCommand(serveCmd, migrateCmd, goalsCmd, tokenCmd)
}
