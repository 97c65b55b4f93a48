package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "crosscoach-api",
	Short: "CrossCoach API server",
	Long:  `A REST API server and batch analyzer for the CrossCoach daily life-logging application.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
}
