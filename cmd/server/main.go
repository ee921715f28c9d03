// Package main is the entry point for the mission API server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mission-api",
	Short: "Mission API gRPC Server",
	Long:  `Mission API provides mission generation and battle resolution for shinobi game worlds.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(simulateCmd)
}
