package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "canvas-backend",
	Short: "Interaction server for the infinite canvas",
	Long: `canvas-backend serves the infinite canvas editor: a REST API for
nodes, connections and chat, and a websocket gateway that runs the
pan, zoom, drag and connect interaction sessions.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
