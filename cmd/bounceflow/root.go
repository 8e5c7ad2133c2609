package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bounceflow",
	Short: "Bounce MIDI through a hardware insert onto a new track",
	Long: `Bounceflow renders the MIDI items on a selected track to audio through
the external hardware insert in the track's first FX slot, then rebuilds the
rest of the FX chain on the rendered track.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("project", "", "Project fixture (YAML) to run against")
	rootCmd.PersistentFlags().String("config", "", "Workflow configuration file (YAML)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
