package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jfellner/bounceflow/internal/cli"
)

// validateCmd checks preconditions without touching any session state.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check bounce preconditions without running",
	Long:  `Verifies track selection, hardware insert position, MIDI-only items, and helper script availability. Nothing is mutated.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFromFlags(cmd)
		if !cmd.Flags().Changed("project") && len(args) > 0 {
			opts.ProjectPath = args[0]
		}

		if err := cli.RunValidate(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addRunFlags(validateCmd)
}
