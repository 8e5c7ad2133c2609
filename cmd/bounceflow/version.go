package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jfellner/bounceflow"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of bounceflow",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bounceflow version %s\n", strings.TrimSpace(bounceflow.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
