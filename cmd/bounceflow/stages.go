package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jfellner/bounceflow/internal/config"
	"github.com/jfellner/bounceflow/internal/presentation/graph"
)

// stagesCmd exports the workflow pipeline visualization.
var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "Export the workflow pipeline visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the bounce pipeline for the active configuration, including its guard aborts.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		strategy, _ := cmd.Flags().GetString("strategy")

		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if strategy != "" {
			cfg.Strategy = strategy
		}
		if err := cfg.Validate(); err != nil {
			fmt.Printf("Invalid config: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(graph.GenerateMermaid(graph.Pipeline(cfg.Strategy, cfg.Strict()), nil))
	},
}

func init() {
	rootCmd.AddCommand(stagesCmd)
	stagesCmd.Flags().String("strategy", "", "Chain transfer strategy: 'copy' or 'chunk'")
}
