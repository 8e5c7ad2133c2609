package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jfellner/bounceflow/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a bounce against the project",
	Long:  `Runs the full bounce workflow: preconditions, FX bypass, render, restore, chain transfer, and item muting.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFromFlags(cmd)
		if !cmd.Flags().Changed("project") && len(args) > 0 {
			opts.ProjectPath = args[0]
		}

		if err := cli.Execute(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func optionsFromFlags(cmd *cobra.Command) cli.RunOptions {
	project, _ := cmd.Flags().GetString("project")
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	pass, _ := cmd.Flags().GetString("pass")
	strategy, _ := cmd.Flags().GetString("strategy")
	headless, _ := cmd.Flags().GetBool("headless")
	jsonMode, _ := cmd.Flags().GetBool("json")
	redisURL, _ := cmd.Flags().GetString("redis-url")

	return cli.RunOptions{
		ProjectPath: project,
		ConfigPath:  configPath,
		Pass:        pass,
		Strategy:    strategy,
		Headless:    headless,
		JSON:        jsonMode,
		Debug:       debug,
		RedisURL:    redisURL,
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("pass", "primary", "Render pass: 'primary' or 'secondary'")
	cmd.Flags().String("strategy", "", "Chain transfer strategy: 'copy' or 'chunk'")
	cmd.Flags().Bool("headless", false, "Run in headless mode (no banner, plain output)")
	cmd.Flags().Bool("json", false, "Print the run report as JSON")
	cmd.Flags().String("redis-url", "", "Store run reports in Redis (e.g. redis://localhost:6379/0)")
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd)

	// Make 'run' the default if no command is provided
	rootCmd.Run = runCmd.Run
	addRunFlags(rootCmd)
}
