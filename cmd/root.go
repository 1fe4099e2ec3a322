package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rehearse",
	Short: "Practice job interviews in the terminal",
	Long: "Rehearse generates interview questions for a role, records your spoken or typed answers,\n" +
		"scores them against the points a strong answer covers and summarizes how you did.",
	SilenceUsage: true,
	RunE:         runPractice,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default ./rehearse.yaml or $XDG_CONFIG_HOME/rehearse/rehearse.yaml)")
	pf.String("db", "", "Path to SQLite database file (overrides REHEARSE_DB env var)")
	pf.Bool("debug", false, "Enable debug logging")
	pf.Bool("json", false, "Log in JSON format")

	addPracticeFlags(rootCmd)

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(bookmarksCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}
