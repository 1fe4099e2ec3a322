package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all bookmarks and the LLM request log",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirm("Delete all saved reports and LLM history") {
			fmt.Println("Cancelled.")
			return nil
		}

		s, _, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Purge(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("All data deleted.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Reset without asking")
}
