package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/rehearse/internal/interview"
)

var scoreCmd = &cobra.Command{
	Use:   "score [transcript...]",
	Short: "Score an answer against expected points",
	Long:  "Score a transcript against expected answer points. The transcript is read from stdin when no arguments are given.",
	Example: `  rehearse score -p "dependency injection" -p "unit tests" "I use dependency injection so unit tests stay simple"
  echo "my answer" | rehearse score -p "first point"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		points, _ := cmd.Flags().GetStringArray("points")

		transcript := strings.Join(args, " ")
		if len(args) == 0 {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read transcript: %w", err)
			}
			transcript = string(data)
		}

		s, err := interview.ScoreAnswer(strings.TrimSpace(transcript), points)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Score:  %d%%\nStars:  %s\nRemark: %s\n",
			s.Percent, strings.Repeat("★", s.Stars)+strings.Repeat("☆", 5-s.Stars), s.Remark)
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringArrayP("points", "p", nil, "Expected answer point (repeatable)")
	_ = scoreCmd.MarkFlagRequired("points")
}
