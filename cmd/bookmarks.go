package cmd

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/abhisek/rehearse/internal/export"
	"github.com/abhisek/rehearse/internal/store"
)

var bookmarksCmd = &cobra.Command{
	Use:     "bookmarks",
	Aliases: []string{"bm"},
	Short:   "Manage saved interview reports",
}

var bookmarksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, _, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		items, err := s.BookmarkRepo().List(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("No bookmarks yet.")
			return nil
		}

		fmt.Printf("%-8s  %-16s  %-28s  %-12s  %7s  %s\n", "ID", "Date", "Role", "Difficulty", "Average", "Answered")
		fmt.Println(strings.Repeat("─", 96))
		for _, b := range items {
			rep := b.Report
			fmt.Printf("%-8s  %-16s  %-28s  %-12s  %6d%%  %d\n",
				shortID(b.ID),
				b.CreatedAt.Local().Format("2006-01-02 15:04"),
				truncate(rep.Role, 28),
				rep.Difficulty.Label(),
				rep.AverageScore,
				rep.TotalAnswered,
			)
		}
		return nil
	},
}

var bookmarksViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Print a saved report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		b, err := findBookmark(cmd, s.BookmarkRepo(), args[0])
		if err != nil {
			return err
		}
		if b.Note != "" {
			fmt.Printf("Note: %s\n\n", b.Note)
		}
		fmt.Print(export.Text(b.Report, nil))
		return nil
	},
}

var bookmarksDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		s, _, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		repo := s.BookmarkRepo()
		b, err := findBookmark(cmd, repo, args[0])
		if err != nil {
			return err
		}

		if !yes {
			label := fmt.Sprintf("Delete the %s report from %s", b.Report.Role, b.CreatedAt.Local().Format("2006-01-02"))
			if !confirm(label) {
				fmt.Println("Cancelled.")
				return nil
			}
		}
		if err := repo.Delete(cmd.Context(), b.ID); err != nil {
			return err
		}
		fmt.Println("Deleted", shortID(b.ID))
		return nil
	},
}

// findBookmark resolves a full ID or a unique ID prefix as printed by list.
func findBookmark(cmd *cobra.Command, repo store.BookmarkRepo, id string) (*store.Bookmark, error) {
	if b, err := repo.Get(cmd.Context(), id); err == nil {
		return b, nil
	}
	items, err := repo.List(cmd.Context(), 0)
	if err != nil {
		return nil, err
	}
	var match *store.Bookmark
	for i := range items {
		if strings.HasPrefix(items[i].ID, id) {
			if match != nil {
				return nil, fmt.Errorf("bookmark id %q is ambiguous", id)
			}
			match = &items[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("bookmark %s: %w", id, store.ErrNotFound)
	}
	return match, nil
}

// confirm asks a yes/no question on the terminal.
func confirm(label string) bool {
	p := promptui.Prompt{Label: label, IsConfirm: true}
	_, err := p.Run()
	return err == nil
}

func shortID(id string) string {
	return truncate(id, 8)
}

func init() {
	bookmarksListCmd.Flags().IntP("limit", "n", 20, "Number of bookmarks to show (0 for all)")
	bookmarksDeleteCmd.Flags().BoolP("yes", "y", false, "Delete without asking")

	bookmarksCmd.AddCommand(bookmarksListCmd)
	bookmarksCmd.AddCommand(bookmarksViewCmd)
	bookmarksCmd.AddCommand(bookmarksDeleteCmd)
}
